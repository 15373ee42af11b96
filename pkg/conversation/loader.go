package conversation

import (
	"encoding/json"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadExchangesFromFile reads seed exchanges from a JSON or YAML file,
// facilitating conversation initialization from saved states.
func LoadExchangesFromFile(filename string) ([]Exchange, error) {
	if strings.HasSuffix(filename, ".json") {
		return loadExchangesFromJSONFile(filename)
	} else if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		return loadExchangesFromYAMLFile(filename)
	}
	return nil, nil
}

func loadExchangesFromYAMLFile(filename string) ([]Exchange, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	var exchanges []Exchange
	if err := yaml.NewDecoder(f).Decode(&exchanges); err != nil {
		return nil, err
	}

	return exchanges, nil
}

func loadExchangesFromJSONFile(filename string) ([]Exchange, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	var exchanges []Exchange
	if err := json.NewDecoder(f).Decode(&exchanges); err != nil {
		return nil, err
	}

	return exchanges, nil
}
