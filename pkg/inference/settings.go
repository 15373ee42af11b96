package inference

import (
	"time"

	"github.com/huandu/go-clone"
)

type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

const (
	DefaultModel   = "gemma3:4b"
	DefaultBaseURL = "http://127.0.0.1:11434"
	DefaultTimeout = 30 * time.Second
)

type Settings struct {
	Provider Provider      `yaml:"provider" mapstructure:"provider"`
	Model    string        `yaml:"model" mapstructure:"model"`
	BaseURL  string        `yaml:"base-url" mapstructure:"base-url"`
	APIKey   string        `yaml:"api-key,omitempty" mapstructure:"api-key"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

func NewSettings() *Settings {
	return &Settings{
		Provider: ProviderOllama,
		Model:    DefaultModel,
		BaseURL:  DefaultBaseURL,
		Timeout:  DefaultTimeout,
	}
}

func (s *Settings) Clone() *Settings {
	return clone.Clone(s).(*Settings)
}
