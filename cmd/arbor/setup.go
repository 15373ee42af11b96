package main

import (
	"github.com/spf13/viper"

	"github.com/go-go-golems/arbor/pkg/conversation"
	"github.com/go-go-golems/arbor/pkg/events"
	"github.com/go-go-golems/arbor/pkg/inference"
	"github.com/go-go-golems/arbor/pkg/store"
)

func settingsFromViper() *inference.Settings {
	settings := inference.NewSettings()
	if provider := viper.GetString("provider"); provider != "" {
		settings.Provider = inference.Provider(provider)
	}
	if model := viper.GetString("model"); model != "" {
		settings.Model = model
	}
	if baseURL := viper.GetString("base-url"); baseURL != "" {
		settings.BaseURL = baseURL
	}
	settings.APIKey = viper.GetString("api-key")
	if timeout := viper.GetDuration("timeout"); timeout > 0 {
		settings.Timeout = timeout
	}
	return settings
}

func newManager(engine inference.Engine, settings *inference.Settings, publisher *events.PublisherManager) (*conversation.ManagerImpl, error) {
	options := []conversation.ManagerOption{
		conversation.WithStore(store.NewFileStore(viper.GetString("state-dir"))),
		conversation.WithGenerator(engine),
		conversation.WithPromptRenderer(inference.BuildPrompt),
		conversation.WithDefaultModel(settings.Model),
	}
	if publisher != nil {
		options = append(options, conversation.WithPublisherManager(publisher))
	}
	return conversation.NewManager(options...)
}
