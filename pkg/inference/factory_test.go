package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineFromSettingsOllama(t *testing.T) {
	engine, err := NewEngineFromSettings(NewSettings())
	require.NoError(t, err)
	assert.IsType(t, &OllamaEngine{}, engine)
}

func TestNewEngineFromSettingsEmptyProviderDefaultsToOllama(t *testing.T) {
	settings := NewSettings()
	settings.Provider = ""

	engine, err := NewEngineFromSettings(settings)
	require.NoError(t, err)
	assert.IsType(t, &OllamaEngine{}, engine)
}

func TestNewEngineFromSettingsOpenAI(t *testing.T) {
	settings := NewSettings()
	settings.Provider = ProviderOpenAI
	settings.APIKey = "sk-test"

	engine, err := NewEngineFromSettings(settings)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIEngine{}, engine)
}

func TestNewEngineFromSettingsUnknownProvider(t *testing.T) {
	settings := NewSettings()
	settings.Provider = "mainframe"

	_, err := NewEngineFromSettings(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mainframe")
}

func TestSettingsCloneIsIndependent(t *testing.T) {
	settings := NewSettings()
	copied := settings.Clone()
	copied.Model = "other"

	assert.Equal(t, DefaultModel, settings.Model)
}
