package inference

import (
	"github.com/pkg/errors"
)

// NewEngineFromSettings builds the Engine the settings ask for.
func NewEngineFromSettings(settings *Settings) (Engine, error) {
	switch settings.Provider {
	case ProviderOllama, "":
		return NewOllamaEngine(settings)
	case ProviderOpenAI:
		return NewOpenAIEngine(settings), nil
	default:
		return nil, errors.Errorf("unknown provider %q", settings.Provider)
	}
}
