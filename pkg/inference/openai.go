package inference

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEngine generates completions through an OpenAI-compatible chat
// completion endpoint.
type OpenAIEngine struct {
	Client   *openai.Client
	Settings *Settings
}

var _ Engine = (*OpenAIEngine)(nil)

func NewOpenAIEngine(settings *Settings) *OpenAIEngine {
	config := openai.DefaultConfig(settings.APIKey)
	if settings.BaseURL != "" {
		config.BaseURL = settings.BaseURL
	}

	return &OpenAIEngine{
		Client:   openai.NewClientWithConfig(config),
		Settings: settings,
	}
}

func (e *OpenAIEngine) Generate(ctx context.Context, prompt string, model string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt cannot be empty")
	}
	if strings.TrimSpace(model) == "" {
		model = e.Settings.Model
	}

	if e.Settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Settings.Timeout)
		defer cancel()
	}

	log.Debug().
		Str("model", model).
		Int("prompt_length", len(prompt)).
		Msg("querying openai-compatible endpoint")

	resp, err := e.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion request failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (e *OpenAIEngine) Ping(ctx context.Context) error {
	if _, err := e.Client.ListModels(ctx); err != nil {
		return errors.Wrap(err, "could not reach model endpoint")
	}
	return nil
}
