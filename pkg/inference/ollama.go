package inference

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jmorganca/ollama/api"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// OllamaEngine generates completions through a local Ollama server using its
// non-streaming generate endpoint.
type OllamaEngine struct {
	Client   *api.Client
	Settings *Settings
}

var _ Engine = (*OllamaEngine)(nil)

func NewOllamaEngine(settings *Settings) (*OllamaEngine, error) {
	base, err := url.Parse(settings.BaseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid ollama base URL %s", settings.BaseURL)
	}

	return &OllamaEngine{
		Client:   api.NewClient(base, http.DefaultClient),
		Settings: settings,
	}, nil
}

func (e *OllamaEngine) Generate(ctx context.Context, prompt string, model string) (string, error) {
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

	stream := false
	req := &api.GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: &stream,
	}

	log.Debug().
		Str("model", model).
		Int("prompt_length", len(prompt)).
		Msg("querying ollama")

	var response string
	err := e.Client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		response += resp.Response
		return nil
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.Wrapf(err, "request to ollama timed out after %s", e.Settings.Timeout)
		}
		return "", errors.Wrap(err, "request to ollama failed")
	}

	return response, nil
}

func (e *OllamaEngine) Ping(ctx context.Context) error {
	if err := e.Client.Heartbeat(ctx); err != nil {
		return errors.Wrap(err, "could not connect to ollama server")
	}
	return nil
}
