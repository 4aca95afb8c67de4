package llmhandler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	jsonextract "hr-agent-backend/lib/llm/json-extract"
	"hr-agent-backend/lib/llm/prompts"
	ailogstore "hr-agent-backend/lib/llm/store"
	dbmodels "hr-agent-backend/models/db"
)

// Client is one hosted or local model.
type Client interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Provider is the text completion collaborator the agents use.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var Instance Provider

// Func adapts a plain function to Provider.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

var ErrNotConfigured = errors.New("language model is not configured")

type impl struct {
	client   Client
	logStore ailogstore.Provider
}

// NewHandler sets Instance. client may be nil, then every call fails with ErrNotConfigured.
// logStore may be nil when the relational database is disabled.
func NewHandler(client Client, logStore ailogstore.Provider) {
	Instance = New(client, logStore)
}

func New(client Client, logStore ailogstore.Provider) Provider {
	return &impl{client: client, logStore: logStore}
}

func (i impl) getLogger() *log.Entry {
	name := "none"
	if i.client != nil {
		name = i.client.Name()
	}
	return log.WithField("ai", name)
}

func (i impl) Complete(ctx context.Context, prompt string) (string, error) {
	if i.client == nil {
		return "", ErrNotConfigured
	}
	now := time.Now()
	answer, err := i.client.Complete(ctx, prompt)
	duration := time.Since(now).Seconds()
	logger := i.getLogger().
		WithField("prompt", prompt).
		WithField("answer", answer).
		WithField("answer_duration_sec", duration)
	if err != nil {
		logger.WithError(err).Error("AI request failed")
	} else {
		logger.Info("AI answer received")
	}
	if i.logStore != nil {
		rec := dbmodels.AiLog{
			Provider:    i.client.Name(),
			Prompt:      prompt,
			Answer:      answer,
			DurationSec: duration,
		}
		if err != nil {
			rec.Error = err.Error()
		}
		if _, saveErr := i.logStore.Save(rec); saveErr != nil {
			i.getLogger().WithError(saveErr).Warn("failed to save AI log")
		}
	}
	return answer, err
}

// Ask renders the named prompt and returns the model answer.
func Ask(ctx context.Context, provider Provider, prompt string, data interface{}) (string, error) {
	if provider == nil {
		return "", ErrNotConfigured
	}
	text, err := prompts.Render(prompt, data)
	if err != nil {
		return "", err
	}
	return provider.Complete(ctx, text)
}

// AskJSON renders the named prompt and decodes the JSON object of the answer into out.
// Transport failures come back as err; unreadable answers as a failed Result.
func AskJSON(ctx context.Context, provider Provider, prompt string, data interface{}, out interface{}) (jsonextract.Result, error) {
	answer, err := Ask(ctx, provider, prompt, data)
	if err != nil {
		return jsonextract.Result{}, err
	}
	return jsonextract.Decode(answer, out), nil
}
