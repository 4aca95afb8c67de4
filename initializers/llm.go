package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"
	"hr-agent-backend/config"
	"hr-agent-backend/db"
	llmhandler "hr-agent-backend/lib/llm"
	anthropicclient "hr-agent-backend/lib/llm/anthropic-client"
	geminiclient "hr-agent-backend/lib/llm/gemini-client"
	ollamaclient "hr-agent-backend/lib/llm/ollama-client"
	openaiclient "hr-agent-backend/lib/llm/openai-client"
	"hr-agent-backend/lib/llm/prompts"
	ailogstore "hr-agent-backend/lib/llm/store"
	yagptclient "hr-agent-backend/lib/llm/yagpt-client"
)

// InitLLM picks the completion client by AI.Provider. A missing key leaves the handler
// without a client; agents then degrade to their fallbacks.
func InitLLM(ctx context.Context) {
	cfg := config.Conf.AI
	if cfg.PromptsFile != "" {
		if err := prompts.LoadOverrides(cfg.PromptsFile); err != nil {
			log.WithError(err).WithField("file", cfg.PromptsFile).Error("prompt overrides not loaded")
		}
	}
	var logStore ailogstore.Provider
	if db.DB != nil {
		logStore = ailogstore.NewInstance(db.DB)
	}
	client, err := newLLMClient(ctx)
	if err != nil {
		log.WithError(err).WithField("provider", cfg.Provider).Error("language model client not created")
		client = nil
	}
	if client == nil {
		log.WithField("provider", cfg.Provider).Warn("language model is not configured")
		llmhandler.NewHandler(nil, logStore)
		return
	}
	log.WithField("ai", client.Name()).Info("language model configured")
	llmhandler.NewHandler(client, logStore)
}

func newLLMClient(ctx context.Context) (llmhandler.Client, error) {
	cfg := config.Conf.AI
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, nil
		}
		return openaiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model), nil
	case "anthropic":
		if cfg.Anthropic.APIKey == "" {
			return nil, nil
		}
		return anthropicclient.NewClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model), nil
	case "yandexgpt":
		if cfg.YandexGPT.IAMToken == "" {
			return nil, nil
		}
		return yagptclient.NewClient(cfg.YandexGPT.IAMToken, cfg.YandexGPT.CatalogID), nil
	case "ollama":
		return ollamaclient.NewClient(cfg.Ollama.OllamaURL, cfg.Ollama.OllamaModel)
	default:
		if cfg.Gemini.APIKey == "" {
			return nil, nil
		}
		return geminiclient.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	}
}
