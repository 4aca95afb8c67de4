package chatbot

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
	"hr-agent-backend/lib/intent"
	"hr-agent-backend/lib/utils/fallback"
	"hr-agent-backend/models"
)

const notAvailable = "This capability is not available right now. Please try again later."

// Reply is what the ask endpoint returns.
type Reply struct {
	Success   bool              `json:"success"`
	Answer    string            `json:"answer"`
	QueryType intent.Category   `json:"query_type"`
	Kind      models.ResultKind `json:"kind,omitempty"`
	Data      interface{}       `json:"data,omitempty"`
}

type Provider interface {
	Ask(ctx context.Context, query string) Reply
	// Run sends the query straight to the agent of category, skipping classification and logging.
	Run(ctx context.Context, category intent.Category, query string) models.AgentResult
	Logs(ctx context.Context, filter LogFilter) (LogPage, error)
}

var Instance Provider

func NewHandler(router *intent.Router, agents map[intent.Category]Agent, logs LogStore) {
	Instance = New(router, agents, logs)
}

// New builds the orchestrator. A category without an agent answers that it is unavailable.
func New(router *intent.Router, agents map[intent.Category]Agent, logs LogStore) Provider {
	if router == nil {
		router = intent.NewRouter(0)
	}
	return &impl{router: router, agents: agents, logs: logs}
}

type impl struct {
	router *intent.Router
	agents map[intent.Category]Agent
	logs   LogStore
}

func (i impl) Ask(ctx context.Context, query string) Reply {
	query = strings.TrimSpace(query)
	category := i.router.Classify(query)
	logger := log.WithField("query_type", category)

	result := i.run(ctx, category, query)
	reply := Reply{
		Success:   result.Success,
		Answer:    result.Answer,
		QueryType: category,
		Kind:      result.Kind,
		Data:      result.Data,
	}
	if i.logs != nil {
		err := i.logs.Append(ctx, LogEntry{
			UserQuery: query,
			Response:  result.Answer,
			QueryType: string(category),
			Metadata:  map[string]interface{}{"success": result.Success, "kind": string(result.Kind)},
		})
		if err != nil {
			logger.WithError(err).Warn("chatbot exchange not logged")
		}
	}
	logger.WithField("success", result.Success).Info("query answered")
	return reply
}

func (i impl) Run(ctx context.Context, category intent.Category, query string) models.AgentResult {
	return i.run(ctx, category, strings.TrimSpace(query))
}

// run keeps a panicking agent from taking the request down with it.
func (i impl) run(ctx context.Context, category intent.Category, query string) (result models.AgentResult) {
	defer fallback.Recover("chatbot:"+string(category), func() {
		result = models.Fail(models.KindInternalError, models.InternalErrorAnswer)
	})
	agent, ok := i.agents[category]
	if !ok || agent == nil {
		return models.Fail(models.KindUnavailable, notAvailable)
	}
	return agent.Handle(ctx, query)
}

func (i impl) Logs(ctx context.Context, filter LogFilter) (LogPage, error) {
	if i.logs == nil {
		return LogPage{Logs: []LogEntry{}, Statistics: LogStatistics{QueryTypeDistribution: []TypeCount{}}}, nil
	}
	return i.logs.List(ctx, filter)
}
