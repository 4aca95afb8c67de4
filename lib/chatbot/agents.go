package chatbot

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
	"hr-agent-backend/lib/analytics"
	"hr-agent-backend/lib/docstore"
	llmhandler "hr-agent-backend/lib/llm"
	"hr-agent-backend/lib/llm/prompts"
	"hr-agent-backend/lib/recordops"
	"hr-agent-backend/models"
)

// Agent answers one routed query.
type Agent interface {
	Handle(ctx context.Context, query string) models.AgentResult
}

// AgentFunc adapts a function to Agent.
type AgentFunc func(ctx context.Context, query string) models.AgentResult

func (f AgentFunc) Handle(ctx context.Context, query string) models.AgentResult {
	return f(ctx, query)
}

const parseFailure = "Failed to parse your request. Please try rephrasing."

// DatabaseAgent asks the model for a store command and runs it.
func DatabaseAgent(store docstore.Provider, llm llmhandler.Provider) Agent {
	executor := recordops.NewExecutor(store)
	return AgentFunc(func(ctx context.Context, query string) models.AgentResult {
		logger := log.WithField("agent", "database")
		collections, err := store.ListCollections(ctx)
		if err != nil {
			logger.WithError(err).Warn("collections not listed for the prompt")
		}
		answer, err := llmhandler.Ask(ctx, llm, prompts.DBCommand, map[string]string{
			"Query":       query,
			"Collections": strings.Join(collections, ", "),
		})
		if err != nil {
			logger.WithError(err).Error("command generation failed")
			return models.Fail(models.KindUnavailable, models.InternalErrorAnswer)
		}
		cmd, res := recordops.ParseCommand(answer)
		if !res.Ok() {
			logger.WithError(res.Err()).Warn("command not parsed")
			return models.Fail(models.KindParseError, parseFailure)
		}
		return executor.Execute(ctx, cmd, query)
	})
}

// CompanyStats is the part of analytics the general answers use as context.
type CompanyStats interface {
	Summary(ctx context.Context) analytics.Summary
	Departments(ctx context.Context, limit int64) ([]analytics.DepartmentCount, error)
}

const contextDepartments = 5

// GeneralAgent answers free questions with the employee count and a few department names as context.
func GeneralAgent(stats CompanyStats, llm llmhandler.Provider, company string) Agent {
	return AgentFunc(func(ctx context.Context, query string) models.AgentResult {
		logger := log.WithField("agent", "general_qa")
		summary := stats.Summary(ctx)
		names := []string{}
		departments, err := stats.Departments(ctx, contextDepartments)
		if err != nil {
			logger.WithError(err).Warn("departments missing from context")
		}
		for _, d := range departments {
			if d.Department != "" && d.Department != "Unknown" {
				names = append(names, d.Department)
			}
		}
		answer, err := llmhandler.Ask(ctx, llm, prompts.GeneralQA, map[string]interface{}{
			"Company":     company,
			"Employees":   summary.TotalEmployees,
			"Departments": strings.Join(names, ", "),
			"Query":       query,
		})
		if err != nil {
			logger.WithError(err).Error("general answer failed")
			return models.Fail(models.KindUnavailable, models.InternalErrorAnswer)
		}
		return models.Ok(strings.TrimSpace(answer), nil)
	})
}
