package chatbot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/analytics"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/docstore/memstore"
	"hr-agent-backend/lib/intent"
	llmhandler "hr-agent-backend/lib/llm"
	"hr-agent-backend/models"
)

var now = time.Date(2026, 10, 12, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return now }

type statsStub struct{}

func (statsStub) Summary(context.Context) analytics.Summary {
	return analytics.Summary{TotalEmployees: 42}
}

func (statsStub) Departments(context.Context, int64) ([]analytics.DepartmentCount, error) {
	return []analytics.DepartmentCount{{Department: "IT", Count: 30}, {Department: "Unknown", Count: 2}, {Department: "HR", Count: 10}}, nil
}

func seedEmployees() *memstore.Store {
	store := memstore.New()
	store.Seed(docstore.EmployeeCollection,
		bson.D{{Key: "Employee_ID", Value: "E1"}, {Key: "Name", Value: "Ann Lee"}, {Key: "Department", Value: "IT"}},
		bson.D{{Key: "Employee_ID", Value: "E2"}, {Key: "Name", Value: "Bob Kim"}, {Key: "Department", Value: "HR"}},
	)
	return store
}

func TestAsk(t *testing.T) {
	ctx := context.Background()

	t.Run(`database query is routed and logged check`, func(t *testing.T) {
		store := seedEmployees()
		llm := llmhandler.Func(func(context.Context, string) (string, error) {
			return "```json\n{\"operation\": \"find\", \"collection\": \"employee\", \"filter\": {\"department\": \"IT\"}}\n```", nil
		})
		bot := New(nil, map[intent.Category]Agent{
			intent.DatabaseOperation: DatabaseAgent(store, llm),
		}, NewLogStore(store, clock))

		reply := bot.Ask(ctx, "list employees in IT")
		require.True(t, reply.Success)
		require.Equal(t, intent.DatabaseOperation, reply.QueryType)
		require.Contains(t, reply.Answer, "Ann Lee")

		page, err := bot.Logs(ctx, LogFilter{})
		require.NoError(t, err)
		require.Len(t, page.Logs, 1)
		require.Equal(t, "list employees in IT", page.Logs[0].UserQuery)
		require.Equal(t, "database_operation", page.Logs[0].QueryType)
		require.Equal(t, "2026-10-12T10:30:00", page.Logs[0].Timestamp)
	})

	t.Run(`unparseable command check`, func(t *testing.T) {
		store := seedEmployees()
		llm := llmhandler.Func(func(context.Context, string) (string, error) { return "no idea", nil })
		bot := New(nil, map[intent.Category]Agent{intent.DatabaseOperation: DatabaseAgent(store, llm)}, nil)
		reply := bot.Ask(ctx, "show salary of E1")
		require.False(t, reply.Success)
		require.Equal(t, models.KindParseError, reply.Kind)
		require.Equal(t, "Failed to parse your request. Please try rephrasing.", reply.Answer)
	})

	t.Run(`general question gets company context check`, func(t *testing.T) {
		var prompt string
		llm := llmhandler.Func(func(_ context.Context, p string) (string, error) {
			prompt = p
			return "  Our leave policy is generous.  ", nil
		})
		bot := New(nil, map[intent.Category]Agent{intent.GeneralQA: GeneralAgent(statsStub{}, llm, "TalentFlow")}, nil)
		reply := bot.Ask(ctx, "what is the leave policy for employees?")
		require.True(t, reply.Success)
		require.Equal(t, intent.GeneralQA, reply.QueryType)
		require.Equal(t, "Our leave policy is generous.", reply.Answer)
		require.Contains(t, prompt, "Total employees: 42")
		require.Contains(t, prompt, "Departments: IT, HR")
	})

	t.Run(`missing agent and panicking agent check`, func(t *testing.T) {
		bot := New(nil, map[intent.Category]Agent{
			intent.PredictAttrition: AgentFunc(func(context.Context, string) models.AgentResult { panic("boom") }),
		}, nil)
		reply := bot.Ask(ctx, "predict attrition")
		require.False(t, reply.Success)
		require.Equal(t, models.KindInternalError, reply.Kind)

		reply = bot.Ask(ctx, "screen resume for job J1")
		require.Equal(t, intent.ScreenResume, reply.QueryType)
		require.Equal(t, models.KindUnavailable, reply.Kind)
	})
}

func TestLogs(t *testing.T) {
	ctx := context.Background()

	t.Run(`window type filter and distribution check`, func(t *testing.T) {
		store := memstore.New()
		logs := NewLogStore(store, clock)
		add := func(queryType string, at time.Time) {
			require.NoError(t, logs.Append(ctx, LogEntry{
				UserQuery: "q", Response: "a", QueryType: queryType, Timestamp: at.Format("2006-01-02T15:04:05"),
			}))
		}
		add("general_qa", now.Add(-time.Hour))
		add("general_qa", now.Add(-2*time.Hour))
		add("send_email", now.Add(-3*time.Hour))
		add("send_email", now.AddDate(0, 0, -10))

		page, err := logs.List(ctx, LogFilter{})
		require.NoError(t, err)
		require.Len(t, page.Logs, 3)
		require.True(t, strings.HasPrefix(page.Logs[0].Timestamp, "2026-10-12T09:30"))
		require.Equal(t, int64(3), page.Statistics.Total)
		require.Equal(t, []TypeCount{{"general_qa", 2}, {"send_email", 1}}, page.Statistics.QueryTypeDistribution)

		page, err = logs.List(ctx, LogFilter{QueryType: "send_email", Days: 30, Limit: 1})
		require.NoError(t, err)
		require.Len(t, page.Logs, 1)
		require.Equal(t, int64(2), page.Statistics.Total)
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	bot := New(nil, map[intent.Category]Agent{
		intent.PredictAttrition: AgentFunc(func(context.Context, string) models.AgentResult {
			panic("model exploded")
		}),
		intent.GeneralQA: AgentFunc(func(_ context.Context, q string) models.AgentResult {
			return models.Ok("echo: "+q, nil)
		}),
	}, NewLogStore(store, clock))

	t.Run(`direct dispatch without logging check`, func(t *testing.T) {
		res := bot.Run(ctx, intent.GeneralQA, "  insert employee  ")
		require.True(t, res.Success)
		require.Equal(t, "echo: insert employee", res.Answer)
		page, err := bot.Logs(ctx, LogFilter{})
		require.NoError(t, err)
		require.Empty(t, page.Logs)
	})

	t.Run(`panic and missing agent check`, func(t *testing.T) {
		res := bot.Run(ctx, intent.PredictAttrition, "who will leave")
		require.Equal(t, models.KindInternalError, res.Kind)
		require.Equal(t, models.InternalErrorAnswer, res.Answer)

		res = bot.Run(ctx, intent.DatabaseOperation, "list employees")
		require.Equal(t, models.KindUnavailable, res.Kind)
	})
}
