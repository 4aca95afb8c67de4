package llmhandler

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"hr-agent-backend/lib/llm/prompts"
	dbmodels "hr-agent-backend/models/db"
)

type fakeClient struct {
	answer string
	err    error
}

func (f fakeClient) Name() string { return "fake" }

func (f fakeClient) Complete(context.Context, string) (string, error) { return f.answer, f.err }

type memLog struct {
	saved []dbmodels.AiLog
}

func (m *memLog) Save(rec dbmodels.AiLog) (string, error) {
	m.saved = append(m.saved, rec)
	return "1", nil
}

func (m *memLog) Recent(string, int) ([]dbmodels.AiLog, error) { return m.saved, nil }

func TestComplete(t *testing.T) {
	ctx := context.Background()

	t.Run(`not configured check`, func(t *testing.T) {
		_, err := New(nil, nil).Complete(ctx, "hi")
		require.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run(`calls are logged check`, func(t *testing.T) {
		logs := &memLog{}
		p := New(fakeClient{answer: "ok"}, logs)
		answer, err := p.Complete(ctx, "hi")
		require.NoError(t, err)
		require.Equal(t, "ok", answer)

		_, err = New(fakeClient{err: errors.New("quota")}, logs).Complete(ctx, "again")
		require.Error(t, err)
		require.Len(t, logs.saved, 2)
		require.Equal(t, "quota", logs.saved[1].Error)
	})
}

func TestAskJSON(t *testing.T) {
	ctx := context.Background()

	t.Run(`renders prompt and decodes answer check`, func(t *testing.T) {
		var seen string
		p := Func(func(_ context.Context, prompt string) (string, error) {
			seen = prompt
			return "```json\n{\"job_id\": \"JOB-AI-001\"}\n```", nil
		})
		var out struct {
			JobID string `json:"job_id"`
		}
		res, err := AskJSON(ctx, p, prompts.JobID, map[string]string{"Query": "screen for JOB-AI-001"}, &out)
		require.NoError(t, err)
		require.True(t, res.Ok())
		require.Equal(t, "JOB-AI-001", out.JobID)
		require.True(t, strings.Contains(seen, "screen for JOB-AI-001"))
	})

	t.Run(`transport error check`, func(t *testing.T) {
		p := Func(func(context.Context, string) (string, error) { return "", errors.New("down") })
		_, err := AskJSON(ctx, p, prompts.JobID, nil, &struct{}{})
		require.Error(t, err)
	})
}
