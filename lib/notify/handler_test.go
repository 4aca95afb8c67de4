package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"hr-agent-backend/lib/smtp"
	dbmodels "hr-agent-backend/models/db"
)

type mailerStub struct {
	sent []string
	errs map[string]error
}

func (m *mailerStub) Send(_ context.Context, to, _, _ string) error {
	if err, ok := m.errs[to]; ok {
		return err
	}
	m.sent = append(m.sent, to)
	return nil
}

type logStoreStub struct {
	saved []dbmodels.NotificationLog
}

func (s *logStoreStub) Save(rec dbmodels.NotificationLog) (string, error) {
	s.saved = append(s.saved, rec)
	return "id", nil
}

func (s *logStoreStub) List(string, time.Time, int) ([]dbmodels.NotificationLog, error) {
	return s.saved, nil
}

func TestSend(t *testing.T) {
	ctx := context.Background()

	t.Run(`fan out with partial failure check`, func(t *testing.T) {
		mailer := &mailerStub{errs: map[string]error{
			"bob@corp.com": &smtp.SendError{Kind: smtp.ErrorAuthFailed},
		}}
		logs := &logStoreStub{}
		report := New(mailer, logs).Send(ctx, Message{
			Workflow:   "meeting",
			Step:       "invite",
			Subject:    "Meeting Scheduled: Sync",
			Body:       "body",
			Recipients: []string{"ann@corp.com", "bob@corp.com", "Carl", " "},
		})
		require.Equal(t, []string{"ann@corp.com"}, mailer.sent)
		require.Len(t, report.Deliveries, 3)
		require.Equal(t, 1, report.SentCount())
		require.False(t, report.AllSent())
		require.Equal(t, smtp.ErrorAuthFailed, report.FirstError())
		require.Equal(t, smtp.ErrorInvalidRecipient, report.Deliveries[2].Error)
		require.Contains(t, report.Summary(), "1 of 3")

		require.Len(t, logs.saved, 1)
		require.Equal(t, []string{"ann@corp.com"}, []string(logs.saved[0].Delivered))
		require.Equal(t, "auth_failed", logs.saved[0].Failures["bob@corp.com"])
	})

	t.Run(`all delivered without log store check`, func(t *testing.T) {
		report := New(&mailerStub{}, nil).Send(ctx, Message{Subject: "s", Recipients: []string{"a@b.c"}})
		require.True(t, report.AllSent())
		require.Equal(t, "Notification sent to 1 recipient(s).", report.Summary())
	})

	t.Run(`recorder check`, func(t *testing.T) {
		rec := &Recorder{Fail: map[string]smtp.ErrorKind{"x@y.z": smtp.ErrorTransport}}
		report := rec.Send(ctx, Message{Subject: "s", Recipients: []string{"x@y.z", "ok@y.z"}})
		require.Len(t, rec.Messages, 1)
		require.Equal(t, 1, report.SentCount())
	})
}
