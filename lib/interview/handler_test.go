package interview

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/docstore/memstore"
	llmhandler "hr-agent-backend/lib/llm"
	"hr-agent-backend/lib/notify"
	"hr-agent-backend/lib/scheduler"
	"hr-agent-backend/lib/utils/lookup"
	"hr-agent-backend/models"
)

// Monday 10:30.
var monday = time.Date(2026, 10, 12, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return monday }

func newCoordinator(store docstore.Provider, llm llmhandler.Provider, rec *notify.Recorder) Provider {
	sched := scheduler.New(store, llm, rec, scheduler.Config{CompanyName: "TalentFlow", Now: clock})
	return New(store, llm, rec, sched, Config{HREmail: "hr@company.com", CompanyName: "TalentFlow", Now: clock})
}

func answering(answer string) llmhandler.Provider {
	return llmhandler.Func(func(context.Context, string) (string, error) { return answer, nil })
}

func TestCreateWorkflow(t *testing.T) {
	ctx := context.Background()

	t.Run(`unknown email creates candidate and books round one check`, func(t *testing.T) {
		store := memstore.New()
		rec := &notify.Recorder{}
		created, err := newCoordinator(store, nil, rec).CreateWorkflow(ctx, "jane.doe@corp.com", "JOB1", nil)
		require.NoError(t, err)
		w := created.Workflow
		require.Equal(t, "Jane Doe", w.CandidateName)
		require.NotEmpty(t, w.CandidateID)
		require.Equal(t, 2, w.Version)
		require.Equal(t, []RoundStatus{RoundScheduled, RoundPending, RoundPending}, statuses(*w))
		require.Equal(t, "2026-10-12 11:00", w.Rounds[0].ScheduledDate)
		require.Equal(t, created.Meeting.ID, w.Rounds[0].InterviewID)
		require.Equal(t, "Phone Screen - Jane Doe", created.Meeting.Subject)
		require.Equal(t, []string{"jane.doe@corp.com", "hr@company.com"}, rec.Messages[0].Recipients)

		candidate, err := store.FindOne(ctx, docstore.CandidatesCollection, bson.M{"Email": "jane.doe@corp.com"})
		require.NoError(t, err)
		require.Equal(t, "Jane Doe", docstore.GetString(candidate, "Name"))

		_, err = newCoordinator(store, nil, rec).CreateWorkflow(ctx, "Jane Doe", "JOB1", nil)
		require.ErrorIs(t, err, ErrWorkflowExists)
	})

	t.Run(`active workflow for another job is refused check`, func(t *testing.T) {
		store := memstore.New()
		rec := &notify.Recorder{}
		first, err := newCoordinator(store, nil, rec).CreateWorkflow(ctx, "jane.doe@corp.com", "JOB1", nil)
		require.NoError(t, err)

		second, err := newCoordinator(store, nil, rec).CreateWorkflow(ctx, "jane.doe@corp.com", "JOB2", nil)
		require.ErrorIs(t, err, ErrWorkflowExists)
		require.Equal(t, first.Workflow.ID, second.Workflow.ID)
		require.Equal(t, "JOB1", second.Workflow.JobID)

		list, err := newCoordinator(store, nil, rec).Workflows(ctx, string(StatusActive))
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run(`unknown name lists sample candidates check`, func(t *testing.T) {
		store := memstore.New()
		store.Seed(docstore.CandidatesCollection, bson.D{{Key: "Name", Value: "Ann Lee"}, {Key: "Email", Value: "ann@corp.com"}})
		_, err := newCoordinator(store, nil, &notify.Recorder{}).CreateWorkflow(ctx, "Nobody", "", nil)
		var nf *lookup.NotFoundError
		require.ErrorAs(t, err, &nf)
		require.Contains(t, err.Error(), "Candidate not found with ID: Nobody")
		require.Contains(t, err.Error(), "Email: ann@corp.com")
	})
}

func TestCollectFeedback(t *testing.T) {
	ctx := context.Background()

	t.Run(`reject on round one closes the workflow check`, func(t *testing.T) {
		store := memstore.New()
		rec := &notify.Recorder{}
		llm := answering(`{"overall_rating": 2, "recommendation": "reject", "strengths": [], "concerns": ["depth"], "summary": "Not ready"}`)
		c := newCoordinator(store, llm, rec)
		created, err := c.CreateWorkflow(ctx, "jane@corp.com", "", nil)
		require.NoError(t, err)

		fb, err := c.CollectFeedback(ctx, created.Meeting.ID, "lead@corp.com", "weak on systems design")
		require.NoError(t, err)
		require.False(t, fb.AnalysisDegraded)
		require.Equal(t, StatusRejected, fb.Workflow.Status)
		require.Equal(t, RoundPending, fb.Workflow.Rounds[1].Status)
		require.Equal(t, "reject", fb.Workflow.Rounds[0].Decision)

		interview, err := store.FindOne(ctx, docstore.InterviewsCollection, docstore.IDFilter(created.Meeting.ID))
		require.NoError(t, err)
		collected, _ := docstore.Get(interview, "feedback_collected")
		require.Equal(t, true, collected)
		count, err := store.CountDocuments(ctx, docstore.InterviewFeedbackCollection, bson.M{"interview_id": created.Meeting.ID})
		require.NoError(t, err)
		require.EqualValues(t, 1, count)
		require.Equal(t, "Interview Feedback - Jane", rec.Messages[len(rec.Messages)-1].Subject)

		_, _, err = c.ScheduleNext(ctx, created.Workflow.ID)
		require.ErrorIs(t, err, ErrWorkflowClosed)
		list, err := c.Workflows(ctx, string(StatusRejected))
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, RoundPending, list[0].Rounds[1].Status)
	})

	t.Run(`hire opens and books the next round once check`, func(t *testing.T) {
		store := memstore.New()
		store.Seed(docstore.CandidatesCollection, bson.D{{Key: "Name", Value: "Ann Lee"}, {Key: "Email", Value: "ann@corp.com"}})
		c := newCoordinator(store, answering(`{"overall_rating": 5, "recommendation": "Hire", "summary": "Strong"}`), &notify.Recorder{})
		created, err := c.CreateWorkflow(ctx, "ann lee", "", nil)
		require.NoError(t, err)
		require.Equal(t, "ann@corp.com", created.Workflow.CandidateEmail)

		fb, err := c.CollectFeedback(ctx, created.Meeting.ID, "", "great")
		require.NoError(t, err)
		require.Equal(t, 1, fb.Workflow.CurrentRound)
		require.Equal(t, RoundReadyToSchedule, fb.Workflow.Rounds[1].Status)

		w, m, err := c.ScheduleNext(ctx, "ann@corp.com")
		require.NoError(t, err)
		require.Equal(t, "12:00", m.InterviewTime)
		require.Equal(t, "Technical Interview - Ann Lee", m.Subject)
		require.Equal(t, RoundScheduled, w.Rounds[1].Status)

		_, _, err = c.ScheduleNext(ctx, w.ID)
		require.ErrorIs(t, err, ErrNextRoundNotReady)
	})

	t.Run(`repeated feedback on an earlier round leaves the workflow check`, func(t *testing.T) {
		store := memstore.New()
		rec := &notify.Recorder{}
		c := newCoordinator(store, answering(`{"overall_rating": 5, "recommendation": "hire", "summary": "Strong"}`), rec)
		created, err := c.CreateWorkflow(ctx, "sam@corp.com", "", nil)
		require.NoError(t, err)
		firstID := created.Meeting.ID

		_, err = c.CollectFeedback(ctx, firstID, "", "great")
		require.NoError(t, err)
		w, second, err := c.ScheduleNext(ctx, created.Workflow.ID)
		require.NoError(t, err)
		require.Equal(t, second.ID, w.Rounds[1].InterviewID)
		sent := len(rec.Messages)

		fb, err := c.CollectFeedback(ctx, firstID, "", "still great")
		require.NoError(t, err)
		require.Nil(t, fb.Workflow)
		require.Len(t, rec.Messages, sent)

		list, err := c.Workflows(ctx, string(StatusActive))
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, 1, list[0].CurrentRound)
		require.Equal(t, RoundScheduled, list[0].Rounds[1].Status)
		require.Empty(t, list[0].Rounds[1].Decision)
		require.Equal(t, RoundPending, list[0].Rounds[2].Status)

		fb, err = c.CollectFeedback(ctx, second.ID, "", "great again")
		require.NoError(t, err)
		require.Equal(t, 2, fb.Workflow.CurrentRound)
		require.Equal(t, "hire", fb.Workflow.Rounds[1].Decision)
	})

	t.Run(`unreadable analysis falls back to neutral check`, func(t *testing.T) {
		store := memstore.New()
		c := newCoordinator(store, answering("I cannot rate this"), &notify.Recorder{})
		created, err := c.CreateWorkflow(ctx, "bob@corp.com", "", nil)
		require.NoError(t, err)
		fb, err := c.CollectFeedback(ctx, created.Meeting.ID, "", "ok")
		require.NoError(t, err)
		require.True(t, fb.AnalysisDegraded)
		require.Equal(t, NeutralAnalysis(), fb.Analysis)
		require.Equal(t, StatusActive, fb.Workflow.Status)
		require.Equal(t, 0, fb.Workflow.CurrentRound)
	})
}

func TestStoreVersion(t *testing.T) {
	ctx := context.Background()

	t.Run(`stale save is rejected check`, func(t *testing.T) {
		s := NewStore(memstore.New(), clock)
		w := NewWorkflow("c1", "ann@corp.com", "Ann", "", nil)
		require.NoError(t, s.Create(ctx, &w))
		stale := w
		stale.Rounds = append([]Round(nil), w.Rounds...)

		require.NoError(t, w.MarkScheduled("d", "i1"))
		require.NoError(t, s.Save(ctx, &w))
		require.Equal(t, 2, w.Version)

		stale.Status = StatusRejected
		require.ErrorIs(t, s.Save(ctx, &stale), ErrConflict)

		stored, err := s.Get(ctx, w.ID)
		require.NoError(t, err)
		require.Equal(t, StatusActive, stored.Status)
		require.Equal(t, RoundScheduled, stored.Rounds[0].Status)
	})
}

func seedInterviews(store *memstore.Store) []string {
	return store.Seed(docstore.InterviewsCollection,
		bson.D{
			{Key: "InterviewID", Value: "INT-7"},
			{Key: "Subject", Value: "Final Round - Bob"},
			{Key: "InterviewDate", Value: "2026-10-13"},
			{Key: "InterviewTime", Value: "09:00"},
			{Key: "Participants", Value: bson.A{"bob@corp.com", "Room 4"}},
			{Key: "Interviewer", Value: "lead@corp.com"},
			{Key: "Status", Value: "Scheduled"},
		},
		bson.D{
			{Key: "Subject", Value: "Phone Screen - Eve"},
			{Key: "InterviewDate", Value: "2026-10-15"},
			{Key: "InterviewTime", Value: "09:00"},
			{Key: "CandidateEmail", Value: "eve@corp.com"},
			{Key: "Status", Value: "Scheduled"},
		},
		bson.D{
			{Key: "Subject", Value: "Phone Screen - Sam"},
			{Key: "InterviewDate", Value: "2026-10-12"},
			{Key: "InterviewTime", Value: "15:00"},
			{Key: "CandidateEmail", Value: "sam@corp.com"},
			{Key: "Status", Value: "Scheduled"},
			{Key: "reminder_sent", Value: true},
		},
	)
}

func TestSendReminder(t *testing.T) {
	ctx := context.Background()

	t.Run(`reminder inside the window check`, func(t *testing.T) {
		store := memstore.New()
		seedInterviews(store)
		rec := &notify.Recorder{}
		r, err := newCoordinator(store, nil, rec).SendReminder(ctx, "int-7", 24)
		require.NoError(t, err)
		require.Equal(t, "2026-10-13 09:00", r.InterviewAt)
		require.Equal(t, "Reminder: Interview Scheduled for 2026-10-13", rec.Messages[0].Subject)
		require.Equal(t, []string{"bob@corp.com", "lead@corp.com"}, rec.Messages[0].Recipients)

		stored, err := store.FindOne(ctx, docstore.InterviewsCollection, bson.M{"InterviewID": "INT-7"})
		require.NoError(t, err)
		sent, _ := docstore.Get(stored, "reminder_sent")
		require.Equal(t, true, sent)
		require.Equal(t, "2026-10-12T10:30:00", docstore.GetString(stored, "reminder_sent_at"))
	})

	t.Run(`too early check`, func(t *testing.T) {
		store := memstore.New()
		seedInterviews(store)
		_, err := newCoordinator(store, nil, &notify.Recorder{}).SendReminder(ctx, "Phone Screen - Eve", 24)
		require.ErrorIs(t, err, ErrTooEarly)
	})

	t.Run(`unknown id lists samples check`, func(t *testing.T) {
		store := memstore.New()
		seedInterviews(store)
		_, err := newCoordinator(store, nil, &notify.Recorder{}).SendReminder(ctx, "XYZ", 24)
		require.Error(t, err)
		require.True(t, strings.HasPrefix(err.Error(), "Interview not found with ID: XYZ"))
		require.Contains(t, err.Error(), "InterviewID: INT-7")
	})

	t.Run(`due reminders skip sent and distant interviews check`, func(t *testing.T) {
		store := memstore.New()
		seedInterviews(store)
		rec := &notify.Recorder{}
		sent, err := newCoordinator(store, nil, rec).SendDueReminders(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, sent)
		require.Len(t, rec.Messages, 1)
	})
}

func TestFindInterview(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	ids := seedInterviews(store)
	c := newCoordinator(store, nil, &notify.Recorder{})

	cases := []struct {
		id       string
		strategy string
		want     string
	}{
		{"INT-7", "exact:InterviewID,interviewID,interview_id", ids[0]},
		{"int-7", "regex:InterviewID,interviewID,interview_id", ids[0]},
		{ids[1], "object_id", ids[1]},
		{"eve@corp.com", "exact:Subject,CandidateEmail", ids[1]},
		{"screen - sam", "contains:Subject", ids[2]},
	}
	for _, tc := range cases {
		t.Run(tc.id+` check`, func(t *testing.T) {
			rec, strategy, err := c.FindInterview(ctx, tc.id)
			require.NoError(t, err)
			require.Equal(t, tc.strategy, strategy)
			require.Equal(t, tc.want, docstore.IDHex(rec))
		})
	}
}

func TestHandle(t *testing.T) {
	ctx := context.Background()

	t.Run(`create action check`, func(t *testing.T) {
		llm := answering(`{"action": "create", "candidate_id": "kim@corp.com", "job_id": null, "interview_id": null, "workflow_id": null, "feedback": null}`)
		res := newCoordinator(memstore.New(), llm, &notify.Recorder{}).Handle(ctx, "start interview workflow for kim@corp.com")
		require.True(t, res.Success)
		require.Contains(t, res.Answer, "Interview workflow created for Kim (3 rounds)")
		require.Contains(t, res.Answer, "Phone Screen scheduled for 2026-10-12 at 11:00")
	})

	t.Run(`missing interview id check`, func(t *testing.T) {
		llm := answering(`{"action": "remind", "interview_id": "null"}`)
		res := newCoordinator(memstore.New(), llm, &notify.Recorder{}).Handle(ctx, "send interview reminder")
		require.Equal(t, models.KindInputError, res.Kind)
	})

	t.Run(`unknown action check`, func(t *testing.T) {
		res := newCoordinator(memstore.New(), answering(`{"action": "dance"}`), &notify.Recorder{}).Handle(ctx, "interview round dance")
		require.Equal(t, models.KindInputError, res.Kind)
		require.Contains(t, res.Answer, "Unknown interview action")
	})
}
