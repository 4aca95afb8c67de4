package interview

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func statuses(w Workflow) []RoundStatus {
	out := []RoundStatus{}
	for _, r := range w.Rounds {
		out = append(out, r.Status)
	}
	return out
}

func TestWorkflowTransitions(t *testing.T) {
	t.Run(`new workflow check`, func(t *testing.T) {
		w := NewWorkflow("c1", "ann@corp.com", "Ann", "JOB1", nil)
		require.Equal(t, StatusActive, w.Status)
		require.Equal(t, 3, w.TotalRounds)
		require.Equal(t, []RoundStatus{RoundReadyToSchedule, RoundPending, RoundPending}, statuses(w))
		require.Equal(t, "Technical Interview", w.Rounds[1].RoundName)
	})

	t.Run(`only ready round can be scheduled check`, func(t *testing.T) {
		w := NewWorkflow("c1", "ann@corp.com", "Ann", "", nil)
		require.NoError(t, w.MarkScheduled("2026-10-12 11:00", "i1"))
		require.ErrorIs(t, w.MarkScheduled("2026-10-12 12:00", "i2"), ErrNextRoundNotReady)
		require.Equal(t, "i1", w.Rounds[0].InterviewID)
	})

	t.Run(`feedback needs a scheduled round check`, func(t *testing.T) {
		w := NewWorkflow("c1", "ann@corp.com", "Ann", "", nil)
		require.ErrorIs(t, w.ApplyFeedback("i1", Analysis{Recommendation: "hire"}), ErrRoundNotScheduled)
	})

	t.Run(`hire advances to next round check`, func(t *testing.T) {
		w := NewWorkflow("c1", "ann@corp.com", "Ann", "", nil)
		require.NoError(t, w.MarkScheduled("d", "i1"))
		require.NoError(t, w.ApplyFeedback("i1", Analysis{OverallRating: 5, Recommendation: "hire"}))
		require.Equal(t, 1, w.CurrentRound)
		require.Equal(t, []RoundStatus{RoundScheduled, RoundReadyToSchedule, RoundPending}, statuses(w))
		require.Equal(t, "hire", w.Rounds[0].Decision)
		require.Equal(t, 5, w.Rounds[0].Feedback.OverallRating)
		require.ErrorIs(t, w.ApplyFeedback("i1", Analysis{Recommendation: "hire"}), ErrRoundNotScheduled)
	})

	t.Run(`feedback on another interview is refused check`, func(t *testing.T) {
		w := NewWorkflow("c1", "ann@corp.com", "Ann", "", nil)
		require.NoError(t, w.MarkScheduled("d", "i1"))
		require.NoError(t, w.ApplyFeedback("i1", Analysis{Recommendation: "hire"}))
		require.NoError(t, w.MarkScheduled("d2", "i2"))

		require.ErrorIs(t, w.ApplyFeedback("i1", Analysis{Recommendation: "hire"}), ErrNotCurrentRound)
		require.Equal(t, 1, w.CurrentRound)
		require.Empty(t, w.Rounds[1].Decision)
		require.Nil(t, w.Rounds[1].Feedback)
		require.Equal(t, []RoundStatus{RoundScheduled, RoundScheduled, RoundPending}, statuses(w))
	})

	t.Run(`maybe keeps the round open check`, func(t *testing.T) {
		w := NewWorkflow("c1", "ann@corp.com", "Ann", "", nil)
		require.NoError(t, w.MarkScheduled("d", "i1"))
		require.NoError(t, w.ApplyFeedback("i1", NeutralAnalysis()))
		require.Equal(t, StatusActive, w.Status)
		require.Equal(t, 0, w.CurrentRound)
		require.Equal(t, "maybe", w.Rounds[0].Decision)
	})

	t.Run(`reject on first round is terminal check`, func(t *testing.T) {
		w := NewWorkflow("c1", "ann@corp.com", "Ann", "", nil)
		require.NoError(t, w.MarkScheduled("d", "i1"))
		require.NoError(t, w.ApplyFeedback("i1", Analysis{Recommendation: "reject"}))
		require.Equal(t, StatusRejected, w.Status)
		require.Equal(t, RoundPending, w.Rounds[1].Status)

		require.ErrorIs(t, w.MarkScheduled("d", "i2"), ErrWorkflowClosed)
		require.ErrorIs(t, w.ApplyFeedback("i1", Analysis{Recommendation: "hire"}), ErrWorkflowClosed)
		require.Equal(t, StatusRejected, w.Status)
		require.Equal(t, RoundPending, w.Rounds[1].Status)
	})

	t.Run(`last round completes check`, func(t *testing.T) {
		w := NewWorkflow("c1", "ann@corp.com", "Ann", "", []string{"Only Round"})
		require.NoError(t, w.MarkScheduled("d", "i1"))
		require.NoError(t, w.ApplyFeedback("i1", Analysis{Recommendation: "hire"}))
		require.Equal(t, StatusCompleted, w.Status)
		require.ErrorIs(t, w.MarkScheduled("d", "i2"), ErrWorkflowClosed)
	})
}
