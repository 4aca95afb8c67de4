package onboarding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskProgress(t *testing.T) {
	t.Run(`percentage and completion check`, func(t *testing.T) {
		p := NewPlan("E1", "Ann", "ann@corp.com", "IT", "Dev", "", DefaultTasks)
		require.Len(t, p.Tasks, 5)
		require.NotEqual(t, p.Tasks[0].ID, p.Tasks[1].ID)

		require.NoError(t, p.SetTaskStatus(p.Tasks[0].ID, TaskCompleted, "t1"))
		require.Equal(t, 20.0, p.CompletionPercentage)
		require.Equal(t, "t1", p.Tasks[0].CompletedAt)

		require.NoError(t, p.SetTaskStatus("set up WORKSPACE", TaskCompleted, "t2"))
		require.Equal(t, 40.0, p.CompletionPercentage)
		require.NoError(t, p.SetTaskStatus("Set up workspace", TaskPending, "t3"))
		require.Equal(t, 20.0, p.CompletionPercentage)
		require.Empty(t, p.Tasks[2].CompletedAt)

		for _, task := range p.Tasks {
			require.NoError(t, p.SetTaskStatus(task.ID, TaskCompleted, "t4"))
		}
		require.Equal(t, 100.0, p.CompletionPercentage)
		require.Equal(t, StatusCompleted, p.Status)
		require.ErrorIs(t, p.SetTaskStatus(p.Tasks[0].ID, TaskPending, "t5"), ErrPlanCompleted)
	})

	t.Run(`bad task input check`, func(t *testing.T) {
		p := NewPlan("E1", "Ann", "", "", "", "", DefaultTasks[:3])
		require.ErrorIs(t, p.SetTaskStatus("nope", TaskCompleted, ""), ErrTaskNotFound)
		require.ErrorIs(t, p.SetTaskStatus(p.Tasks[0].ID, "done", ""), ErrInvalidTaskStatus)
		require.NoError(t, p.SetTaskStatus(p.Tasks[0].ID, TaskCompleted, ""))
		require.Equal(t, 33.33, p.CompletionPercentage)
	})
}

func TestDocumentTracking(t *testing.T) {
	t.Run(`only verified documents count check`, func(t *testing.T) {
		p := NewPlan("E1", "Ann", "", "", "", "", DefaultTasks)
		require.ErrorIs(t, p.SetDocumentStatus(RequiredDocuments[0], DocSubmitted, "t"), ErrDocumentsNotIssued)

		p.StartDocumentTracking("t0")
		require.True(t, p.DocumentGuidanceSent)
		require.Len(t, p.DocumentTracking, 8)
		require.Equal(t, 0.0, p.DocumentCompletionPercentage)

		require.NoError(t, p.SetDocumentStatus(RequiredDocuments[0], DocSubmitted, "t1"))
		require.Equal(t, 0.0, p.DocumentCompletionPercentage)
		require.Equal(t, "t1", p.DocumentTracking[RequiredDocuments[0]].SubmittedAt)

		require.NoError(t, p.SetDocumentStatus(RequiredDocuments[0], DocVerified, "t2"))
		require.NoError(t, p.SetDocumentStatus(RequiredDocuments[1], DocVerified, "t2"))
		require.Equal(t, 25.0, p.DocumentCompletionPercentage)
		require.Equal(t, "t2", p.DocumentTracking[RequiredDocuments[1]].SubmittedAt)

		require.NoError(t, p.SetDocumentStatus(RequiredDocuments[1], DocPending, "t3"))
		require.Equal(t, 12.5, p.DocumentCompletionPercentage)

		p.StartDocumentTracking("t4")
		require.True(t, p.DocumentTracking[RequiredDocuments[0]].Verified)

		err := p.SetDocumentStatus("Passport photo", DocSubmitted, "t5")
		require.EqualError(t, err, "Document 'Passport photo' not found in tracking list")
		require.ErrorIs(t, err, ErrDocumentNotTracked)
		require.ErrorIs(t, p.SetDocumentStatus(RequiredDocuments[2], "lost", "t5"), ErrInvalidDocStatus)
	})
}
