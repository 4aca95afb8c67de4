package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Run(`every prompt renders check`, func(t *testing.T) {
		names := []string{
			DBCommand, EmailBody, JobID, MeetingRequest, InterviewRequest, FeedbackAnalysis,
			OnboardingPlan, DocumentRequest, OnboardingRequest, GeneralQA, OfferLetter,
			EmploymentContract, ExperienceCertificate, SalaryCertificate,
		}
		for _, name := range names {
			text, err := Render(name, map[string]interface{}{"Query": "q"})
			require.NoError(t, err, name)
			require.NotEmpty(t, text, name)
		}
	})

	t.Run(`values are substituted check`, func(t *testing.T) {
		text, err := Render(FeedbackAnalysis, map[string]string{"Feedback": "great communicator"})
		require.NoError(t, err)
		require.Contains(t, text, "Feedback: great communicator")
	})

	t.Run(`unknown prompt check`, func(t *testing.T) {
		_, err := Render("nope", nil)
		require.Error(t, err)
	})
}

func TestLoadOverrides(t *testing.T) {
	t.Run(`override one prompt check`, func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompts.yml")
		require.NoError(t, os.WriteFile(path, []byte("test_only: \"hello {{ .Name }}\"\n"), 0o600))
		require.NoError(t, LoadOverrides(path))
		text, err := Render("test_only", map[string]string{"Name": "Ann"})
		require.NoError(t, err)
		require.Equal(t, "hello Ann", text)
	})

	t.Run(`broken template check`, func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompts.yml")
		require.NoError(t, os.WriteFile(path, []byte("bad: \"{{ .Name \"\n"), 0o600))
		require.Error(t, LoadOverrides(path))
	})
}
