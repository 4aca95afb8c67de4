package intent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	router := NewRouter(DefaultQuestionPrefixLen)

	cases := []struct {
		query string
		want  Category
	}{
		{"show all employees in Engineering", DatabaseOperation},
		{"Send an email to john@corp.com subject: Hello", SendEmail},
		{"send the attrition report", SendEmail},
		{"top 3 high risk employees", PredictAttrition},
		{"screen resume for job JOB-AI-001", ScreenResume},
		{"schedule a meeting with anna@corp.com tomorrow", ScheduleMeeting},
		{"move the candidate to the next round", CoordinateInterview},
		{"what is the average salary in sales", GeneralQA},
		{"tell me about leave balance policy", GeneralQA},
		{"generate an offer letter for E102", GenerateDocument},
		{"onboard the new hire", ManageOnboarding},
		{"hello there", GeneralQA},
		{"", GeneralQA},
	}
	for _, c := range cases {
		t.Run(c.query+` check`, func(t *testing.T) {
			require.Equal(t, c.want, router.Classify(c.query))
		})
	}

	t.Run(`deterministic check`, func(t *testing.T) {
		q := "please predict churn and send it"
		first := router.Classify(q)
		for i := 0; i < 10; i++ {
			require.Equal(t, first, router.Classify(q))
		}
		require.Equal(t, SendEmail, first)
	})

	t.Run(`question word outside prefix check`, func(t *testing.T) {
		require.Equal(t, DatabaseOperation, router.Classify("list the department heads and explain"))
		require.Equal(t, GeneralQA, NewRouter(200).Classify("list the department heads and explain"))
	})
}
