package interviewapimodels

import (
	"strings"

	"github.com/pkg/errors"
)

type CreateWorkflowRequest struct {
	CandidateID string   `json:"candidate_id"`
	JobID       string   `json:"job_id"`
	Rounds      []string `json:"rounds"`
}

func (r CreateWorkflowRequest) Validate() error {
	if strings.TrimSpace(r.CandidateID) == "" {
		return errors.New("candidate_id is required")
	}
	if strings.TrimSpace(r.JobID) == "" {
		return errors.New("job_id is required")
	}
	for _, round := range r.Rounds {
		if strings.TrimSpace(round) == "" {
			return errors.New("round names must not be empty")
		}
	}
	return nil
}

type FeedbackRequest struct {
	Interviewer string `json:"interviewer"`
	Feedback    string `json:"feedback"`
}

func (r FeedbackRequest) Validate() error {
	if strings.TrimSpace(r.Feedback) == "" {
		return errors.New("feedback is required")
	}
	return nil
}

type ReminderRequest struct {
	HoursBefore int `json:"hours_before"`
}

// NextRoundRequest names a workflow id or a candidate email.
type NextRoundRequest struct {
	Ref string `json:"ref"`
}

type StatusFilter struct {
	Status string `query:"status"`
}
