package agentapimodels

import (
	"strings"

	"github.com/pkg/errors"
)

type AskRequest struct {
	Query string `json:"query"`
}

func (r AskRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("query is required")
	}
	return nil
}

type AskResponse struct {
	Success   bool        `json:"success"`
	Answer    string      `json:"answer"`
	QueryType string      `json:"query_type"`
	Data      interface{} `json:"data,omitempty"`
}

type EmailRequest struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Context   string `json:"context"`
}

func (r EmailRequest) Validate() error {
	if !strings.Contains(r.Recipient, "@") {
		return errors.New("a valid recipient email is required")
	}
	if strings.TrimSpace(r.Subject) == "" {
		return errors.New("subject is required")
	}
	return nil
}

type SendDocumentRequest struct {
	// Recipient overrides the employee email stored with the document.
	Recipient string `json:"recipient"`
}

type ScreeningResultsFilter struct {
	JobID string `query:"job_id"`
	Limit int64  `query:"limit"`
}

type DocumentsFilter struct {
	Type       string `query:"type"`
	EmployeeID string `query:"employee_id"`
	Limit      int64  `query:"limit"`
}

// MeetingRequest is either a free-text Query for the language model or explicit meeting fields.
type MeetingRequest struct {
	Query           string   `json:"query"`
	MeetingType     string   `json:"meeting_type"`
	Participants    []string `json:"participants"`
	DurationMinutes int      `json:"duration_minutes"`
	PreferredDate   string   `json:"preferred_date"`
	PreferredTime   string   `json:"preferred_time"`
	Subject         string   `json:"subject"`
	Notes           string   `json:"notes"`
}

func (r MeetingRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" && len(r.Participants) == 0 {
		return errors.New("either query or participants is required")
	}
	if r.DurationMinutes < 0 || r.DurationMinutes > 480 {
		return errors.New("duration_minutes must be between 1 and 480")
	}
	return nil
}

type MeetingsFilter struct {
	Status string `query:"status"`
}
