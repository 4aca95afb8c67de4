package onboarding

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

type DocStatus string

const (
	DocPending   DocStatus = "pending"
	DocSubmitted DocStatus = "submitted"
	DocVerified  DocStatus = "verified"
)

const (
	OrientationAwaitingResponse = "awaiting_response"
	OrientationScheduled        = "scheduled"
)

var (
	ErrPlanCompleted      = errors.New("onboarding plan is already completed")
	ErrTaskNotFound       = errors.New("task not found in onboarding plan")
	ErrInvalidTaskStatus  = errors.New("task status must be pending or completed")
	ErrInvalidDocStatus   = errors.New("document status must be pending, submitted or verified")
	ErrDocumentsNotIssued = errors.New("document guidance has not been sent for this plan")
	ErrDocumentNotTracked = errors.New("document not found in tracking list")
)

// DocumentNotTrackedError names the document; it matches ErrDocumentNotTracked.
type DocumentNotTrackedError struct {
	Name string
}

func (e DocumentNotTrackedError) Error() string {
	return fmt.Sprintf("Document '%s' not found in tracking list", e.Name)
}

func (e DocumentNotTrackedError) Is(target error) bool {
	return target == ErrDocumentNotTracked
}

// DefaultTasks is used when no plan could be generated.
var DefaultTasks = []Task{
	{Task: "Complete documentation", DueDate: "Day 1"},
	{Task: "Attend orientation", DueDate: "Day 1"},
	{Task: "Set up workspace", DueDate: "Day 1"},
	{Task: "Complete training modules", DueDate: "Week 1"},
	{Task: "Meet with team", DueDate: "Week 1"},
}

var RequiredDocuments = []string{
	"Government-issued ID (Passport/Driver's License)",
	"Social Security Card or equivalent",
	"Educational certificates and transcripts",
	"Previous employment references",
	"Bank account details for payroll",
	"Emergency contact information",
	"Signed employment contract",
	"Tax forms (W-4 or equivalent)",
}

type Task struct {
	ID          string     `json:"id" bson:"id"`
	Task        string     `json:"task" bson:"task"`
	DueDate     string     `json:"due_date" bson:"due_date"`
	Status      TaskStatus `json:"status" bson:"status"`
	CompletedAt string     `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

type DocumentState struct {
	Status      DocStatus `json:"status" bson:"status"`
	SubmittedAt string    `json:"submitted_at,omitempty" bson:"submitted_at,omitempty"`
	Verified    bool      `json:"verified" bson:"verified"`
	VerifiedAt  string    `json:"verified_at,omitempty" bson:"verified_at,omitempty"`
}

// Plan is one employee's onboarding, stored in the Onboarding collection.
type Plan struct {
	ID            string `json:"_id" bson:"-"`
	EmployeeID    string `json:"employee_id" bson:"employee_id"`
	EmployeeName  string `json:"employee_name" bson:"employee_name"`
	EmployeeEmail string `json:"employee_email" bson:"employee_email"`
	Department    string `json:"department" bson:"department"`
	Position      string `json:"position" bson:"position"`
	StartDate     string `json:"start_date" bson:"start_date"`

	Tasks                []Task  `json:"tasks" bson:"tasks"`
	Status               Status  `json:"status" bson:"status"`
	CompletionPercentage float64 `json:"completion_percentage" bson:"completion_percentage"`
	OfferLetterID        string  `json:"offer_letter_id,omitempty" bson:"offer_letter_id,omitempty"`

	BuddyID    string `json:"buddy_id,omitempty" bson:"buddy_id,omitempty"`
	BuddyName  string `json:"buddy_name,omitempty" bson:"buddy_name,omitempty"`
	BuddyEmail string `json:"buddy_email,omitempty" bson:"buddy_email,omitempty"`

	OrientationEmailSent   bool   `json:"orientation_email_sent" bson:"orientation_email_sent"`
	OrientationEmailSentAt string `json:"orientation_email_sent_at,omitempty" bson:"orientation_email_sent_at,omitempty"`
	OrientationStatus      string `json:"orientation_status,omitempty" bson:"orientation_status,omitempty"`
	OrientationDate        string `json:"orientation_date,omitempty" bson:"orientation_date,omitempty"`
	OrientationTime        string `json:"orientation_time,omitempty" bson:"orientation_time,omitempty"`
	OrientationMeetingID   string `json:"orientation_meeting_id,omitempty" bson:"orientation_meeting_id,omitempty"`

	DocumentGuidanceSent         bool                     `json:"document_guidance_sent" bson:"document_guidance_sent"`
	DocumentGuidanceSentAt       string                   `json:"document_guidance_sent_at,omitempty" bson:"document_guidance_sent_at,omitempty"`
	RequiredDocuments            []string                 `json:"required_documents,omitempty" bson:"required_documents,omitempty"`
	DocumentTracking             map[string]DocumentState `json:"document_tracking,omitempty" bson:"document_tracking,omitempty"`
	DocumentCompletionPercentage float64                  `json:"document_completion_percentage" bson:"document_completion_percentage"`

	CreatedAt string `json:"created_at" bson:"created_at"`
	UpdatedAt string `json:"updated_at" bson:"updated_at"`
	Version   int    `json:"version" bson:"version"`
}

// NewPlan gives every task an id and marks it pending.
func NewPlan(employeeID, name, email, department, position, startDate string, tasks []Task) Plan {
	p := Plan{
		EmployeeID:    employeeID,
		EmployeeName:  name,
		EmployeeEmail: email,
		Department:    department,
		Position:      position,
		StartDate:     startDate,
		Status:        StatusActive,
	}
	for _, t := range tasks {
		p.Tasks = append(p.Tasks, Task{
			ID:      uuid.NewString(),
			Task:    t.Task,
			DueDate: t.DueDate,
			Status:  TaskPending,
		})
	}
	return p
}

func percentage(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(done)/float64(total)*10000) / 100
}

func (p Plan) CompletedTasks() int {
	n := 0
	for _, t := range p.Tasks {
		if t.Status == TaskCompleted {
			n++
		}
	}
	return n
}

// SetTaskStatus updates the task matched by id or text and recomputes the completion.
// The plan flips to completed when every task is done; a completed plan takes no more updates.
func (p *Plan) SetTaskStatus(taskRef string, status TaskStatus, at string) error {
	if p.Status == StatusCompleted {
		return ErrPlanCompleted
	}
	if status != TaskPending && status != TaskCompleted {
		return ErrInvalidTaskStatus
	}
	ref := strings.TrimSpace(taskRef)
	idx := -1
	for n, t := range p.Tasks {
		if t.ID == ref || strings.EqualFold(t.Task, ref) {
			idx = n
			break
		}
	}
	if idx < 0 {
		return ErrTaskNotFound
	}
	p.Tasks[idx].Status = status
	p.Tasks[idx].CompletedAt = ""
	if status == TaskCompleted {
		p.Tasks[idx].CompletedAt = at
	}
	p.CompletionPercentage = percentage(p.CompletedTasks(), len(p.Tasks))
	if len(p.Tasks) > 0 && p.CompletedTasks() == len(p.Tasks) {
		p.Status = StatusCompleted
	}
	return nil
}

// StartDocumentTracking lists the required documents as pending. States already tracked are kept.
func (p *Plan) StartDocumentTracking(at string) {
	if p.DocumentTracking == nil {
		p.DocumentTracking = map[string]DocumentState{}
	}
	for _, name := range RequiredDocuments {
		if _, ok := p.DocumentTracking[name]; !ok {
			p.DocumentTracking[name] = DocumentState{Status: DocPending}
		}
	}
	p.RequiredDocuments = append([]string(nil), RequiredDocuments...)
	p.DocumentGuidanceSent = true
	p.DocumentGuidanceSentAt = at
	p.recomputeDocuments()
}

func (p *Plan) VerifiedDocuments() int {
	n := 0
	for _, d := range p.DocumentTracking {
		if d.Verified {
			n++
		}
	}
	return n
}

func (p *Plan) recomputeDocuments() {
	p.DocumentCompletionPercentage = percentage(p.VerifiedDocuments(), len(p.DocumentTracking))
}

// SetDocumentStatus moves one tracked document. Only verified documents count toward completion.
func (p *Plan) SetDocumentStatus(name string, status DocStatus, at string) error {
	if len(p.DocumentTracking) == 0 {
		return ErrDocumentsNotIssued
	}
	state, ok := p.DocumentTracking[name]
	if !ok {
		return DocumentNotTrackedError{Name: name}
	}
	switch status {
	case DocPending:
		state = DocumentState{Status: DocPending}
	case DocSubmitted:
		state.Status = DocSubmitted
		state.SubmittedAt = at
		state.Verified = false
		state.VerifiedAt = ""
	case DocVerified:
		state.Status = DocVerified
		if state.SubmittedAt == "" {
			state.SubmittedAt = at
		}
		state.Verified = true
		state.VerifiedAt = at
	default:
		return ErrInvalidDocStatus
	}
	p.DocumentTracking[name] = state
	p.recomputeDocuments()
	return nil
}
