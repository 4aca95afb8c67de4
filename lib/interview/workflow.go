package interview

import (
	"github.com/pkg/errors"
)

type RoundStatus string

const (
	RoundPending         RoundStatus = "pending"
	RoundScheduled       RoundStatus = "scheduled"
	RoundReadyToSchedule RoundStatus = "ready_to_schedule"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

var DefaultRounds = []string{"Phone Screen", "Technical Interview", "Final Round"}

var (
	ErrWorkflowClosed    = errors.New("workflow is no longer active")
	ErrNextRoundNotReady = errors.New("Next round not ready")
	ErrRoundNotScheduled = errors.New("current round has not been scheduled")
	ErrNotCurrentRound   = errors.New("interview is not the current round of the workflow")
)

// Analysis is the structured reading of interviewer feedback.
type Analysis struct {
	OverallRating  int      `json:"overall_rating" bson:"overall_rating"`
	Recommendation string   `json:"recommendation" bson:"recommendation"`
	Strengths      []string `json:"strengths" bson:"strengths"`
	Concerns       []string `json:"concerns" bson:"concerns"`
	Summary        string   `json:"summary" bson:"summary"`
}

// NeutralAnalysis stands in when feedback cannot be analyzed.
func NeutralAnalysis() Analysis {
	return Analysis{OverallRating: 3, Recommendation: "maybe", Strengths: []string{}, Concerns: []string{}, Summary: "Feedback collected"}
}

type Round struct {
	RoundNumber   int         `json:"round_number" bson:"round_number"`
	RoundName     string      `json:"round_name" bson:"round_name"`
	Status        RoundStatus `json:"status" bson:"status"`
	ScheduledDate string      `json:"scheduled_date,omitempty" bson:"scheduled_date,omitempty"`
	InterviewID   string      `json:"interview_id,omitempty" bson:"interview_id,omitempty"`
	Feedback      *Analysis   `json:"feedback,omitempty" bson:"feedback,omitempty"`
	Decision      string      `json:"decision,omitempty" bson:"decision,omitempty"`
}

// Workflow is one candidate's multi-round interview process. Version guards concurrent saves.
type Workflow struct {
	ID             string  `json:"_id" bson:"-"`
	CandidateID    string  `json:"candidate_id" bson:"candidate_id"`
	CandidateEmail string  `json:"candidate_email" bson:"candidate_email"`
	CandidateName  string  `json:"candidate_name" bson:"candidate_name"`
	JobID          string  `json:"job_id" bson:"job_id"`
	Status         Status  `json:"status" bson:"status"`
	CurrentRound   int     `json:"current_round" bson:"current_round"`
	TotalRounds    int     `json:"total_rounds" bson:"total_rounds"`
	Rounds         []Round `json:"rounds" bson:"rounds"`
	CreatedAt      string  `json:"created_at" bson:"created_at"`
	UpdatedAt      string  `json:"updated_at" bson:"updated_at"`
	Version        int     `json:"version" bson:"version"`
}

// NewWorkflow opens a workflow whose first round is ready to be booked.
func NewWorkflow(candidateID, email, name, jobID string, rounds []string) Workflow {
	if len(rounds) == 0 {
		rounds = DefaultRounds
	}
	w := Workflow{
		CandidateID:    candidateID,
		CandidateEmail: email,
		CandidateName:  name,
		JobID:          jobID,
		Status:         StatusActive,
		TotalRounds:    len(rounds),
	}
	for idx, name := range rounds {
		status := RoundPending
		if idx == 0 {
			status = RoundReadyToSchedule
		}
		w.Rounds = append(w.Rounds, Round{RoundNumber: idx + 1, RoundName: name, Status: status})
	}
	return w
}

func (w Workflow) Closed() bool {
	return w.Status != StatusActive
}

// NextToSchedule returns the index of the round that may be booked now.
func (w Workflow) NextToSchedule() (int, error) {
	if w.Closed() {
		return 0, ErrWorkflowClosed
	}
	if w.CurrentRound >= len(w.Rounds) || w.Rounds[w.CurrentRound].Status != RoundReadyToSchedule {
		return 0, ErrNextRoundNotReady
	}
	return w.CurrentRound, nil
}

// MarkScheduled books the current round. Only a ready_to_schedule round can move to scheduled.
func (w *Workflow) MarkScheduled(date, interviewID string) error {
	idx, err := w.NextToSchedule()
	if err != nil {
		return err
	}
	w.Rounds[idx].Status = RoundScheduled
	w.Rounds[idx].ScheduledDate = date
	w.Rounds[idx].InterviewID = interviewID
	return nil
}

// ApplyFeedback records the analysis of interviewID on the current round and advances the workflow:
// hire with rounds left opens the next round, reject or the last round closes it.
// Feedback on any other interview returns ErrNotCurrentRound and leaves the workflow as is.
func (w *Workflow) ApplyFeedback(interviewID string, a Analysis) error {
	if w.Closed() {
		return ErrWorkflowClosed
	}
	idx := w.CurrentRound
	if idx >= len(w.Rounds) || w.Rounds[idx].Status != RoundScheduled {
		return ErrRoundNotScheduled
	}
	if w.Rounds[idx].InterviewID != interviewID {
		return ErrNotCurrentRound
	}
	analysis := a
	w.Rounds[idx].Feedback = &analysis
	w.Rounds[idx].Decision = a.Recommendation
	last := idx == len(w.Rounds)-1
	switch {
	case a.Recommendation == "hire" && !last:
		w.CurrentRound++
		w.Rounds[w.CurrentRound].Status = RoundReadyToSchedule
	case a.Recommendation == "reject":
		w.Status = StatusRejected
	case last:
		w.Status = StatusCompleted
	}
	return nil
}
