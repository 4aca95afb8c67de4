package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	llmhandler "hr-agent-backend/lib/llm"
	"hr-agent-backend/lib/llm/prompts"
	"hr-agent-backend/lib/scheduler"
	"hr-agent-backend/lib/utils/lookup"
	"hr-agent-backend/models"
)

// Request is the coordination request the model extracts from free text.
type Request struct {
	Action      string  `json:"action"`
	CandidateID *string `json:"candidate_id"`
	JobID       *string `json:"job_id"`
	InterviewID *string `json:"interview_id"`
	WorkflowID  *string `json:"workflow_id"`
	Interviewer *string `json:"interviewer"`
	Feedback    *string `json:"feedback"`
}

// value treats the model's "null" strings as missing.
func value(s *string) string {
	if s == nil {
		return ""
	}
	v := strings.TrimSpace(*s)
	if strings.EqualFold(v, "null") || strings.EqualFold(v, "none") {
		return ""
	}
	return v
}

func (i impl) Handle(ctx context.Context, query string) models.AgentResult {
	var req Request
	res, err := llmhandler.AskJSON(ctx, i.llm, prompts.InterviewRequest, map[string]string{"Query": query}, &req)
	if err != nil {
		i.getLogger().WithError(err).Error("interview request extraction failed")
		return models.Fail(models.KindInternalError, models.InternalErrorAnswer)
	}
	if !res.Ok() {
		return models.Fail(models.KindParseError, "Failed to parse your request. Please try rephrasing.")
	}
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "create":
		return i.handleCreate(ctx, req)
	case "remind":
		return i.handleRemind(ctx, req)
	case "feedback":
		return i.handleFeedback(ctx, req)
	case "next_round":
		return i.handleNextRound(ctx, req)
	}
	return models.Fail(models.KindInputError,
		"Unknown interview action. Supported actions: create workflow, send reminder, collect feedback, schedule next round.")
}

// failure maps coordinator errors onto agent results.
func failure(err error, logger *log.Entry) models.AgentResult {
	var nf *lookup.NotFoundError
	switch {
	case errors.As(err, &nf):
		return models.Fail(models.KindNotFound, nf.Error())
	case errors.Is(err, ErrNoWorkflow):
		return models.Fail(models.KindNotFound, ErrNoWorkflow.Error())
	case errors.Is(err, ErrTooEarly), errors.Is(err, ErrAlreadyHeld), errors.Is(err, ErrNoInterviewAt),
		errors.Is(err, ErrWorkflowExists), errors.Is(err, ErrNextRoundNotReady), errors.Is(err, ErrWorkflowClosed),
		errors.Is(err, ErrRoundNotScheduled), errors.Is(err, ErrConflict):
		return models.Fail(models.KindInputError, err.Error())
	case errors.Is(err, scheduler.ErrNoSlots):
		return models.Fail(models.KindNotFound, "No available slots found. Please try a different time range or check back later.")
	}
	logger.WithError(err).Error("interview coordination failed")
	return models.Fail(models.KindInternalError, models.InternalErrorAnswer)
}

func (i impl) handleCreate(ctx context.Context, req Request) models.AgentResult {
	candidate := value(req.CandidateID)
	if candidate == "" {
		return models.Fail(models.KindInputError, "Please provide a candidate ID, email or name to start an interview workflow.")
	}
	created, err := i.CreateWorkflow(ctx, candidate, value(req.JobID), nil)
	if err != nil {
		return failure(err, i.getLogger())
	}
	w := created.Workflow
	answer := fmt.Sprintf("Interview workflow created for %s (%d rounds).\nWorkflow ID: %s\n", w.CandidateName, w.TotalRounds, w.ID)
	if m := created.Meeting; m != nil {
		answer += fmt.Sprintf("\n%s scheduled for %s at %s.\n%s", w.Rounds[0].RoundName, m.InterviewDate, m.InterviewTime, m.Notification.Summary())
	} else {
		answer += fmt.Sprintf("\n%s could not be scheduled yet: no free slots. It is ready to schedule.", w.Rounds[0].RoundName)
	}
	return models.Ok(answer, created)
}

func (i impl) handleRemind(ctx context.Context, req Request) models.AgentResult {
	id := value(req.InterviewID)
	if id == "" {
		return models.Fail(models.KindInputError, "Please provide the interview ID to send a reminder for.")
	}
	r, err := i.SendReminder(ctx, id, 0)
	if err != nil {
		return failure(err, i.getLogger())
	}
	return models.Ok(fmt.Sprintf("Reminder sent for the interview on %s.\n%s", r.InterviewAt, r.Notification.Summary()), r)
}

func (i impl) handleFeedback(ctx context.Context, req Request) models.AgentResult {
	id, text := value(req.InterviewID), value(req.Feedback)
	if id == "" || text == "" {
		return models.Fail(models.KindInputError, "Please provide the interview ID and the feedback text.")
	}
	fb, err := i.CollectFeedback(ctx, id, value(req.Interviewer), text)
	if err != nil {
		return failure(err, i.getLogger())
	}
	a := fb.Analysis
	answer := fmt.Sprintf("Feedback recorded.\n\nRating: %d/5\nRecommendation: %s\nSummary: %s",
		a.OverallRating, strings.ToUpper(a.Recommendation), a.Summary)
	if w := fb.Workflow; w != nil {
		switch w.Status {
		case StatusRejected:
			answer += "\n\nWorkflow status: rejected."
		case StatusCompleted:
			answer += "\n\nWorkflow status: completed. All rounds are done."
		default:
			answer += fmt.Sprintf("\n\nCurrent round: %s (%s).", w.Rounds[w.CurrentRound].RoundName, w.Rounds[w.CurrentRound].Status)
		}
	}
	return models.Ok(answer, fb)
}

func (i impl) handleNextRound(ctx context.Context, req Request) models.AgentResult {
	ref := value(req.WorkflowID)
	if ref == "" {
		ref = value(req.CandidateID)
	}
	if ref == "" {
		return models.Fail(models.KindInputError, "Please provide the workflow ID or candidate email.")
	}
	w, m, err := i.ScheduleNext(ctx, ref)
	if err != nil {
		return failure(err, i.getLogger())
	}
	round := w.Rounds[w.CurrentRound]
	return models.Ok(fmt.Sprintf("%s scheduled for %s at %s.\n%s", round.RoundName, m.InterviewDate, m.InterviewTime, m.Notification.Summary()), w)
}
