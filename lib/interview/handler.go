package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/docstore"
	llmhandler "hr-agent-backend/lib/llm"
	"hr-agent-backend/lib/llm/prompts"
	"hr-agent-backend/lib/notify"
	"hr-agent-backend/lib/scheduler"
	"hr-agent-backend/lib/utils/fallback"
	initchecker "hr-agent-backend/lib/utils/init-checker"
	"hr-agent-backend/lib/utils/lock"
	"hr-agent-backend/lib/utils/lookup"
	"hr-agent-backend/models"
)

const (
	DefaultHoursBefore = 24
	roundDuration      = 60
	lockWait           = 5 * time.Second
)

var (
	ErrTooEarly       = errors.New("Too early to send reminder")
	ErrAlreadyHeld    = errors.New("Interview time has already passed")
	ErrNoInterviewAt  = errors.New("interview has no valid date and time")
	ErrWorkflowExists = errors.New("an active interview workflow already exists for this candidate")
	ErrNoWorkflow     = errors.New("Interview workflow not found")
)

// Created is the outcome of opening a workflow. Meeting is nil when no slot was free.
type Created struct {
	Workflow *Workflow          `json:"workflow"`
	Meeting  *scheduler.Meeting `json:"meeting,omitempty"`
}

type FeedbackResult struct {
	InterviewID      string    `json:"interview_id"`
	Analysis         Analysis  `json:"analysis"`
	AnalysisDegraded bool      `json:"analysis_degraded"`
	Workflow         *Workflow `json:"workflow,omitempty"`
}

type Reminder struct {
	InterviewID  string        `json:"interview_id"`
	InterviewAt  string        `json:"interview_at"`
	Notification notify.Report `json:"notification"`
}

type Provider interface {
	CreateWorkflow(ctx context.Context, candidateID, jobID string, rounds []string) (Created, error)
	CollectFeedback(ctx context.Context, interviewID, interviewer, feedback string) (FeedbackResult, error)
	// ScheduleNext books the round the workflow is waiting on. ref is a workflow id or a candidate email.
	ScheduleNext(ctx context.Context, ref string) (*Workflow, scheduler.Meeting, error)
	SendReminder(ctx context.Context, interviewID string, hoursBefore int) (Reminder, error)
	SendDueReminders(ctx context.Context) (int, error)
	FindInterview(ctx context.Context, id string) (docstore.Record, string, error)
	Workflows(ctx context.Context, status string) ([]Workflow, error)
	Interviews(ctx context.Context, status string) ([]docstore.Record, error)
	Handle(ctx context.Context, query string) models.AgentResult
}

var Instance Provider

type Config struct {
	HREmail     string
	CompanyName string
	HoursBefore int
	Now         func() time.Time
}

func NewHandler(store docstore.Provider, llm llmhandler.Provider, notifier notify.Provider, sched scheduler.Provider, cfg Config) {
	initchecker.CheckInit(
		"docstore", store,
		"notify", notifier,
		"scheduler", sched,
	)
	Instance = New(store, llm, notifier, sched, cfg)
}

func New(store docstore.Provider, llm llmhandler.Provider, notifier notify.Provider, sched scheduler.Provider, cfg Config) Provider {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.HoursBefore <= 0 {
		cfg.HoursBefore = DefaultHoursBefore
	}
	return &impl{
		store:     store,
		workflows: NewStore(store, cfg.Now),
		llm:       llm,
		notifier:  notifier,
		sched:     sched,
		cfg:       cfg,
	}
}

type impl struct {
	store     docstore.Provider
	workflows Store
	llm       llmhandler.Provider
	notifier  notify.Provider
	sched     scheduler.Provider
	cfg       Config
}

func (i impl) getLogger() *log.Entry {
	return log.WithField("agent", "interview_coordinator")
}

func (i impl) candidateStrategies() []lookup.Strategy[docstore.Record] {
	coll := docstore.CandidatesCollection
	return []lookup.Strategy[docstore.Record]{
		lookup.NativeID(i.store, coll),
		lookup.ExactField(i.store, coll, "Email"),
		lookup.CaseInsensitiveField(i.store, coll, "Email"),
		lookup.ExactField(i.store, coll, "Name"),
		lookup.CaseInsensitiveField(i.store, coll, "Name"),
	}
}

func (i impl) interviewStrategies() []lookup.Strategy[docstore.Record] {
	coll := docstore.InterviewsCollection
	return []lookup.Strategy[docstore.Record]{
		lookup.ExactField(i.store, coll, "InterviewID", "interviewID", "interview_id"),
		lookup.CaseInsensitiveField(i.store, coll, "InterviewID", "interviewID", "interview_id"),
		lookup.FullScan(i.store, coll, "InterviewID", "interviewID", "interview_id"),
		lookup.NativeID(i.store, coll),
		lookup.IDPrefix(i.store, coll, 8),
		lookup.ExactField(i.store, coll, "Subject", "CandidateEmail"),
		lookup.ContainsField(i.store, coll, "Subject"),
	}
}

func (i impl) FindInterview(ctx context.Context, id string) (docstore.Record, string, error) {
	rec, strategy, err := lookup.Resolve(ctx, id, i.interviewStrategies()...)
	if err != nil {
		var nf *lookup.NotFoundError
		if errors.As(err, &nf) {
			nf.Entity = "Interview"
			nf.Samples = lookup.Samples(ctx, i.store, docstore.InterviewsCollection, 3, "InterviewID")
		}
		return nil, "", err
	}
	return rec, strategy, nil
}

// nameFromEmail turns "jane.doe@x" into "Jane Doe".
func nameFromEmail(email string) string {
	local := strings.SplitN(email, "@", 2)[0]
	parts := strings.FieldsFunc(local, func(r rune) bool { return r == '.' || r == '_' || r == '-' || r == '+' })
	for idx, p := range parts {
		parts[idx] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, " ")
}

func (i impl) resolveCandidate(ctx context.Context, id string) (email, name, candidateID string, err error) {
	rec, _, err := lookup.Resolve(ctx, id, i.candidateStrategies()...)
	if err == nil {
		return docstore.GetString(rec, "Email"), docstore.GetString(rec, "Name"), docstore.IDHex(rec), nil
	}
	var nf *lookup.NotFoundError
	if !errors.As(err, &nf) {
		return "", "", "", err
	}
	id = strings.TrimSpace(id)
	if !strings.Contains(id, "@") {
		nf.Entity = "Candidate"
		nf.Samples = lookup.Samples(ctx, i.store, docstore.CandidatesCollection, 3, "Email", "Name")
		return "", "", "", nf
	}
	name = nameFromEmail(id)
	candidateID, err = i.store.InsertOne(ctx, docstore.CandidatesCollection, bson.D{
		{Key: "Name", Value: name},
		{Key: "Email", Value: id},
		{Key: "Status", Value: "Interviewing"},
		{Key: "CreatedAt", Value: i.cfg.Now().Format("2006-01-02T15:04:05")},
	})
	if err != nil {
		return "", "", "", errors.Wrap(err, "create candidate")
	}
	i.getLogger().WithField("candidate_email", id).Info("candidate created for interview workflow")
	return id, name, candidateID, nil
}

func (i impl) CreateWorkflow(ctx context.Context, candidateID, jobID string, rounds []string) (Created, error) {
	email, name, id, err := i.resolveCandidate(ctx, candidateID)
	if err != nil {
		return Created{}, err
	}
	existing, err := i.workflows.ActiveByCandidate(ctx, email)
	if err != nil {
		return Created{}, err
	}
	if existing != nil {
		return Created{Workflow: existing}, ErrWorkflowExists
	}
	w := NewWorkflow(id, email, name, jobID, rounds)
	if err = i.workflows.Create(ctx, &w); err != nil {
		return Created{}, err
	}
	logger := i.getLogger().WithField("workflow_id", w.ID)
	logger.WithField("candidate_email", email).Info("interview workflow created")

	meeting, err := i.scheduleCurrent(ctx, &w)
	switch {
	case errors.Is(err, scheduler.ErrNoSlots):
		logger.Warn("no free slot for the first round, left ready to schedule")
		return Created{Workflow: &w}, nil
	case err != nil:
		return Created{Workflow: &w}, err
	}
	return Created{Workflow: &w, Meeting: &meeting}, nil
}

// scheduleCurrent books the current round, which must be ready_to_schedule, and saves the workflow.
func (i impl) scheduleCurrent(ctx context.Context, w *Workflow) (scheduler.Meeting, error) {
	idx, err := w.NextToSchedule()
	if err != nil {
		return scheduler.Meeting{}, err
	}
	round := w.Rounds[idx]
	meeting, err := i.sched.Schedule(ctx, scheduler.Request{
		MeetingType:     scheduler.TypeInterview,
		Participants:    []string{w.CandidateEmail, i.cfg.HREmail},
		DurationMinutes: roundDuration,
		Subject:         fmt.Sprintf("%s - %s", round.RoundName, w.CandidateName),
		Notes:           fmt.Sprintf("Interview workflow %s, round %d of %d", w.ID, round.RoundNumber, w.TotalRounds),
	}, nil)
	if err != nil {
		return scheduler.Meeting{}, err
	}
	if err = w.MarkScheduled(meeting.InterviewDate+" "+meeting.InterviewTime, meeting.ID); err != nil {
		return scheduler.Meeting{}, err
	}
	if err = i.workflows.Save(ctx, w); err != nil {
		i.getLogger().
			WithField("workflow_id", w.ID).
			WithField("interview_id", meeting.ID).
			WithError(err).
			Error("round booked but workflow not saved")
		return scheduler.Meeting{}, err
	}
	return meeting, nil
}

// withWorkflowLock serializes changes to one workflow inside this process. The version check
// in Store.Save covers writers in other processes.
func withWorkflowLock(ctx context.Context, id string, fn func() error) error {
	ok, err := lock.WithDelay(ctx, "interview_workflow:"+id, lockWait, fn)
	if !ok {
		return ErrConflict
	}
	return err
}

func (i impl) workflowByRef(ctx context.Context, ref string) (*Workflow, error) {
	ref = strings.TrimSpace(ref)
	w, err := i.workflows.Get(ctx, ref)
	if err != nil || w != nil {
		return w, err
	}
	w, err = i.workflows.ActiveByCandidate(ctx, ref)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNoWorkflow
	}
	return w, nil
}

func (i impl) ScheduleNext(ctx context.Context, ref string) (*Workflow, scheduler.Meeting, error) {
	w, err := i.workflowByRef(ctx, ref)
	if err != nil {
		return nil, scheduler.Meeting{}, err
	}
	var meeting scheduler.Meeting
	err = withWorkflowLock(ctx, w.ID, func() error {
		fresh, err := i.workflows.Get(ctx, w.ID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return ErrNoWorkflow
		}
		w = fresh
		meeting, err = i.scheduleCurrent(ctx, w)
		return err
	})
	return w, meeting, err
}

func normalizeAnalysis(a Analysis) Analysis {
	if a.OverallRating < 1 {
		a.OverallRating = 1
	}
	if a.OverallRating > 5 {
		a.OverallRating = 5
	}
	a.Recommendation = strings.ToLower(strings.TrimSpace(a.Recommendation))
	switch a.Recommendation {
	case "hire", "maybe", "reject":
	default:
		a.Recommendation = "maybe"
	}
	if a.Strengths == nil {
		a.Strengths = []string{}
	}
	if a.Concerns == nil {
		a.Concerns = []string{}
	}
	return a
}

func (i impl) analyze(ctx context.Context, feedback string) fallback.Value[Analysis] {
	return fallback.Try("feedback_analysis", NeutralAnalysis(), func() (Analysis, error) {
		var a Analysis
		res, err := llmhandler.AskJSON(ctx, i.llm, prompts.FeedbackAnalysis, map[string]string{"Feedback": feedback}, &a)
		if err != nil {
			return Analysis{}, err
		}
		if !res.Ok() {
			return Analysis{}, res.Err()
		}
		return normalizeAnalysis(a), nil
	})
}

func (i impl) CollectFeedback(ctx context.Context, interviewID, interviewer, feedback string) (FeedbackResult, error) {
	rec, _, err := i.FindInterview(ctx, interviewID)
	if err != nil {
		return FeedbackResult{}, err
	}
	id := docstore.IDHex(rec)
	analysis := i.analyze(ctx, feedback)
	result := FeedbackResult{InterviewID: id, Analysis: analysis.Value, AnalysisDegraded: analysis.Degraded}
	now := i.cfg.Now().Format("2006-01-02T15:04:05")

	_, err = i.store.InsertOne(ctx, docstore.InterviewFeedbackCollection, bson.D{
		{Key: "interview_id", Value: id},
		{Key: "interviewer", Value: interviewer},
		{Key: "feedback", Value: feedback},
		{Key: "analysis", Value: analysis.Value},
		{Key: "submitted_at", Value: now},
	})
	if err != nil {
		return result, errors.Wrap(err, "save interview feedback")
	}
	_, err = i.store.UpdateOne(ctx, docstore.InterviewsCollection, docstore.IDFilter(id), bson.M{"$set": bson.M{
		"feedback_collected": true,
		"feedback":           analysis.Value,
	}})
	if err != nil {
		return result, errors.Wrap(err, "mark interview feedback")
	}

	email := docstore.FirstString(rec, "CandidateEmail", "candidate_email")
	if email == "" {
		return result, nil
	}
	w, err := i.workflows.ActiveByCandidate(ctx, email)
	if err != nil || w == nil {
		return result, err
	}
	err = withWorkflowLock(ctx, w.ID, func() error {
		fresh, err := i.workflows.Get(ctx, w.ID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return ErrNoWorkflow
		}
		if err = fresh.ApplyFeedback(id, analysis.Value); err != nil {
			return err
		}
		if err = i.workflows.Save(ctx, fresh); err != nil {
			return err
		}
		w = fresh
		return nil
	})
	if errors.Is(err, ErrNotCurrentRound) || errors.Is(err, ErrRoundNotScheduled) {
		// feedback on an earlier round or an unrelated meeting stays on the interview only
		i.getLogger().
			WithField("workflow_id", w.ID).
			WithField("interview_id", id).
			Info("feedback not applied to workflow, interview is not its current round")
		return result, nil
	}
	result.Workflow = w
	if err != nil {
		return result, err
	}
	i.getLogger().
		WithField("workflow_id", w.ID).
		WithField("recommendation", analysis.Value.Recommendation).
		WithField("status", w.Status).
		Info("interview feedback applied")
	i.notifyDecision(ctx, w, analysis.Value)
	return result, nil
}

func (i impl) notifyDecision(ctx context.Context, w *Workflow, a Analysis) {
	var next string
	switch w.Status {
	case StatusRejected:
		next = "The candidate has been rejected. No further rounds will be scheduled."
	case StatusCompleted:
		next = "All interview rounds are complete."
	default:
		next = fmt.Sprintf("Next round: %s (ready to schedule).", w.Rounds[w.CurrentRound].RoundName)
	}
	body := fmt.Sprintf("HR Team,\n\nInterview feedback was recorded for %s.\n\nRating: %d/5\nRecommendation: %s\nSummary: %s\n\n%s\n",
		w.CandidateName, a.OverallRating, strings.ToUpper(a.Recommendation), a.Summary, next)
	i.notifier.Send(ctx, notify.Message{
		Workflow:   "interview",
		Step:       "feedback",
		Subject:    fmt.Sprintf("Interview Feedback - %s", w.CandidateName),
		Body:       body,
		Recipients: []string{i.cfg.HREmail},
	})
}

func interviewTime(rec docstore.Record, loc *time.Location) (time.Time, error) {
	date := docstore.FirstString(rec, "InterviewDate", "interview_date")
	tm := docstore.FirstString(rec, "InterviewTime", "interview_time")
	if date == "" || tm == "" {
		return time.Time{}, ErrNoInterviewAt
	}
	at, err := time.ParseInLocation(scheduler.DateLayout+" "+scheduler.TimeLayout, date+" "+tm, loc)
	if err != nil {
		return time.Time{}, ErrNoInterviewAt
	}
	return at, nil
}

func reminderRecipients(rec docstore.Record) []string {
	seen := map[string]bool{}
	out := []string{}
	add := func(s string) {
		s = strings.TrimSpace(s)
		if strings.Contains(s, "@") && !seen[strings.ToLower(s)] {
			seen[strings.ToLower(s)] = true
			out = append(out, s)
		}
	}
	if v, ok := docstore.Get(rec, "Participants"); ok {
		if list, ok := v.(bson.A); ok {
			for _, p := range list {
				add(docstore.String(p))
			}
		}
	}
	add(docstore.GetString(rec, "CandidateEmail"))
	add(docstore.GetString(rec, "Interviewer"))
	return out
}

func (i impl) SendReminder(ctx context.Context, interviewID string, hoursBefore int) (Reminder, error) {
	if hoursBefore <= 0 {
		hoursBefore = i.cfg.HoursBefore
	}
	rec, _, err := i.FindInterview(ctx, interviewID)
	if err != nil {
		return Reminder{}, err
	}
	now := i.cfg.Now()
	at, err := interviewTime(rec, now.Location())
	if err != nil {
		return Reminder{}, err
	}
	switch until := at.Sub(now); {
	case until < 0:
		return Reminder{}, ErrAlreadyHeld
	case until > time.Duration(hoursBefore)*time.Hour:
		return Reminder{}, ErrTooEarly
	}
	id := docstore.IDHex(rec)
	date := at.Format(scheduler.DateLayout)
	body := fmt.Sprintf("Dear Participant,\n\nThis is a reminder of the upcoming interview:\n\nSubject: %s\nDate: %s\nTime: %s\n\n"+
		"Please be on time.\n\nBest regards,\n%s HR Team",
		docstore.GetString(rec, "Subject"), date, at.Format(scheduler.TimeLayout), i.cfg.CompanyName)
	report := i.notifier.Send(ctx, notify.Message{
		Workflow:   "interview",
		Step:       "reminder",
		Subject:    "Reminder: Interview Scheduled for " + date,
		Body:       body,
		Recipients: reminderRecipients(rec),
	})
	_, err = i.store.UpdateOne(ctx, docstore.InterviewsCollection, docstore.IDFilter(id), bson.M{"$set": bson.M{
		"reminder_sent":    true,
		"reminder_sent_at": now.Format("2006-01-02T15:04:05"),
	}})
	if err != nil {
		return Reminder{}, errors.Wrap(err, "mark reminder sent")
	}
	return Reminder{InterviewID: id, InterviewAt: at.Format(scheduler.DateLayout + " " + scheduler.TimeLayout), Notification: report}, nil
}

// SendDueReminders reminds every scheduled interview inside the reminder window that has not been reminded yet.
func (i impl) SendDueReminders(ctx context.Context) (int, error) {
	recs, err := i.store.Find(ctx, docstore.InterviewsCollection, bson.M{
		"Status":        scheduler.StatusScheduled,
		"reminder_sent": bson.M{"$ne": true},
	}, docstore.FindOptions{})
	if err != nil {
		return 0, errors.Wrap(err, "read scheduled interviews")
	}
	now := i.cfg.Now()
	window := time.Duration(i.cfg.HoursBefore) * time.Hour
	sent := 0
	for _, rec := range recs {
		if ctx.Err() != nil {
			break
		}
		at, err := interviewTime(rec, now.Location())
		if err != nil {
			continue
		}
		if until := at.Sub(now); until < 0 || until > window {
			continue
		}
		if _, err = i.SendReminder(ctx, docstore.IDHex(rec), i.cfg.HoursBefore); err != nil {
			i.getLogger().WithField("interview_id", docstore.IDHex(rec)).WithError(err).Warn("reminder not sent")
			continue
		}
		sent++
	}
	return sent, nil
}

func (i impl) Workflows(ctx context.Context, status string) ([]Workflow, error) {
	return i.workflows.List(ctx, status)
}

func (i impl) Interviews(ctx context.Context, status string) ([]docstore.Record, error) {
	return i.sched.List(ctx, status)
}
