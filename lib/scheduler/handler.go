package scheduler

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
	"hr-agent-backend/models"
)

const (
	DefaultDuration = 60
	DefaultSubject  = "Scheduled Meeting"
	StatusScheduled = "Scheduled"
	StatusCancelled = "Cancelled"
	TypeInterview   = "interview"
	TypeMeeting     = "meeting"
)

var ErrNoSlots = errors.New("No available slots found")

// Request is a parsed scheduling request.
type Request struct {
	MeetingType     string   `json:"meeting_type"`
	Participants    []string `json:"participants"`
	DurationMinutes int      `json:"duration_minutes"`
	PreferredDate   string   `json:"preferred_date"`
	PreferredTime   string   `json:"preferred_time"`
	Subject         string   `json:"subject"`
	Notes           string   `json:"notes"`
}

func (r Request) duration() int {
	if r.DurationMinutes <= 0 {
		return DefaultDuration
	}
	return r.DurationMinutes
}

// Meeting is the record booked in the Interviews collection.
type Meeting struct {
	ID             string         `json:"_id" bson:"-"`
	InterviewDate  string         `json:"InterviewDate" bson:"InterviewDate"`
	InterviewTime  string         `json:"InterviewTime" bson:"InterviewTime"`
	Duration       int            `json:"Duration" bson:"Duration"`
	MeetingType    string         `json:"MeetingType" bson:"MeetingType"`
	Participants   []string       `json:"Participants" bson:"Participants"`
	Subject        string         `json:"Subject" bson:"Subject"`
	Status         string         `json:"Status" bson:"Status"`
	CreatedAt      string         `json:"CreatedAt" bson:"CreatedAt"`
	Notes          string         `json:"Notes" bson:"Notes"`
	CandidateID    string         `json:"CandidateID,omitempty" bson:"CandidateID,omitempty"`
	CandidateEmail string         `json:"CandidateEmail,omitempty" bson:"CandidateEmail,omitempty"`
	Notification   *notify.Report `json:"notification,omitempty" bson:"-"`
}

type Provider interface {
	FindSlots(ctx context.Context, participants []string, durationMin int, preferredDate string) ([]Slot, error)
	// Schedule books slot, or the first free slot when slot is nil, and invites the participants.
	Schedule(ctx context.Context, req Request, slot *Slot) (Meeting, error)
	ParseRequest(ctx context.Context, query string) (Request, error)
	List(ctx context.Context, status string) ([]docstore.Record, error)
	Handle(ctx context.Context, query string) models.AgentResult
}

var Instance Provider

type Config struct {
	CompanyName string
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewHandler(store docstore.Provider, llm llmhandler.Provider, notifier notify.Provider, cfg Config) {
	Instance = New(store, llm, notifier, cfg)
}

func New(store docstore.Provider, llm llmhandler.Provider, notifier notify.Provider, cfg Config) Provider {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &impl{store: store, llm: llm, notifier: notifier, cfg: cfg}
}

type impl struct {
	store    docstore.Provider
	llm      llmhandler.Provider
	notifier notify.Provider
	cfg      Config
}

func (i impl) busy(ctx context.Context, participants []string) (map[busyKey]bool, error) {
	busy := map[busyKey]bool{}
	if len(participants) == 0 {
		return busy, nil
	}
	in := bson.A{}
	for _, p := range participants {
		if p = strings.TrimSpace(p); p != "" {
			in = append(in, p)
		}
	}
	if len(in) == 0 {
		return busy, nil
	}
	recs, err := i.store.Find(ctx, docstore.InterviewsCollection, bson.M{
		"$or": bson.A{
			bson.M{"Interviewer": bson.M{"$in": in}},
			bson.M{"CandidateEmail": bson.M{"$in": in}},
			bson.M{"Participants": bson.M{"$in": in}},
		},
		"Status": bson.M{"$ne": StatusCancelled},
	}, docstore.FindOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "read existing meetings")
	}
	for _, rec := range recs {
		date, tm := docstore.GetString(rec, "InterviewDate"), docstore.GetString(rec, "InterviewTime")
		if date != "" && tm != "" {
			busy[busyKey{date, tm}] = true
		}
	}
	return busy, nil
}

func (i impl) FindSlots(ctx context.Context, participants []string, durationMin int, preferredDate string) ([]Slot, error) {
	if durationMin <= 0 {
		durationMin = DefaultDuration
	}
	busy, err := i.busy(ctx, participants)
	if err != nil {
		return nil, err
	}
	now := i.cfg.Now()
	start := now
	if preferredDate != "" {
		if d, err := time.ParseInLocation(DateLayout, preferredDate, now.Location()); err == nil {
			start = d
		} else {
			log.WithField("preferred_date", preferredDate).Debug("unreadable preferred date, starting today")
		}
	}
	return freeSlots(now, start, durationMin, busy), nil
}

func pick(slots []Slot, preferredTime string) Slot {
	for _, s := range slots {
		if preferredTime != "" && s.Time == preferredTime {
			return s
		}
	}
	return slots[0]
}

func (i impl) Schedule(ctx context.Context, req Request, slot *Slot) (Meeting, error) {
	if slot == nil {
		slots, err := i.FindSlots(ctx, req.Participants, req.duration(), req.PreferredDate)
		if err != nil {
			return Meeting{}, err
		}
		if len(slots) == 0 {
			return Meeting{}, ErrNoSlots
		}
		s := pick(slots, req.PreferredTime)
		slot = &s
	}
	meetingType := req.MeetingType
	if meetingType == "" {
		meetingType = TypeMeeting
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = DefaultSubject
	}
	m := Meeting{
		InterviewDate: slot.Date,
		InterviewTime: slot.Time,
		Duration:      req.duration(),
		MeetingType:   meetingType,
		Participants:  req.Participants,
		Subject:       subject,
		Status:        StatusScheduled,
		CreatedAt:     i.cfg.Now().Format("2006-01-02T15:04:05"),
		Notes:         req.Notes,
	}
	if m.Participants == nil {
		m.Participants = []string{}
	}
	if meetingType == TypeInterview && len(req.Participants) > 0 {
		email := req.Participants[0]
		m.CandidateEmail = email
		candidate, err := i.store.FindOne(ctx, docstore.CandidatesCollection, bson.M{"Email": email})
		if err != nil {
			log.WithError(err).Warn("candidate lookup for interview failed")
		} else if candidate != nil {
			m.CandidateID = docstore.IDHex(candidate)
		}
	}
	id, err := i.store.InsertOne(ctx, docstore.InterviewsCollection, m)
	if err != nil {
		return Meeting{}, errors.Wrap(err, "save meeting")
	}
	m.ID = id
	report := i.invite(ctx, m)
	m.Notification = &report
	log.
		WithField("meeting_id", id).
		WithField("date", m.InterviewDate).
		WithField("time", m.InterviewTime).
		Info("meeting scheduled")
	return m, nil
}

func (i impl) invite(ctx context.Context, m Meeting) notify.Report {
	body := fmt.Sprintf("Dear Participant,\n\nA meeting has been scheduled:\n\nDate: %s\nTime: %s\nDuration: %d minutes\nSubject: %s\n\n"+
		"Please add this to your calendar.\n\nBest regards,\n%s Scheduling System",
		m.InterviewDate, m.InterviewTime, m.Duration, m.Subject, i.cfg.CompanyName)
	recipients := []string{}
	for _, p := range m.Participants {
		if strings.Contains(p, "@") {
			recipients = append(recipients, p)
		}
	}
	return i.notifier.Send(ctx, notify.Message{
		Workflow:   "meeting",
		Step:       "invite",
		Subject:    "Meeting Scheduled: " + m.Subject,
		Body:       body,
		Recipients: recipients,
	})
}

func (i impl) ParseRequest(ctx context.Context, query string) (Request, error) {
	var req Request
	res, err := llmhandler.AskJSON(ctx, i.llm, prompts.MeetingRequest, map[string]string{
		"Query": query,
		"Today": i.cfg.Now().Format(DateLayout),
	}, &req)
	if err != nil {
		return Request{}, err
	}
	if !res.Ok() {
		return Request{}, res.Err()
	}
	return req, nil
}

func (i impl) List(ctx context.Context, status string) ([]docstore.Record, error) {
	filter := bson.M{}
	if status != "" {
		filter["Status"] = status
	}
	return i.store.Find(ctx, docstore.InterviewsCollection, filter, docstore.FindOptions{
		Sort: bson.D{{Key: "InterviewDate", Value: -1}},
	})
}

func (i impl) Handle(ctx context.Context, query string) models.AgentResult {
	req, err := i.ParseRequest(ctx, query)
	if err != nil {
		log.WithError(err).Warn("meeting request not understood")
		return models.Fail(models.KindParseError, "Failed to parse your request. Please try rephrasing.")
	}
	m, err := i.Schedule(ctx, req, nil)
	switch {
	case errors.Is(err, ErrNoSlots):
		return models.Fail(models.KindNotFound, "No available slots found. Please try a different time range or check back later.")
	case err != nil:
		log.WithError(err).Error("meeting scheduling failed")
		return models.Fail(models.KindInternalError, models.InternalErrorAnswer)
	}
	answer := fmt.Sprintf("Meeting Scheduled Successfully!\n\nDate: %s\nTime: %s\nDuration: %d minutes\nSubject: %s\n\n%s",
		m.InterviewDate, m.InterviewTime, m.Duration, m.Subject, m.Notification.Summary())
	return models.Ok(answer, m)
}
