package onboarding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/documents"
	llmhandler "hr-agent-backend/lib/llm"
	"hr-agent-backend/lib/llm/prompts"
	"hr-agent-backend/lib/notify"
	"hr-agent-backend/lib/scheduler"
	"hr-agent-backend/lib/utils/fallback"
	initchecker "hr-agent-backend/lib/utils/init-checker"
	"hr-agent-backend/lib/utils/lock"
	"hr-agent-backend/models"
)

const (
	orientationDuration = 120
	TypeOrientation     = "orientation"
	lockWait            = 5 * time.Second
)

var (
	ErrNotFound      = errors.New("Onboarding record not found")
	ErrBuddyNotFound = errors.New("Buddy not found")
)

type CreateRequest struct {
	EmployeeID          string `json:"employee_id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Department          string `json:"department"`
	Position            string `json:"position"`
	StartDate           string `json:"start_date"`
	JobID               string `json:"job_id"`
	Salary              string `json:"salary"`
	GenerateOfferLetter bool   `json:"generate_offer_letter"`
}

// Created carries the new plan and the delivery report of the welcome mail.
type Created struct {
	Plan         *Plan         `json:"plan"`
	PlanDegraded bool          `json:"plan_degraded"`
	Welcome      notify.Report `json:"welcome"`
}

type Provider interface {
	Create(ctx context.Context, req CreateRequest) (Created, error)
	Get(ctx context.Context, id string) (*Plan, error)
	List(ctx context.Context, employeeID, status string) ([]Plan, error)
	UpdateTask(ctx context.Context, planID, taskRef string, status TaskStatus) (*Plan, error)
	AssignBuddy(ctx context.Context, planID, buddyID string) (*Plan, notify.Report, error)
	SendOrientationEmail(ctx context.Context, planID string) (*Plan, notify.Report, error)
	ScheduleOrientation(ctx context.Context, planID, preferredDate, preferredTime string) (*Plan, scheduler.Meeting, error)
	SendDocumentGuidance(ctx context.Context, planID string) (*Plan, notify.Report, error)
	UpdateDocument(ctx context.Context, planID, name string, status DocStatus) (*Plan, error)
	Handle(ctx context.Context, query string) models.AgentResult
}

var Instance Provider

type Config struct {
	HREmail     string
	CompanyName string
	Now         func() time.Time
}

// Employees resolves an Employee_ID, ObjectId or name to an employee record.
type Employees interface {
	Resolve(ctx context.Context, ref string) (docstore.Record, error)
}

func NewHandler(store docstore.Provider, llm llmhandler.Provider, notifier notify.Provider, sched scheduler.Provider,
	docs documents.Provider, employees Employees, cfg Config) {
	initchecker.CheckInit(
		"docstore", store,
		"notify", notifier,
		"scheduler", sched,
		"employee", employees,
	)
	Instance = New(store, llm, notifier, sched, docs, employees, cfg)
}

// New builds the tracker. docs may be nil, then offer letters are not generated.
func New(store docstore.Provider, llm llmhandler.Provider, notifier notify.Provider, sched scheduler.Provider,
	docs documents.Provider, employees Employees, cfg Config) Provider {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &impl{
		plans:     NewStore(store, cfg.Now),
		llm:       llm,
		notifier:  notifier,
		sched:     sched,
		docs:      docs,
		employees: employees,
		cfg:       cfg,
	}
}

type impl struct {
	plans     Store
	llm       llmhandler.Provider
	notifier  notify.Provider
	sched     scheduler.Provider
	docs      documents.Provider
	employees Employees
	cfg       Config
}

func (i impl) getLogger(planID string) *log.Entry {
	return log.WithField("agent", "onboarding").WithField("onboarding_id", planID)
}

func (i impl) stamp() string {
	return i.cfg.Now().Format("2006-01-02T15:04:05")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func orTBD(s string) string {
	if strings.TrimSpace(s) == "" {
		return "TBD"
	}
	return s
}

type planAnswer struct {
	Tasks []Task `json:"tasks"`
}

func (i impl) proposeTasks(ctx context.Context, req CreateRequest) fallback.Value[[]Task] {
	return fallback.Try("onboarding_plan", DefaultTasks, func() ([]Task, error) {
		info, err := yaml.Marshal(map[string]string{
			"name":       req.Name,
			"department": req.Department,
			"position":   req.Position,
			"start_date": req.StartDate,
		})
		if err != nil {
			return nil, err
		}
		var parsed planAnswer
		res, err := llmhandler.AskJSON(ctx, i.llm, prompts.OnboardingPlan, map[string]string{"Employee": string(info)}, &parsed)
		if err != nil {
			return nil, err
		}
		if !res.Ok() {
			return nil, res.Err()
		}
		tasks := make([]Task, 0, len(parsed.Tasks))
		for _, t := range parsed.Tasks {
			if strings.TrimSpace(t.Task) != "" {
				tasks = append(tasks, Task{Task: strings.TrimSpace(t.Task), DueDate: t.DueDate})
			}
		}
		if len(tasks) == 0 {
			return nil, errors.New("model proposed no tasks")
		}
		return tasks, nil
	})
}

func (i impl) Create(ctx context.Context, req CreateRequest) (Created, error) {
	if strings.TrimSpace(req.EmployeeID) == "" {
		return Created{}, errors.New("employee_id is required")
	}
	tasks := i.proposeTasks(ctx, req)
	p := NewPlan(req.EmployeeID, req.Name, req.Email, req.Department, req.Position, req.StartDate, tasks.Value)
	if i.docs != nil && req.GenerateOfferLetter {
		p.OfferLetterID = i.offerLetter(ctx, req)
	}
	if err := i.plans.Create(ctx, &p); err != nil {
		return Created{}, err
	}
	logger := i.getLogger(p.ID)
	logger.
		WithField("employee_id", p.EmployeeID).
		WithField("tasks", len(p.Tasks)).
		WithField("degraded", tasks.Degraded).
		Info("onboarding plan created")

	report := i.notifier.Send(ctx, notify.Message{
		Workflow:   "onboarding",
		Step:       "welcome",
		Subject:    fmt.Sprintf("Welcome to the Team - %s!", p.EmployeeName),
		Body:       i.welcomeBody(p),
		Recipients: []string{p.EmployeeEmail},
	})
	return Created{Plan: &p, PlanDegraded: tasks.Degraded, Welcome: report}, nil
}

func (i impl) offerLetter(ctx context.Context, req CreateRequest) string {
	details := map[string]interface{}{"position": req.Position, "department": req.Department}
	if req.Salary != "" {
		details["salary"] = req.Salary
	}
	if req.StartDate != "" {
		details["start_date"] = req.StartDate
	}
	doc, err := i.docs.Generate(ctx, documents.Request{
		Type:          documents.OfferLetter,
		EmployeeID:    req.EmployeeID,
		EmployeeName:  req.Name,
		EmployeeEmail: req.Email,
		JobID:         req.JobID,
		Details:       details,
	})
	if err != nil {
		log.WithField("employee_id", req.EmployeeID).WithError(err).Warn("offer letter not generated")
		return ""
	}
	return doc.ID
}

func (i impl) welcomeBody(p Plan) string {
	return fmt.Sprintf("Dear %s,\n\nWelcome to our organization! We are excited to have you join our team.\n\n"+
		"Your onboarding process has been initiated. Here's what to expect:\n\n"+
		"1. You will receive your employee ID and credentials\n2. Complete required documentation\n"+
		"3. Attend orientation session\n4. Meet your team and manager\n5. Begin training modules\n\n"+
		"Your start date: %s\nPosition: %s\nDepartment: %s\n\n"+
		"If you have any questions, please don't hesitate to reach out.\n\nBest regards,\n%s HR Team",
		p.EmployeeName, orTBD(p.StartDate), orNA(p.Position), orNA(p.Department), i.cfg.CompanyName)
}

func (i impl) Get(ctx context.Context, id string) (*Plan, error) {
	p, err := i.plans.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (i impl) List(ctx context.Context, employeeID, status string) ([]Plan, error) {
	return i.plans.List(ctx, employeeID, status, 100)
}

// mutate applies fn to a fresh copy of the plan under a per-plan lock and saves it.
func (i impl) mutate(ctx context.Context, planID string, fn func(p *Plan) error) (*Plan, error) {
	var out *Plan
	ok, err := lock.WithDelay(ctx, "onboarding_plan:"+planID, lockWait, func() error {
		p, err := i.Get(ctx, planID)
		if err != nil {
			return err
		}
		if err = fn(p); err != nil {
			return err
		}
		if err = i.plans.Save(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if !ok {
		return nil, ErrConflict
	}
	return out, err
}

func (i impl) UpdateTask(ctx context.Context, planID, taskRef string, status TaskStatus) (*Plan, error) {
	p, err := i.mutate(ctx, planID, func(p *Plan) error {
		return p.SetTaskStatus(taskRef, status, i.stamp())
	})
	if err != nil {
		return nil, err
	}
	i.getLogger(p.ID).
		WithField("task", taskRef).
		WithField("completion", p.CompletionPercentage).
		WithField("status", p.Status).
		Info("onboarding task updated")
	return p, nil
}

func (i impl) AssignBuddy(ctx context.Context, planID, buddyID string) (*Plan, notify.Report, error) {
	buddy, err := i.employees.Resolve(ctx, buddyID)
	if err != nil || buddy == nil {
		return nil, notify.Report{}, ErrBuddyNotFound
	}
	p, err := i.mutate(ctx, planID, func(p *Plan) error {
		p.BuddyID = docstore.FirstString(buddy, "Employee_ID", "EmployeeID", "employee_id")
		p.BuddyName = docstore.GetString(buddy, "Name")
		p.BuddyEmail = docstore.GetString(buddy, "Email")
		return nil
	})
	if err != nil {
		return nil, notify.Report{}, err
	}
	name := p.BuddyName
	if name == "" {
		name = "Colleague"
	}
	body := fmt.Sprintf("Dear %s,\n\nYou have been assigned as an onboarding buddy for:\n\n"+
		"Name: %s\nPosition: %s\nDepartment: %s\nStart Date: %s\n\n"+
		"Please help them get acclimated to the team and organization.\n\nBest regards,\n%s HR Team",
		name, p.EmployeeName, orNA(p.Position), orNA(p.Department), orTBD(p.StartDate), i.cfg.CompanyName)
	report := i.notifier.Send(ctx, notify.Message{
		Workflow:   "onboarding",
		Step:       "buddy",
		Subject:    fmt.Sprintf("Onboarding Buddy Assignment - %s", p.EmployeeName),
		Body:       body,
		Recipients: []string{p.BuddyEmail},
	})
	return p, report, nil
}

func (i impl) SendOrientationEmail(ctx context.Context, planID string) (*Plan, notify.Report, error) {
	p, err := i.Get(ctx, planID)
	if err != nil {
		return nil, notify.Report{}, err
	}
	now := i.cfg.Now()
	day := func(n int) string { return now.AddDate(0, 0, n).Format("January 02, 2006") }
	body := fmt.Sprintf("Dear %s,\n\nWe would like to schedule your orientation session. "+
		"Please reply to this email with your preferred dates and times for the orientation.\n\n"+
		"Suggested dates (please let us know which works best):\n"+
		"- Option 1: %s at 10:00 AM\n- Option 2: %s at 2:00 PM\n- Option 3: %s at 10:00 AM\n\n"+
		"Or suggest your preferred date and time.\n\nPlease reply within 48 hours so we can finalize the schedule.\n\n"+
		"Best regards,\n%s HR Team",
		p.EmployeeName, day(0), day(1), day(2), i.cfg.CompanyName)
	report := i.notifier.Send(ctx, notify.Message{
		Workflow:   "onboarding",
		Step:       "orientation_availability",
		Subject:    "Orientation Session - Please Confirm Your Availability",
		Body:       body,
		Recipients: []string{p.EmployeeEmail},
	})
	p, err = i.mutate(ctx, p.ID, func(p *Plan) error {
		p.OrientationEmailSent = true
		p.OrientationEmailSentAt = i.stamp()
		p.OrientationStatus = OrientationAwaitingResponse
		return nil
	})
	return p, report, err
}

func (i impl) ScheduleOrientation(ctx context.Context, planID, preferredDate, preferredTime string) (*Plan, scheduler.Meeting, error) {
	p, err := i.Get(ctx, planID)
	if err != nil {
		return nil, scheduler.Meeting{}, err
	}
	meeting, err := i.sched.Schedule(ctx, scheduler.Request{
		MeetingType:     TypeOrientation,
		Participants:    []string{p.EmployeeEmail, i.cfg.HREmail},
		DurationMinutes: orientationDuration,
		PreferredDate:   preferredDate,
		PreferredTime:   preferredTime,
		Subject:         fmt.Sprintf("Orientation Session - %s", p.EmployeeName),
		Notes:           "New employee orientation session",
	}, nil)
	if err != nil {
		return nil, scheduler.Meeting{}, err
	}
	p, err = i.mutate(ctx, p.ID, func(p *Plan) error {
		p.OrientationDate = meeting.InterviewDate
		p.OrientationTime = meeting.InterviewTime
		p.OrientationMeetingID = meeting.ID
		p.OrientationStatus = OrientationScheduled
		return nil
	})
	if err != nil {
		i.getLogger(planID).WithField("meeting_id", meeting.ID).WithError(err).Error("orientation booked but plan not saved")
		return nil, meeting, err
	}
	return p, meeting, nil
}

func (i impl) SendDocumentGuidance(ctx context.Context, planID string) (*Plan, notify.Report, error) {
	p, err := i.Get(ctx, planID)
	if err != nil {
		return nil, notify.Report{}, err
	}
	var list strings.Builder
	for n, doc := range RequiredDocuments {
		fmt.Fprintf(&list, "%d. %s\n", n+1, doc)
	}
	body := fmt.Sprintf("Dear %s,\n\nTo complete your onboarding process, please submit the following required documents:\n\n%s\n"+
		"Please submit these documents:\n- Via email: Send scanned copies to %s\n"+
		"- In person: Bring original documents on your first day\n- Deadline: Before your start date: %s\n\n"+
		"You can track your document submission status in your onboarding portal.\n\n"+
		"If you have any questions about these documents, please don't hesitate to contact us.\n\nBest regards,\n%s HR Team",
		p.EmployeeName, list.String(), i.cfg.HREmail, orTBD(p.StartDate), i.cfg.CompanyName)
	report := i.notifier.Send(ctx, notify.Message{
		Workflow:   "onboarding",
		Step:       "document_guidance",
		Subject:    "Required Documents for Onboarding - Action Required",
		Body:       body,
		Recipients: []string{p.EmployeeEmail},
	})
	p, err = i.mutate(ctx, p.ID, func(p *Plan) error {
		p.StartDocumentTracking(i.stamp())
		return nil
	})
	return p, report, err
}

func (i impl) UpdateDocument(ctx context.Context, planID, name string, status DocStatus) (*Plan, error) {
	p, err := i.mutate(ctx, planID, func(p *Plan) error {
		return p.SetDocumentStatus(name, status, i.stamp())
	})
	if err != nil {
		return nil, err
	}
	i.getLogger(p.ID).
		WithField("document", name).
		WithField("status", status).
		WithField("document_completion", p.DocumentCompletionPercentage).
		Info("onboarding document updated")
	return p, nil
}
