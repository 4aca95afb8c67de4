package notify

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	notifylogstore "hr-agent-backend/lib/notify/store"
	"hr-agent-backend/lib/smtp"
	dbmodels "hr-agent-backend/models/db"
)

// Message is rendered once per workflow step and delivered to every recipient.
type Message struct {
	Workflow   string
	Step       string
	Subject    string
	Body       string
	Recipients []string
}

type Delivery struct {
	Recipient string         `json:"recipient"`
	Sent      bool           `json:"sent"`
	Error     smtp.ErrorKind `json:"error,omitempty"`
}

// Report is the outcome of one fan-out. Failures never abort the calling workflow.
type Report struct {
	Subject    string     `json:"subject"`
	Deliveries []Delivery `json:"deliveries"`
}

func (r Report) SentCount() int {
	n := 0
	for _, d := range r.Deliveries {
		if d.Sent {
			n++
		}
	}
	return n
}

func (r Report) AllSent() bool {
	return len(r.Deliveries) > 0 && r.SentCount() == len(r.Deliveries)
}

// FirstError returns the first failure kind, empty when everything was delivered.
func (r Report) FirstError() smtp.ErrorKind {
	for _, d := range r.Deliveries {
		if !d.Sent {
			return d.Error
		}
	}
	return ""
}

// Summary is a one-line note suitable for appending to a user-facing answer.
func (r Report) Summary() string {
	if len(r.Deliveries) == 0 {
		return "No notification recipients."
	}
	if r.AllSent() {
		return fmt.Sprintf("Notification sent to %d recipient(s).", len(r.Deliveries))
	}
	failed := []string{}
	for _, d := range r.Deliveries {
		if !d.Sent {
			failed = append(failed, fmt.Sprintf("%s (%s)", d.Recipient, d.Error))
		}
	}
	return fmt.Sprintf("Notification sent to %d of %d recipient(s); not delivered: %s.",
		r.SentCount(), len(r.Deliveries), strings.Join(failed, ", "))
}

type Provider interface {
	Send(ctx context.Context, msg Message) Report
}

var Instance Provider

// NewHandler sets Instance. logStore may be nil.
func NewHandler(mailer smtp.Provider, logStore notifylogstore.Provider) {
	Instance = New(mailer, logStore)
}

func New(mailer smtp.Provider, logStore notifylogstore.Provider) Provider {
	return &impl{mailer: mailer, logStore: logStore}
}

type impl struct {
	mailer   smtp.Provider
	logStore notifylogstore.Provider
}

func (i impl) Send(ctx context.Context, msg Message) Report {
	logger := log.
		WithField("workflow", msg.Workflow).
		WithField("step", msg.Step)
	report := Report{Subject: msg.Subject}
	for _, recipient := range msg.Recipients {
		recipient = strings.TrimSpace(recipient)
		if recipient == "" {
			continue
		}
		d := Delivery{Recipient: recipient}
		if !strings.Contains(recipient, "@") {
			d.Error = smtp.ErrorInvalidRecipient
			logger.WithField("recipient", recipient).Debug("recipient skipped, not an email address")
			report.Deliveries = append(report.Deliveries, d)
			continue
		}
		if err := i.mailer.Send(ctx, recipient, msg.Subject, msg.Body); err != nil {
			d.Error = smtp.KindOf(err)
			logger.WithField("recipient", recipient).WithError(err).Warn("notification not delivered")
		} else {
			d.Sent = true
		}
		report.Deliveries = append(report.Deliveries, d)
	}
	i.save(msg, report, logger)
	return report
}

func (i impl) save(msg Message, report Report, logger *log.Entry) {
	if i.logStore == nil {
		return
	}
	rec := dbmodels.NotificationLog{
		Workflow:   msg.Workflow,
		Step:       msg.Step,
		Subject:    msg.Subject,
		Recipients: msg.Recipients,
		Failures:   dbmodels.DeliveryErrors{},
	}
	for _, d := range report.Deliveries {
		if d.Sent {
			rec.Delivered = append(rec.Delivered, d.Recipient)
		} else {
			rec.Failures[d.Recipient] = string(d.Error)
		}
	}
	if _, err := i.logStore.Save(rec); err != nil {
		logger.WithError(err).Warn("failed to save notification log")
	}
}

// Recorder is an in-memory Provider for tests and dry runs.
type Recorder struct {
	Messages []Message
	Fail     map[string]smtp.ErrorKind
}

func (r *Recorder) Send(_ context.Context, msg Message) Report {
	r.Messages = append(r.Messages, msg)
	report := Report{Subject: msg.Subject}
	for _, recipient := range msg.Recipients {
		d := Delivery{Recipient: recipient, Sent: true}
		if !strings.Contains(recipient, "@") {
			d = Delivery{Recipient: recipient, Error: smtp.ErrorInvalidRecipient}
		} else if kind, ok := r.Fail[recipient]; ok {
			d = Delivery{Recipient: recipient, Error: kind}
		}
		report.Deliveries = append(report.Deliveries, d)
	}
	return report
}
