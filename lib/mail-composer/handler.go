package mailcomposer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	llmhandler "hr-agent-backend/lib/llm"
	"hr-agent-backend/lib/llm/prompts"
	"hr-agent-backend/lib/smtp"
	"hr-agent-backend/models"
)

const formatHint = "\n\nFormat: email id: recipient@example.com subject: Your Subject"

var (
	recipientPattern = regexp.MustCompile(`(?i)(?:email\s*id|to|email)\s*[:\-]?\s*(\S+@\S+)`)
	subjectPattern   = regexp.MustCompile(`(?i)subject\s*[:\-]?\s*(.+?)(?:$|\n)`)
)

// Result is the outcome of one composed email. Content is filled even when delivery failed.
// Error is set only when the mail transport failed; a body that could not be generated leaves it
// empty and reports Kind unavailable or internal_error.
type Result struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Content   string            `json:"content,omitempty"`
	Recipient string            `json:"recipient,omitempty"`
	Subject   string            `json:"subject,omitempty"`
	Kind      models.ResultKind `json:"kind"`
	Error     smtp.ErrorKind    `json:"error,omitempty"`
}

type Provider interface {
	// Compose writes the body with the language model and sends it.
	Compose(ctx context.Context, recipient, subject, context string) Result
	Handle(ctx context.Context, query string) models.AgentResult
}

var Instance Provider

func NewHandler(llm llmhandler.Provider, mailer smtp.Provider) {
	Instance = New(llm, mailer)
}

func New(llm llmhandler.Provider, mailer smtp.Provider) Provider {
	return &impl{llm: llm, mailer: mailer}
}

type impl struct {
	llm    llmhandler.Provider
	mailer smtp.Provider
}

// Extract pulls the recipient and the subject out of a free-text request.
func Extract(query string) (recipient, subject string) {
	if m := recipientPattern.FindStringSubmatch(query); m != nil {
		recipient = strings.TrimRight(strings.TrimSpace(m[1]), ".,;")
	}
	if m := subjectPattern.FindStringSubmatch(query); m != nil {
		subject = strings.TrimSpace(m[1])
	}
	return recipient, subject
}

func (i impl) Compose(ctx context.Context, recipient, subject, userContext string) Result {
	logger := log.WithField("recipient", recipient).WithField("subject", subject)
	body, err := llmhandler.Ask(ctx, i.llm, prompts.EmailBody, map[string]string{
		"Recipient": recipient,
		"Subject":   subject,
		"Context":   userContext,
	})
	if err != nil {
		logger.WithError(err).Error("email body generation failed")
		kind := models.KindInternalError
		if errors.Is(err, llmhandler.ErrNotConfigured) {
			kind = models.KindUnavailable
		}
		return Result{Message: fmt.Sprintf("Error generating email: %s", err.Error()), Recipient: recipient, Subject: subject, Kind: kind}
	}
	body = strings.TrimSpace(body)

	res := Result{Content: body, Recipient: recipient, Subject: subject}
	err = i.mailer.Send(ctx, recipient, subject, body)
	if err == nil {
		res.Success = true
		res.Kind = models.KindOK
		res.Message = fmt.Sprintf("Email sent successfully to %s", recipient)
		return res
	}
	res.Kind = models.KindDeliveryError
	res.Error = smtp.KindOf(err)
	switch res.Error {
	case smtp.ErrorAuthFailed:
		res.Message = "Authentication Failed. Check SENDER_EMAIL and SENDER_APP_PASSWORD."
	case smtp.ErrorNotConfigured:
		res.Message = "Email Sending Failed: SMTP is not configured."
	default:
		res.Message = fmt.Sprintf("Email Sending Failed: %s", err.Error())
	}
	return res
}

func (i impl) Handle(ctx context.Context, query string) models.AgentResult {
	recipient, subject := Extract(query)
	if recipient == "" {
		return models.Fail(models.KindInputError, "Email address not found."+formatHint)
	}
	if subject == "" {
		return models.Fail(models.KindInputError, "Subject not found."+formatHint)
	}
	res := i.Compose(ctx, recipient, subject, query)
	if res.Success {
		answer := fmt.Sprintf("Email sent successfully!\n\nTo: %s\nSubject: %s\n\nEmail Content:\n%s", recipient, subject, res.Content)
		return models.Ok(answer, res)
	}
	content := res.Content
	if content == "" {
		content = "N/A"
	}
	return models.AgentResult{
		Kind:   res.Kind,
		Answer: fmt.Sprintf("%s\n\nGenerated Email Content:\n%s", res.Message, content),
		Data:   res,
	}
}
