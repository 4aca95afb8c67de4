package smtp

import (
	"bytes"
	"context"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type ErrorKind string

const (
	ErrorAuthFailed       ErrorKind = "auth_failed"
	ErrorTransport        ErrorKind = "transport"
	ErrorInvalidRecipient ErrorKind = "invalid_recipient"
	ErrorNotConfigured    ErrorKind = "not_configured"
)

// SendError tells an authentication rejection apart from other delivery failures.
type SendError struct {
	Kind ErrorKind
	Err  error
}

func (e *SendError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// KindOf returns the delivery error kind, ErrorTransport for foreign errors.
func KindOf(err error) ErrorKind {
	var sendErr *SendError
	if errors.As(err, &sendErr) {
		return sendErr.Kind
	}
	return ErrorTransport
}

var Instance Provider

type Provider interface {
	Send(ctx context.Context, to, subject, body string) error
}

func Connect(user, password, host, port string, tlsEnabled bool) {
	Instance = &impl{
		user:       user,
		password:   password,
		host:       host,
		port:       port,
		tlsEnabled: tlsEnabled,
		send:       deliver,
	}
}

type sendFunc func(addr string, tlsEnabled bool, auth sasl.Client, from string, to []string, msg *bytes.Buffer) error

type impl struct {
	user       string
	password   string
	host       string
	port       string
	tlsEnabled bool
	send       sendFunc
}

func deliver(addr string, tlsEnabled bool, auth sasl.Client, from string, to []string, msg *bytes.Buffer) error {
	if tlsEnabled {
		return smtp.SendMailTLS(addr, auth, from, to, msg)
	}
	return smtp.SendMail(addr, auth, from, to, msg)
}

func (i impl) Send(ctx context.Context, to, subject, body string) error {
	logger := log.WithField("recipient", to).WithField("subject", subject)
	if !strings.Contains(to, "@") {
		return &SendError{Kind: ErrorInvalidRecipient, Err: errors.Errorf("%q is not an email address", to)}
	}
	if i.user == "" || i.host == "" || i.port == "" {
		logger.Warn("email not sent, smtp client is not configured")
		return &SendError{Kind: ErrorNotConfigured}
	}
	if err := ctx.Err(); err != nil {
		return &SendError{Kind: ErrorTransport, Err: err}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", i.user)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return &SendError{Kind: ErrorTransport, Err: errors.Wrap(err, "build message")}
	}

	auth := sasl.NewPlainClient("", i.user, i.password)
	err := i.send(i.host+":"+i.port, i.tlsEnabled, auth, i.user, []string{to}, &buf)
	if err != nil {
		kind := classify(err)
		logger.WithError(err).WithField("kind", kind).Error("email sending failed")
		return &SendError{Kind: kind, Err: err}
	}
	logger.Info("email sent")
	return nil
}

// classify maps SMTP authentication replies (530, 534, 535) to ErrorAuthFailed.
func classify(err error) ErrorKind {
	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		switch smtpErr.Code {
		case 530, 534, 535:
			return ErrorAuthFailed
		}
	}
	if strings.Contains(strings.ToLower(err.Error()), "authentication") {
		return ErrorAuthFailed
	}
	return ErrorTransport
}
