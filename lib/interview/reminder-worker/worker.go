package reminderworker

import (
	"context"
	"time"

	"hr-agent-backend/lib/interview"
	baseworker "hr-agent-backend/lib/utils/base-worker"
)

// Sender is the part of the interview coordinator the worker drives.
type Sender interface {
	SendDueReminders(ctx context.Context) (int, error)
}

const (
	workerName    = "InterviewReminderJob"
	firstRunDelay = 30 * time.Second
)

// StartWorker runs SendDueReminders every interval until ctx is done.
func StartWorker(ctx context.Context, interval time.Duration) {
	i := newWorker(interview.Instance, interval)
	go i.Run(ctx, i.handle)
}

func newWorker(sender Sender, interval time.Duration) *impl {
	return &impl{
		BaseImpl: *baseworker.NewInstance(workerName, firstRunDelay, interval),
		sender:   sender,
	}
}

type impl struct {
	baseworker.BaseImpl
	sender Sender
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	sent, err := i.sender.SendDueReminders(ctx)
	if err != nil {
		logger.WithError(err).Error("due reminders not processed")
		return
	}
	if sent > 0 {
		logger.WithField("sent", sent).Info("interview reminders sent")
	}
}
