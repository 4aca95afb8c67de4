package reminderworker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type senderStub struct {
	calls atomic.Int32
	err   error
}

func (s *senderStub) SendDueReminders(context.Context) (int, error) {
	s.calls.Add(1)
	return 1, s.err
}

func TestHandle(t *testing.T) {
	t.Run(`each run asks for due reminders check`, func(t *testing.T) {
		stub := &senderStub{}
		w := newWorker(stub, time.Minute)
		w.handle(context.Background())
		stub.err = errors.New("store down")
		w.handle(context.Background())
		require.Equal(t, int32(2), stub.calls.Load())
	})
}
