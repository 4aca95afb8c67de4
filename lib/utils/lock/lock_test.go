package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	ctx := context.Background()

	t.Run(`held key times out check`, func(t *testing.T) {
		ok, err := WithDelay(ctx, "k", time.Second, func() error {
			inner, err := WithDelay(ctx, "k", 100*time.Millisecond, func() error { return nil })
			require.False(t, inner)
			return err
		})
		require.True(t, ok)
		require.NoError(t, err)
	})

	t.Run(`key is released check`, func(t *testing.T) {
		ok, _ := WithDelay(ctx, "k2", time.Second, func() error { return nil })
		require.True(t, ok)
		ok, _ = WithDelay(ctx, "k2", time.Second, func() error { return nil })
		require.True(t, ok)
	})
}

func TestResourceLock(t *testing.T) {
	t.Run(`cancelled waiter gives up check`, func(t *testing.T) {
		l := newResourceLock()
		require.True(t, l.Acquire(context.Background(), "first"))
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		require.False(t, l.Acquire(ctx, "second"))
		l.Release("first")
		require.True(t, l.Acquire(context.Background(), "second"))
	})

	t.Run(`stop releases waiters check`, func(t *testing.T) {
		l := newResourceLock()
		require.True(t, l.Acquire(context.Background(), "first"))
		done := make(chan bool)
		go func() { done <- l.Acquire(context.Background(), "second") }()
		time.Sleep(20 * time.Millisecond)
		l.Stop()
		require.False(t, <-done)
	})
}
