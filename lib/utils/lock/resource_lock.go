package lock

import (
	"context"
	"sync"
	"sync/atomic"
)

// Resource serializes calls to a local model that can only serve one prompt at a time.
var Resource = newResourceLock()

// InitResourceLock resets Resource and releases its waiters once ctx is done.
func InitResourceLock(ctx context.Context) {
	Resource = newResourceLock()

	go func() {
		<-ctx.Done()
		Resource.Stop()
	}()
}

type ResourceLock struct {
	mu        sync.Mutex
	cond      *sync.Cond
	holder    string
	waitCount int32
	stopped   bool
}

func newResourceLock() *ResourceLock {
	l := &ResourceLock{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Acquire blocks until the resource is free and takes it for owner.
// It returns false when ctx ends first or the lock was stopped.
func (c *ResourceLock) Acquire(ctx context.Context, owner string) bool {
	atomic.AddInt32(&c.waitCount, 1)
	defer atomic.AddInt32(&c.waitCount, -1)

	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.cond.Broadcast()
	})
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	for c.holder != "" && !c.stopped && ctx.Err() == nil {
		c.cond.Wait()
	}
	if c.stopped || ctx.Err() != nil {
		return false
	}
	c.holder = owner
	return true
}

func (c *ResourceLock) Release(owner string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.holder == owner {
		c.holder = ""
		c.cond.Broadcast()
	}
}

func (c *ResourceLock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	c.cond.Broadcast()
}

func (c *ResourceLock) WaitCount() int {
	return int(atomic.LoadInt32(&c.waitCount))
}
