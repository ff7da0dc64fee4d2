package processor

import (
	"context"
	"sync"
)

// limiter runs at most capacity functions at a time and waits for all of them.
type limiter struct {
	slots chan struct{}
	wg    sync.WaitGroup
}

func newLimiter(capacity int) *limiter {
	if capacity < 1 {
		capacity = 1
	}
	return &limiter{slots: make(chan struct{}, capacity)}
}

// Go blocks until a slot is free, then runs fn in its own goroutine. It returns
// ctx.Err() without running fn if ctx ends first.
func (l *limiter) Go(ctx context.Context, fn func()) error {
	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer func() { <-l.slots }()
		fn()
	}()
	return nil
}

// Wait blocks until every started function has returned.
func (l *limiter) Wait() {
	l.wg.Wait()
}
