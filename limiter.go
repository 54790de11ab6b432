package audit2pdf

import (
	"context"
	"runtime"
)

// Session limit sizing constants.
const (
	// MinSessions ensures at least one browser can run.
	MinSessions = 1

	// MaxSessions caps concurrent browsers to limit memory (~200MB each).
	MaxSessions = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// SessionLimiter bounds how many browser sessions run at once. It is a
// counting semaphore: sessions are never pooled or reused, a slot only
// grants permission to launch a fresh one.
type SessionLimiter struct {
	sem chan struct{}
}

// NewSessionLimiter creates a limiter with n slots (at least one).
func NewSessionLimiter(n int) *SessionLimiter {
	if n < MinSessions {
		n = MinSessions
	}
	return &SessionLimiter{sem: make(chan struct{}, n)}
}

// Acquire blocks until a slot is free or ctx is done.
func (l *SessionLimiter) Acquire(ctx context.Context) error {
	// Fail fast on a dead context even when a slot is free
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *SessionLimiter) Release() {
	<-l.sem
}

// Size returns the limiter capacity.
func (l *SessionLimiter) Size() int {
	return cap(l.sem)
}

// InUse returns the number of held slots.
func (l *SessionLimiter) InUse() int {
	return len(l.sem)
}

// ResolveSessionLimit determines how many browsers may run at once.
// Priority: explicit value > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolveSessionLimit(maxSessions int) int {
	if maxSessions > 0 {
		return maxSessions
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinSessions {
		return MinSessions
	}
	if n > MaxSessions {
		return MaxSessions
	}
	return n
}
