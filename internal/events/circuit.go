package events

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Circuit breaker states
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures = 5
	openTimeout = 30 * time.Second
	maxBackoff  = 30 * time.Second
)

type breaker struct {
	state        int32
	failureCount int64

	mu          sync.Mutex
	lastFailure time.Time
}

// isCircuitOpen reports whether calls should be skipped. An open breaker
// moves to half-open once openTimeout has elapsed since the last failure.
func (b *breaker) isCircuitOpen() bool {
	if atomic.LoadInt32(&b.state) != StateOpen {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if time.Since(b.lastFailure) > openTimeout {
		atomic.StoreInt32(&b.state, StateHalfOpen)
		return false
	}
	return true
}

func (b *breaker) recordSuccess() {
	atomic.StoreInt64(&b.failureCount, 0)
	atomic.StoreInt32(&b.state, StateClosed)
}

func (b *breaker) recordFailure() {
	n := atomic.AddInt64(&b.failureCount, 1)
	b.mu.Lock()
	b.lastFailure = time.Now()
	b.mu.Unlock()
	if n >= maxFailures || atomic.LoadInt32(&b.state) == StateHalfOpen {
		atomic.StoreInt32(&b.state, StateOpen)
	}
}

// exponentialBackoff returns 1s, 2s, 4s... capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt >= 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "channel/connection is not open"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
