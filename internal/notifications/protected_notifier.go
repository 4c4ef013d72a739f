package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker open")

// OpenCircuitError is returned while the breaker rejects sends. RetryIn tells
// the dispatcher how long to hold a confirmation before trying again.
type OpenCircuitError struct {
	RetryIn time.Duration
}

func (e *OpenCircuitError) Error() string {
	return fmt.Sprintf("%s, retry in %s", ErrCircuitOpen, e.RetryIn.Round(time.Second))
}

func (e *OpenCircuitError) Is(target error) bool { return target == ErrCircuitOpen }

type BreakerState string

const (
	StateClosed   BreakerState = "closed"
	StateOpen     BreakerState = "open"
	StateHalfOpen BreakerState = "half_open"
)

type ProtectedNotifierConfig struct {
	Timeout          time.Duration // per send
	FailureThreshold int           // consecutive failures before opening
	Cooldown         time.Duration // open time before a trial send
	HalfOpenMaxCalls int
	// OnStateChange runs outside the lock, e.g. to log provider outages.
	OnStateChange func(from, to BreakerState)
}

// ProtectedNotifier bounds every send with a timeout and stops calling the mail
// provider after repeated failures, so a provider outage costs one timeout per
// cooldown instead of one per confirmation.
type ProtectedNotifier struct {
	inner Notifier
	cfg   ProtectedNotifierConfig
	now   func() time.Time

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	trials   int
}

func NewProtectedNotifier(inner Notifier, cfg ProtectedNotifierConfig) *ProtectedNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 15 * time.Second
	}
	if cfg.HalfOpenMaxCalls <= 0 {
		cfg.HalfOpenMaxCalls = 1
	}

	return &ProtectedNotifier{
		inner: inner,
		cfg:   cfg,
		now:   time.Now,
		state: StateClosed,
	}
}

func (n *ProtectedNotifier) State() BreakerState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

func (n *ProtectedNotifier) SendRegistrationConfirmation(ctx context.Context, in SendRegistrationConfirmationInput) error {
	if wait, ok := n.acquire(); !ok {
		return &OpenCircuitError{RetryIn: wait}
	}

	sendCtx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	err := n.inner.SendRegistrationConfirmation(sendCtx, in)
	n.release(err)
	return err
}

// acquire reports whether a send may go out, or how long until the next trial.
func (n *ProtectedNotifier) acquire() (time.Duration, bool) {
	n.mu.Lock()
	from := n.state

	var (
		wait time.Duration
		ok   = true
	)
	switch n.state {
	case StateOpen:
		if elapsed := n.now().Sub(n.openedAt); elapsed < n.cfg.Cooldown {
			wait, ok = n.cfg.Cooldown-elapsed, false
		} else {
			n.state, n.trials = StateHalfOpen, 1
		}
	case StateHalfOpen:
		if n.trials >= n.cfg.HalfOpenMaxCalls {
			wait, ok = n.cfg.Cooldown, false
		} else {
			n.trials++
		}
	}

	to := n.state
	n.mu.Unlock()

	n.notify(from, to)
	return wait, ok
}

func (n *ProtectedNotifier) release(err error) {
	n.mu.Lock()
	from := n.state

	if n.state == StateHalfOpen && n.trials > 0 {
		n.trials--
	}

	switch {
	case err == nil:
		n.failures = 0
		n.state = StateClosed
	case n.state == StateHalfOpen:
		n.failures++
		n.state, n.openedAt = StateOpen, n.now()
	default:
		n.failures++
		if n.failures >= n.cfg.FailureThreshold {
			n.state, n.openedAt = StateOpen, n.now()
		}
	}

	to := n.state
	n.mu.Unlock()

	n.notify(from, to)
}

func (n *ProtectedNotifier) notify(from, to BreakerState) {
	if from != to && n.cfg.OnStateChange != nil {
		n.cfg.OnStateChange(from, to)
	}
}
