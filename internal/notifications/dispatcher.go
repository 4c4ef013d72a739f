package notifications

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"
)

var ErrQueueFull = errors.New("notification queue full")

type DispatcherConfig struct {
	Concurrency int
	QueueSize   int
	MaxAttempts int
	// first retry delay; doubles per attempt up to MaxBackoff
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// Dispatcher sends confirmations in the background so a slow provider never
// holds up the registration response.
type Dispatcher struct {
	inner Notifier
	cfg   DispatcherConfig
	log   *slog.Logger
	queue chan SendRegistrationConfirmationInput
	wg    sync.WaitGroup
}

func NewDispatcher(inner Notifier, cfg DispatcherConfig, log *slog.Logger) *Dispatcher {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 2 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		inner: inner,
		cfg:   cfg,
		log:   log,
		queue: make(chan SendRegistrationConfirmationInput, cfg.QueueSize),
	}
}

// SendRegistrationConfirmation enqueues without blocking.
func (d *Dispatcher) SendRegistrationConfirmation(ctx context.Context, in SendRegistrationConfirmationInput) error {
	select {
	case d.queue <- in:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the workers. They drain the queue until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.cfg.Concurrency; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.loop(ctx)
		}()
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-d.queue:
			d.deliver(ctx, in)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, in SendRegistrationConfirmationInput) {
	for attempt := 0; attempt < d.cfg.MaxAttempts; attempt++ {
		err := d.inner.SendRegistrationConfirmation(ctx, in)
		if err == nil {
			return
		}

		d.log.WarnContext(ctx, "notification attempt failed",
			"registration_id", in.RegistrationID,
			"attempt", attempt+1,
			"err", err,
		)

		if attempt+1 == d.cfg.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(d.retryDelay(attempt, err)):
		}
	}

	d.log.ErrorContext(ctx, "notification dropped", "registration_id", in.RegistrationID, "email", in.Email)
}

// retryDelay waits out an open circuit instead of burning attempts against it.
func (d *Dispatcher) retryDelay(attempt int, err error) time.Duration {
	delay := d.backoff(attempt)

	var open *OpenCircuitError
	if errors.As(err, &open) && open.RetryIn > delay {
		return open.RetryIn
	}
	return delay
}

// backoff: attempt=0 => base, attempt=1 => 2*base, ... capped, plus up to 250ms jitter.
func (d *Dispatcher) backoff(attempt int) time.Duration {
	delay := time.Duration(float64(d.cfg.BaseBackoff) * math.Pow(2, float64(attempt)))

	if delay > d.cfg.MaxBackoff {
		delay = d.cfg.MaxBackoff
	}

	// small jitter to avoid thundering herd
	return delay + time.Duration(rand.Intn(250))*time.Millisecond
}
