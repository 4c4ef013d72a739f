package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingNotifier struct {
	mu       sync.Mutex
	failures int
	sent     []SendRegistrationConfirmationInput
	done     chan struct{}
}

func (r *recordingNotifier) SendRegistrationConfirmation(ctx context.Context, in SendRegistrationConfirmationInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failures > 0 {
		r.failures--
		return errors.New("temporary failure")
	}
	r.sent = append(r.sent, in)
	close(r.done)
	return nil
}

func TestDispatcherRetriesUntilDelivered(t *testing.T) {
	inner := &recordingNotifier{failures: 1, done: make(chan struct{})}
	d := NewDispatcher(inner, DispatcherConfig{
		Concurrency: 1,
		MaxAttempts: 3,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  time.Millisecond,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	if err := d.SendRegistrationConfirmation(ctx, SendRegistrationConfirmationInput{RegistrationID: "reg-1"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	select {
	case <-inner.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("notification was not delivered")
	}

	cancel()
	d.Wait()

	if len(inner.sent) != 1 || inner.sent[0].RegistrationID != "reg-1" {
		t.Fatalf("unexpected deliveries %+v", inner.sent)
	}
}

func TestDispatcherRejectsWhenQueueFull(t *testing.T) {
	d := NewDispatcher(&recordingNotifier{done: make(chan struct{})}, DispatcherConfig{QueueSize: 1}, nil)

	ctx := context.Background()
	if err := d.SendRegistrationConfirmation(ctx, SendRegistrationConfirmationInput{}); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if err := d.SendRegistrationConfirmation(ctx, SendRegistrationConfirmationInput{}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("got %v, want ErrQueueFull", err)
	}
}

func TestDispatcherBackoffIsCapped(t *testing.T) {
	d := NewDispatcher(nil, DispatcherConfig{BaseBackoff: time.Second, MaxBackoff: 3 * time.Second}, nil)

	if got := d.backoff(0); got < time.Second || got >= time.Second+250*time.Millisecond {
		t.Fatalf("attempt 0: got %v", got)
	}
	if got := d.backoff(5); got < 3*time.Second || got >= 3*time.Second+250*time.Millisecond {
		t.Fatalf("attempt 5: got %v, want capped at 3s", got)
	}
}

func TestDispatcherWaitsOutOpenCircuit(t *testing.T) {
	d := NewDispatcher(nil, DispatcherConfig{BaseBackoff: time.Second, MaxBackoff: time.Minute}, nil)

	open := &OpenCircuitError{RetryIn: 40 * time.Second}
	if got := d.retryDelay(0, open); got != 40*time.Second {
		t.Fatalf("got %v, want the circuit's 40s", got)
	}
	if got := d.retryDelay(0, errors.New("smtp timeout")); got >= 2*time.Second {
		t.Fatalf("plain failure: got %v, want base backoff", got)
	}
}
