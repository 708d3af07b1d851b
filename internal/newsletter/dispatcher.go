// Package newsletter implements the bulk dispatch loop: one invocation
// covers every current subscriber and reports an exact success/failure
// tally.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/smallcapsignal/signal-backend/internal/mailer"
	"github.com/smallcapsignal/signal-backend/internal/pkg/logger"
	"github.com/smallcapsignal/signal-backend/internal/subscribers"
)

var (
	// ErrNoSubscribers is returned when a dispatch is requested against
	// an empty list. Distinct from a dispatch where every send failed.
	ErrNoSubscribers = errors.New("no subscribers found")
	// ErrDispatchInProgress is returned when a dispatch is already
	// running. Overlapping dispatches would double-deliver to the
	// entire list.
	ErrDispatchInProgress = errors.New("newsletter dispatch already in progress")
)

// SubscriberSource lists the current recipients of a dispatch.
type SubscriberSource interface {
	List(ctx context.Context) ([]subscribers.Subscriber, error)
}

// Result is the tally of one dispatch invocation. Not persisted.
type Result struct {
	Message          string `json:"message"`
	SuccessCount     int    `json:"success_count"`
	ErrorCount       int    `json:"error_count"`
	TotalSubscribers int    `json:"total_subscribers"`
}

// Dispatcher sends one message to every subscriber. Per-recipient
// transport failures are counted, never propagated: all N recipients are
// attempted exactly once regardless of earlier failures.
type Dispatcher struct {
	subs        SubscriberSource
	sender      mailer.Sender
	concurrency int
	inFlight    atomic.Bool
}

// NewDispatcher creates a dispatcher. concurrency bounds the send
// worker pool; values below 1 mean sequential delivery.
func NewDispatcher(subs SubscriberSource, sender mailer.Sender, concurrency int) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{subs: subs, sender: sender, concurrency: concurrency}
}

// Dispatch sends subject/body to every current subscriber and returns
// the tally. Precondition failures (another dispatch running, list
// fetch error, empty list) abort the whole batch; transport failures
// after that point only move the tally.
func (d *Dispatcher) Dispatch(ctx context.Context, subject, body string) (*Result, error) {
	if !d.inFlight.CompareAndSwap(false, true) {
		return nil, ErrDispatchInProgress
	}
	defer d.inFlight.Store(false)

	subs, err := d.subs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	if len(subs) == 0 {
		return nil, ErrNoSubscribers
	}

	logger.Info("newsletter dispatch started",
		"recipients", len(subs), "workers", d.concurrency)

	var success, failure int64
	jobs := make(chan string)
	var wg sync.WaitGroup

	workers := d.concurrency
	if workers > len(subs) {
		workers = len(subs)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for email := range jobs {
				msg := mailer.Message{To: email, Subject: subject, Body: body}
				if err := d.sender.Send(ctx, msg); err != nil {
					atomic.AddInt64(&failure, 1)
					logger.Warn("newsletter send failed", "subscriber", email, "error", err)
					continue
				}
				atomic.AddInt64(&success, 1)
			}
		}()
	}

	for _, sub := range subs {
		jobs <- sub.Email
	}
	close(jobs)
	wg.Wait()

	res := &Result{
		Message:          fmt.Sprintf("Newsletter sent successfully to %d subscribers", success),
		SuccessCount:     int(success),
		ErrorCount:       int(failure),
		TotalSubscribers: len(subs),
	}

	logger.Info("newsletter dispatch finished",
		"success", res.SuccessCount, "failed", res.ErrorCount, "total", res.TotalSubscribers)

	return res, nil
}
