// Package notify delivers order messages to consumers and farmers. Every
// delivery is best effort: the Dispatcher logs failures and never retries.
package notify

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
)

// Message is a single email-style notification.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Notifier sends one message to its recipient.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, msg Message) error

func (f NotifierFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

// LogNotifier writes messages to the process log instead of delivering them.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, msg Message) error {
	log.Printf("notify: to=%s subject=%q", MaskEmail(msg.To), msg.Subject)
	return nil
}

// Dispatcher sends messages in the background so callers never wait on
// delivery.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewDispatcher(notifier Notifier, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{notifier: notifier, timeout: timeout}
}

// Dispatch hands msgs to the notifier on a separate goroutine. Each send
// gets its own timeout independent of any request context.
func (d *Dispatcher) Dispatch(msgs ...Message) {
	for _, msg := range msgs {
		if strings.TrimSpace(msg.To) == "" {
			log.Printf("notify: skipping %q, recipient has no address", msg.Subject)
			continue
		}
		d.wg.Add(1)
		go func(msg Message) {
			defer d.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()
			if err := d.notifier.Send(ctx, msg); err != nil {
				log.Printf("notify: failed to send %q to %s: %v", msg.Subject, MaskEmail(msg.To), err)
			}
		}(msg)
	}
}

// Go runs fn in the background under the same bookkeeping as Dispatch, for
// work that has to look things up before it knows what to send.
func (d *Dispatcher) Go(fn func(ctx context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		fn(ctx)
	}()
}

// Wait blocks until every dispatched message has been attempted.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// MaskEmail hides most of the local part of an address for logging.
func MaskEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 {
		return "****"
	}
	if len(parts[0]) > 3 {
		return parts[0][:3] + "****@" + parts[1]
	}
	return "****@" + parts[1]
}

// MaskMobile keeps only the last four digits of a phone number.
func MaskMobile(mobile string) string {
	if len(mobile) > 4 {
		return "****" + mobile[len(mobile)-4:]
	}
	return "****"
}
