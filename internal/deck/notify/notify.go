// Package notify delivers user-facing messages from the deck core to
// whatever surface presents them. The core only requires delivery; the
// presentation (toast, terminal line, test buffer) is the subscriber's
// concern.
package notify

import (
	"context"
	"sync"
)

// Severity describes the notification severity level.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARN"
	SeverityError   Severity = "ERROR"
)

// Notification is one user-facing message.
type Notification struct {
	Severity Severity
	Message  string
}

// Notifier delivers notifications to the user.
type Notifier interface {
	Notify(ctx context.Context, notification Notification)
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, notification Notification)

// Notify implements Notifier.
func (f Func) Notify(ctx context.Context, notification Notification) {
	if f == nil {
		return
	}
	f(ctx, notification)
}

// Broadcaster fans notifications out to every subscriber. The zero value is
// usable; a nil *Broadcaster is a silent no-op.
type Broadcaster struct {
	mu   sync.RWMutex
	subs []Notifier
}

// Subscribe registers a subscriber for every future notification.
func (b *Broadcaster) Subscribe(subscriber Notifier) {
	if b == nil || subscriber == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscriber)
}

// Notify implements Notifier by delivering to every subscriber in
// subscription order.
func (b *Broadcaster) Notify(ctx context.Context, notification Notification) {
	if b == nil {
		return
	}
	b.mu.RLock()
	subs := make([]Notifier, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, subscriber := range subs {
		subscriber.Notify(ctx, notification)
	}
}

// Info builds an info notification.
func Info(message string) Notification {
	return Notification{Severity: SeverityInfo, Message: message}
}

// Warning builds a warning notification.
func Warning(message string) Notification {
	return Notification{Severity: SeverityWarning, Message: message}
}

// Error builds an error notification.
func Error(message string) Notification {
	return Notification{Severity: SeverityError, Message: message}
}
