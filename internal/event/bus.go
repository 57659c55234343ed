// Package event carries outbound access notifications. The core writes to
// a one-method Publisher so it stays decoupled from any particular pub/sub
// runtime; consumers (counters, last-access indicators) subscribe to a Bus.
package event

import (
	"sync"
	"time"
)

// Event types.
const (
	// TypeValidated is emitted on every granted validation attempt.
	TypeValidated = "credential_validated"

	// TypeFailed is emitted on every denied validation attempt.
	TypeFailed = "credential_failed"
)

// Event describes one validation attempt.
type Event struct {
	// Type is TypeValidated or TypeFailed.
	Type string `json:"type"`

	// UserID identifies the matched user; empty when no user matched.
	UserID string `json:"user_id,omitempty"`

	// UserName is the matched user's display name; empty when no user matched.
	UserName string `json:"user_name,omitempty"`

	// Source is the caller-supplied origin of the attempt.
	Source string `json:"source"`

	// Reason is the machine decision code.
	Reason string `json:"reason"`

	// Timestamp is when the attempt was evaluated (UTC).
	Timestamp time.Time `json:"timestamp"`
}

// Publisher receives every validation event.
type Publisher interface {
	Publish(Event)
}

// Bus is a subscriber-list Publisher. Fan-out is synchronous; subscribers
// that need to block must hand off to their own goroutine.
type Bus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a callback for all future events.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Publish delivers the event to every subscriber in registration order.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}

// Nop is a Publisher that discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(Event) {}
