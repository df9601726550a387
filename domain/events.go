package domain

import (
	"sync"
	"time"
)

// SessionEventType defines the type of session event
type SessionEventType string

const (
	// SessionTerminatedEvent fires when the request pipeline gives up on the
	// stored credential: refresh failed, or an auth failure occurred with no
	// refresh token stored.
	SessionTerminatedEvent SessionEventType = "SESSION_TERMINATED"
)

// SessionEvent describes a session lifecycle signal
type SessionEvent struct {
	Type      SessionEventType
	Reason    string
	Timestamp time.Time
}

// SessionBroadcaster delivers session events to registered subscribers.
// Subscribers are invoked synchronously, in registration order.
type SessionBroadcaster struct {
	mu   sync.Mutex
	subs []func(SessionEvent)
}

// NewSessionBroadcaster creates an empty broadcaster
func NewSessionBroadcaster() *SessionBroadcaster {
	return &SessionBroadcaster{}
}

// Subscribe registers fn to be called for every published event
func (b *SessionBroadcaster) Subscribe(fn func(SessionEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Terminate publishes a session-terminated event
func (b *SessionBroadcaster) Terminate(reason string) {
	b.Publish(SessionEvent{
		Type:      SessionTerminatedEvent,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
}

// Publish delivers an event to all subscribers
func (b *SessionBroadcaster) Publish(event SessionEvent) {
	b.mu.Lock()
	subs := make([]func(SessionEvent), len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}
