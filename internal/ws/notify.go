package ws

import (
	"encoding/json"
	"time"
)

// Event is the envelope every push shares.
type Event struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Notifier adapts the hub to the EventFunc callbacks the swipe engine and
// aggregator emit on.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

// Notify marshals and broadcasts one event. Safe on a nil receiver so
// callers can wire it unconditionally.
func (n *Notifier) Notify(event string, payload any) {
	if n == nil || n.hub == nil {
		return
	}
	b, err := json.Marshal(Event{
		Type:      event,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
