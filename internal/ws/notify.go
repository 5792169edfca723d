package ws

import (
	"encoding/json"
	"time"

	"jamco/internal/domain/event"
)

var _ event.Notifier = (*Hub)(nil)

type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// Notify pushes an event to every open connection of userID. Delivery is
// best-effort: users without a connection simply miss it.
func (h *Hub) Notify(userID int64, eventType string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(Event{
		Type:      eventType,
		Data:      payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.logf("WS encode error | type=%s err=%v", eventType, err)
		return
	}
	h.send(userID, b)
}
