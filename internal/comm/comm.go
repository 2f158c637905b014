package comm

import (
	"encoding/json"
	"time"
)

type WSMessage struct {
	Type     string          `json:"type"` // e.g. "tag-event", "notify"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"`
}

// TagEvent is published on the tagging.events topic after every dispatch,
// successful or not, so live dashboards can follow scan activity.
type TagEvent struct {
	LogID        string    `json:"log_id"`
	UID          string    `json:"uid"`
	UserID       string    `json:"user_id"`
	UserRole     string    `json:"user_role"`
	DeviceID     string    `json:"device_id"`
	Location     string    `json:"location"`
	Method       string    `json:"method"`
	Status       string    `json:"status"`
	Success      bool      `json:"success"`
	Error        string    `json:"error,omitempty"`
	ProcessingMs float64   `json:"processing_ms"`
	Timestamp    time.Time `json:"timestamp"`
}

type NotifyMessage struct {
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type ServiceHeartbeat struct {
	ID        string    `json:"id"` // service id
	Timestamp time.Time `json:"timestamp"`
}
