package models

import "time"

type AttendanceStatus string

const (
	StatusEarly   AttendanceStatus = "early"
	StatusPresent AttendanceStatus = "present"
	StatusLate    AttendanceStatus = "late"
	StatusAbsent  AttendanceStatus = "absent"
)

// TaggingLog records one dispatch attempt. Append-only, never mutated
// after creation.
type TaggingLog struct {
	ID             string            `json:"id"`
	UID            string            `json:"uid"`
	UserID         string            `json:"user_id,omitempty"`
	UserRole       Role              `json:"user_role,omitempty"`
	DeviceID       string            `json:"device_id"`
	DeviceLocation string            `json:"device_location,omitempty"`
	Method         TagMethod         `json:"method"`
	Timestamp      time.Time         `json:"timestamp"`
	Success        bool              `json:"success"`
	ErrorMessage   string            `json:"error_message,omitempty"`
	Status         AttendanceStatus  `json:"status,omitempty"`
	ProcessingMs   float64           `json:"processing_ms"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// LogFilter narrows GetLogs / GetTaggingStats queries. Zero values match all.
type LogFilter struct {
	UserID    string
	UserRole  Role
	DeviceID  string
	StartDate *time.Time
	EndDate   *time.Time
}

func (f LogFilter) Matches(l *TaggingLog) bool {
	if f.UserID != "" && l.UserID != f.UserID {
		return false
	}
	if f.UserRole != "" && l.UserRole != f.UserRole {
		return false
	}
	if f.DeviceID != "" && l.DeviceID != f.DeviceID {
		return false
	}
	if f.StartDate != nil && l.Timestamp.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && l.Timestamp.After(*f.EndDate) {
		return false
	}
	return true
}

// TaggingStats aggregates log records for reporting.
type TaggingStats struct {
	Total     int                      `json:"total"`
	Succeeded int                      `json:"succeeded"`
	Failed    int                      `json:"failed"`
	ByRole    map[Role]int             `json:"by_role"`
	ByDevice  map[string]int           `json:"by_device"`
	ByStatus  map[AttendanceStatus]int `json:"by_status"`
}
