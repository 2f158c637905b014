package models

import "time"

// UIDRegistration binds a scanned card or QR identifier to a portal user.
// A registration takes part in dispatch only once it has been approved.
type UIDRegistration struct {
	ID               string     `json:"id"`
	UID              string     `json:"uid"`
	UserID           string     `json:"user_id"`
	DeviceType       string     `json:"device_type"` // card | phone | qr
	DeviceName       string     `json:"device_name"`
	IsPrimary        bool       `json:"is_primary"`
	IsApproved       bool       `json:"is_approved"`
	RegisteredAt     time.Time  `json:"registered_at"`
	LastUsedAt       *time.Time `json:"last_used_at,omitempty"`
	UsageCount       int        `json:"usage_count"`
	LastUsedLocation string     `json:"last_used_location,omitempty"`
}
