package models

import "time"

type ActionKind string

const (
	ActionAttendance   ActionKind = "attendance"
	ActionNotification ActionKind = "notification"
	ActionPoints       ActionKind = "points"
	ActionReservation  ActionKind = "reservation"
	ActionCustom       ActionKind = "custom"
)

// Action is one step of a flow. Delay is honored before the action runs,
// RetryCount is how many additional attempts a failing action gets.
type Action struct {
	Kind       ActionKind             `json:"kind"`
	Params     map[string]interface{} `json:"params,omitempty"`
	Delay      time.Duration          `json:"delay,omitempty"`
	RetryCount int                    `json:"retry_count,omitempty"`
}

// Condition keys produced by the condition evaluator.
const (
	CondHasReservation = "has_reservation"
	CondNoReservation  = "no_reservation"
	CondCheckin        = "checkin"
	CondDefault        = "default"
)

// ActionFlow matches a (role, condition) pair; among matching flows the
// highest priority wins.
type ActionFlow struct {
	ID        string                 `json:"id"`
	Role      Role                   `json:"role"`
	Condition string                 `json:"condition"`
	Actions   []Action               `json:"actions"`
	UIHint    map[string]interface{} `json:"ui_hint,omitempty"`
	Priority  int                    `json:"priority"`
}
