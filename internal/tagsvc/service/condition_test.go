package service

import (
	"testing"

	"github.com/seiwa-edu/tagging-services/internal/tagsvc/models"
)

func TestEvaluateByRole(t *testing.T) {
	checker := &StubReservationChecker{Reserved: map[string]bool{
		"student_001": true,
	}}

	tests := []struct {
		name   string
		userID string
		role   models.Role
		want   string
	}{
		{"student with reservation", "student_001", models.RoleStudent, models.CondHasReservation},
		{"student without reservation", "student_002", models.RoleStudent, models.CondNoReservation},
		{"teacher", "teacher_001", models.RoleTeacher, models.CondCheckin},
		{"staff", "staff_001", models.RoleStaff, models.CondCheckin},
		{"master", "master_001", models.RoleMaster, models.CondDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewConditionEvaluator(checker)
			if got := e.Evaluate(tt.userID, tt.role); got != tt.want {
				t.Errorf("Evaluate(%s, %s) = %q, want %q", tt.userID, tt.role, got, tt.want)
			}
		})
	}
}

func TestEvaluateCachesWithinTTL(t *testing.T) {
	checker := &StubReservationChecker{Reserved: map[string]bool{
		"student_001": true,
	}}
	e := NewConditionEvaluator(checker)

	if got := e.Evaluate("student_001", models.RoleStudent); got != models.CondHasReservation {
		t.Fatalf("first Evaluate() = %q", got)
	}

	// Reservation state changes, but the cached condition still holds.
	checker.Reserved["student_001"] = false

	if got := e.Evaluate("student_001", models.RoleStudent); got != models.CondHasReservation {
		t.Errorf("second Evaluate() = %q, want cached %q", got, models.CondHasReservation)
	}
}

func TestNilCheckerDefaultsToNoReservation(t *testing.T) {
	e := NewConditionEvaluator(nil)
	if got := e.Evaluate("student_001", models.RoleStudent); got != models.CondNoReservation {
		t.Errorf("Evaluate() = %q, want %q", got, models.CondNoReservation)
	}
}
