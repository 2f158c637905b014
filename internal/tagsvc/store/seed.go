package store

import (
	"time"

	"github.com/seiwa-edu/tagging-services/internal/tagsvc/models"
)

// Seed data stands in for the production database; how it is sourced is
// outside this core.

func seedDevices(s *DeviceStore) {
	now := time.Now()
	devices := []*models.Device{
		{
			ID:       "dev-entrance-01",
			Name:     "Entrance Tablet",
			Kind:     models.KindTablet,
			Location: "entrance hall",
			Methods: []models.TagMethod{
				models.MethodFelica, models.MethodNFC, models.MethodQR,
			},
			Active:     true,
			LastSeen:   now,
			Connection: "online",
		},
		{
			ID:       "dev-staffroom-01",
			Name:     "Staff Room Desktop",
			Kind:     models.KindDesktop,
			Location: "staff room",
			Methods: []models.TagMethod{
				models.MethodFelica, models.MethodNFC,
			},
			Active:     true,
			LastSeen:   now,
			Connection: "online",
		},
		{
			ID:       "dev-mobile-01",
			Name:     "Roaming Check-in Phone",
			Kind:     models.KindMobile,
			Location: "roaming",
			Methods: []models.TagMethod{
				models.MethodNFC, models.MethodQR,
			},
			Active:     true,
			LastSeen:   now,
			Connection: "online",
		},
		{
			// decommissioned terminal, kept for log joins
			ID:       "dev-gym-01",
			Name:     "Gymnasium Reader",
			Kind:     models.KindTablet,
			Location: "gymnasium",
			Methods: []models.TagMethod{
				models.MethodFelica,
			},
			Active:     false,
			LastSeen:   now.Add(-72 * time.Hour),
			Connection: "offline",
		},
	}

	for _, d := range devices {
		s.Put(d)
	}
}

func seedRegistrations(s *RegistrationStore) {
	registered := time.Now().Add(-30 * 24 * time.Hour)
	regs := []*models.UIDRegistration{
		{
			ID:           "reg-0001",
			UID:          "FE-0012AB34",
			UserID:       "student_001",
			DeviceType:   "card",
			DeviceName:   "Student ID Card",
			IsPrimary:    true,
			IsApproved:   true,
			RegisteredAt: registered,
		},
		{
			ID:           "reg-0002",
			UID:          "FE-0034CD56",
			UserID:       "teacher_001",
			DeviceType:   "card",
			DeviceName:   "Teacher ID Card",
			IsPrimary:    true,
			IsApproved:   true,
			RegisteredAt: registered,
		},
		{
			ID:           "reg-0003",
			UID:          "QR-STF-0001",
			UserID:       "staff_001",
			DeviceType:   "qr",
			DeviceName:   "Staff QR Badge",
			IsPrimary:    true,
			IsApproved:   true,
			RegisteredAt: registered,
		},
		{
			ID:           "reg-0004",
			UID:          "FE-0077AA11",
			UserID:       "master_001",
			DeviceType:   "card",
			DeviceName:   "Admin Card",
			IsPrimary:    true,
			IsApproved:   true,
			RegisteredAt: registered,
		},
		{
			// pending approval, must not resolve
			ID:           "reg-0005",
			UID:          "FE-0099EE77",
			UserID:       "student_099",
			DeviceType:   "card",
			DeviceName:   "Replacement Card",
			IsApproved:   false,
			RegisteredAt: time.Now().Add(-2 * time.Hour),
		},
	}

	for _, r := range regs {
		s.Add(r)
	}
}

func seedPermissions(s *PermissionStore) {
	allMethods := []models.TagMethod{
		models.MethodFelica, models.MethodNFC, models.MethodQR,
	}

	perms := []*models.RolePermissions{
		{
			Role:           models.RoleStudent,
			CanTag:         true,
			AllowedMethods: allMethods,
			MaxDailyTags:   5,
		},
		{
			Role:           models.RoleTeacher,
			CanTag:         true,
			CanViewLogs:    true,
			AllowedMethods: allMethods,
			MaxDailyTags:   20,
		},
		{
			Role:             models.RoleStaff,
			CanTag:           true,
			CanViewLogs:      true,
			CanManageDevices: true,
			CanApproveUID:    true,
			AllowedMethods:   allMethods,
			MaxDailyTags:     30,
		},
		{
			Role:             models.RoleMaster,
			CanTag:           true,
			CanViewLogs:      true,
			CanManageDevices: true,
			CanApproveUID:    true,
			AllowedMethods:   allMethods,
			MaxDailyTags:     100,
		},
	}

	for _, p := range perms {
		s.Put(p)
	}
}

func seedFlows(s *FlowStore) {
	flows := []*models.ActionFlow{
		{
			ID:        "flow-student-reserved",
			Role:      models.RoleStudent,
			Condition: models.CondHasReservation,
			Priority:  10,
			Actions: []models.Action{
				{Kind: models.ActionAttendance},
				{
					Kind:       models.ActionNotification,
					Params:     map[string]interface{}{"template": "checkin_reserved"},
					RetryCount: 2,
				},
				{
					Kind:   models.ActionPoints,
					Params: map[string]interface{}{"amount": "10", "reason": "reserved visit"},
				},
				{Kind: models.ActionReservation},
			},
			UIHint: map[string]interface{}{"screen": "welcome_reserved"},
		},
		{
			ID:        "flow-student-walkin",
			Role:      models.RoleStudent,
			Condition: models.CondNoReservation,
			Priority:  5,
			Actions: []models.Action{
				{Kind: models.ActionAttendance},
				{
					Kind:       models.ActionNotification,
					Params:     map[string]interface{}{"template": "checkin_walkin"},
					RetryCount: 2,
				},
				{
					Kind:   models.ActionPoints,
					Params: map[string]interface{}{"amount": "5", "reason": "walk-in visit"},
				},
			},
			UIHint: map[string]interface{}{"screen": "welcome"},
		},
		{
			ID:        "flow-teacher-checkin",
			Role:      models.RoleTeacher,
			Condition: models.CondCheckin,
			Priority:  10,
			Actions: []models.Action{
				{Kind: models.ActionAttendance},
				{
					Kind:       models.ActionNotification,
					Params:     map[string]interface{}{"template": "staff_checkin"},
					RetryCount: 1,
				},
			},
		},
		{
			ID:        "flow-staff-checkin",
			Role:      models.RoleStaff,
			Condition: models.CondCheckin,
			Priority:  10,
			Actions: []models.Action{
				{Kind: models.ActionAttendance},
			},
		},
		{
			ID:        "flow-master-default",
			Role:      models.RoleMaster,
			Condition: models.CondDefault,
			Priority:  1,
			Actions: []models.Action{
				{
					Kind:   models.ActionCustom,
					Params: map[string]interface{}{"op": "admin_walkthrough"},
				},
			},
		},
	}

	for _, f := range flows {
		s.Add(f)
	}
}
