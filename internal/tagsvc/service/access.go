package service

import "github.com/seiwa-edu/tagging-services/internal/tagsvc/models"

// Static authorization matrix consumed by the portal layer. Pages and
// data types are portal identifiers, not engine concepts.

var pageAccess = map[models.Role]map[string]bool{
	models.RoleStudent: {
		"dashboard":   true,
		"my_logs":     true,
		"my_cards":    true,
		"reservation": true,
	},
	models.RoleTeacher: {
		"dashboard":  true,
		"my_logs":    true,
		"my_cards":   true,
		"class_logs": true,
		"students":   true,
		"reviews":    true,
	},
	models.RoleStaff: {
		"dashboard":    true,
		"my_logs":      true,
		"my_cards":     true,
		"class_logs":   true,
		"students":     true,
		"devices":      true,
		"uid_approval": true,
		"reminders":    true,
	},
	models.RoleMaster: {
		"dashboard":    true,
		"my_logs":      true,
		"my_cards":     true,
		"class_logs":   true,
		"students":     true,
		"teachers":     true,
		"devices":      true,
		"uid_approval": true,
		"reminders":    true,
		"reviews":      true,
		"settings":     true,
	},
}

// functionAccess narrows specific page functions below full page access.
var functionAccess = map[models.Role]map[string]bool{
	models.RoleStaff: {
		"students.export_csv": true,
		"devices.reboot":      true,
	},
	models.RoleMaster: {
		"students.export_csv": true,
		"students.delete":     true,
		"devices.reboot":      true,
		"settings.edit":       true,
	},
}

var dataAccess = map[models.Role]map[string]bool{
	models.RoleStudent: {
		"own_logs":  true,
		"own_cards": true,
	},
	models.RoleTeacher: {
		"own_logs":     true,
		"own_cards":    true,
		"student_logs": true,
		"student_list": true,
	},
	models.RoleStaff: {
		"own_logs":      true,
		"own_cards":     true,
		"student_logs":  true,
		"student_list":  true,
		"device_list":   true,
		"registrations": true,
	},
	models.RoleMaster: {
		"own_logs":      true,
		"own_cards":     true,
		"student_logs":  true,
		"student_list":  true,
		"teacher_list":  true,
		"device_list":   true,
		"registrations": true,
		"settings":      true,
	},
}

// CheckPermission reports whether a role may open a page and, when
// functionName is given, use that function on it.
func CheckPermission(role models.Role, page, functionName string) bool {
	pages, ok := pageAccess[role]
	if !ok || !pages[page] {
		return false
	}
	if functionName == "" {
		return true
	}
	return functionAccess[role][page+"."+functionName]
}

// CheckDataAccess reports whether a role may read a data type.
func CheckDataAccess(role models.Role, dataType string) bool {
	return dataAccess[role][dataType]
}
