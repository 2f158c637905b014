package models

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleStaff   Role = "staff"
	RoleMaster  Role = "master"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleStaff, RoleMaster:
		return true
	}
	return false
}

// RolePermissions is static reference data, exactly one record per role.
type RolePermissions struct {
	Role             Role        `json:"role"`
	CanTag           bool        `json:"can_tag"`
	CanViewLogs      bool        `json:"can_view_logs"`
	CanManageDevices bool        `json:"can_manage_devices"`
	CanApproveUID    bool        `json:"can_approve_uid"`
	AllowedMethods   []TagMethod `json:"allowed_methods"`
	MaxDailyTags     int         `json:"max_daily_tags"`
}

func (p *RolePermissions) MethodAllowed(m TagMethod) bool {
	for _, method := range p.AllowedMethods {
		if method == m {
			return true
		}
	}
	return false
}
