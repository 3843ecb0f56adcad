package user

type Permission string

const (
	// Leave
	PermissionLeaveViewOwn     Permission = "leave.view_own"
	PermissionLeaveCreate      Permission = "leave.create"
	PermissionLeaveViewAll     Permission = "leave.view_all"
	PermissionLeaveApprove     Permission = "leave.approve"
	PermissionLeaveManageTypes Permission = "leave.manage_types"
	PermissionHolidayManage    Permission = "holiday.manage"

	// Time tracking
	PermissionTimeTrackOwn    Permission = "time.track_own"
	PermissionTimeViewAll     Permission = "time.view_all"
	PermissionTimeApprove     Permission = "time.approve"
	PermissionTimesheetOwn    Permission = "timesheet.manage_own"
	PermissionTimesheetReview Permission = "timesheet.review"

	// Organization
	PermissionOrgManage      Permission = "organization.manage"
	PermissionContractManage Permission = "contract.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveManageTypes,
		PermissionHolidayManage,
		PermissionTimeTrackOwn,
		PermissionTimeViewAll,
		PermissionTimeApprove,
		PermissionTimesheetOwn,
		PermissionTimesheetReview,
		PermissionOrgManage,
		PermissionContractManage,
	},
	RoleAdmin: {
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveManageTypes,
		PermissionHolidayManage,
		PermissionTimeTrackOwn,
		PermissionTimeViewAll,
		PermissionTimeApprove,
		PermissionTimesheetOwn,
		PermissionTimesheetReview,
		PermissionOrgManage,
		PermissionContractManage,
	},
	RoleManager: {
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveManageTypes,
		PermissionHolidayManage,
		PermissionTimeTrackOwn,
		PermissionTimeViewAll,
		PermissionTimeApprove,
		PermissionTimesheetOwn,
		PermissionTimesheetReview,
		PermissionOrgManage,
		PermissionContractManage,
	},
	RoleEmployee: {
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionTimeTrackOwn,
		PermissionTimesheetOwn,
	},
	RoleViewer: {
		PermissionLeaveViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
