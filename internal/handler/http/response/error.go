package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/accabog/rhr-sub000/internal/domain/auth"
	"github.com/accabog/rhr-sub000/internal/domain/contract"
	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/domain/master/department"
	"github.com/accabog/rhr-sub000/internal/domain/master/position"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/domain/timesheet"
	"github.com/accabog/rhr-sub000/internal/domain/timetracking"
	"github.com/accabog/rhr-sub000/internal/domain/user"
	"github.com/accabog/rhr-sub000/internal/pkg/validator"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var transitionErr *workflow.TransitionError
	if errors.As(err, &transitionErr) {
		BadRequest(w, transitionErr.Error())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Given token not valid for any token type")

	// Tenant and role errors
	case errors.Is(err, tenant.ErrTenantMismatch):
		Forbidden(w, "Tenant header does not match the authenticated tenant")
	case errors.Is(err, tenant.ErrMembershipNotFound):
		Forbidden(w, "You are not a member of this tenant")
	case errors.Is(err, tenant.ErrTenantNotFound):
		NotFound(w, "Tenant not found")
	case errors.Is(err, tenant.ErrNoEmployeeProfile):
		NotFound(w, tenant.ErrNoEmployeeProfile.Error())
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "You do not have permission to perform this action.")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, employee.ErrEmployeeCodeExists.Error())
	case errors.Is(err, employee.ErrUserAlreadyLinked):
		Conflict(w, employee.ErrUserAlreadyLinked.Error())
	case errors.Is(err, employee.ErrManagerCycle):
		BadRequest(w, employee.ErrManagerCycle.Error())

	// Organization errors
	case errors.Is(err, department.ErrDepartmentNotFound):
		NotFound(w, department.ErrDepartmentNotFound.Error())
	case errors.Is(err, department.ErrDepartmentCodeExists):
		Conflict(w, department.ErrDepartmentCodeExists.Error())
	case errors.Is(err, department.ErrParentCycle):
		BadRequest(w, department.ErrParentCycle.Error())
	case errors.Is(err, position.ErrPositionNotFound):
		NotFound(w, position.ErrPositionNotFound.Error())

	// Contract domain errors
	case errors.Is(err, contract.ErrContractNotFound):
		NotFound(w, contract.ErrContractNotFound.Error())
	case errors.Is(err, contract.ErrContractTypeNotFound):
		NotFound(w, contract.ErrContractTypeNotFound.Error())
	case errors.Is(err, contract.ErrContractTypeCodeExists):
		Conflict(w, contract.ErrContractTypeCodeExists.Error())
	case errors.Is(err, contract.ErrContractTypeInactive):
		BadRequest(w, contract.ErrContractTypeInactive.Error())
	case errors.Is(err, contract.ErrContractNotEditable):
		BadRequest(w, contract.ErrContractNotEditable.Error())

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, leave.ErrLeaveTypeNotFound.Error())
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, leave.ErrLeaveRequestNotFound.Error())
	case errors.Is(err, leave.ErrLeaveBalanceNotFound):
		NotFound(w, leave.ErrLeaveBalanceNotFound.Error())
	case errors.Is(err, leave.ErrHolidayNotFound):
		NotFound(w, leave.ErrHolidayNotFound.Error())
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, leave.ErrInsufficientBalance.Error())
	case errors.Is(err, leave.ErrExceedsMaxConsecutive):
		BadRequest(w, leave.ErrExceedsMaxConsecutive.Error())
	case errors.Is(err, leave.ErrOverlappingRequest):
		BadRequest(w, leave.ErrOverlappingRequest.Error())
	case errors.Is(err, leave.ErrLeaveTypeInactive):
		BadRequest(w, leave.ErrLeaveTypeInactive.Error())
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, leave.ErrNotRequestOwner.Error())
	case errors.Is(err, leave.ErrLeaveTypeCodeExists):
		Conflict(w, leave.ErrLeaveTypeCodeExists.Error())
	case errors.Is(err, leave.ErrHolidayExists):
		Conflict(w, leave.ErrHolidayExists.Error())

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrTimesheetNotFound):
		NotFound(w, timesheet.ErrTimesheetNotFound.Error())
	case errors.Is(err, timesheet.ErrTimesheetExists):
		BadRequest(w, timesheet.ErrTimesheetExists.Error())
	case errors.Is(err, timesheet.ErrNotTimesheetOwner):
		Forbidden(w, timesheet.ErrNotTimesheetOwner.Error())

	// Time tracking domain errors
	case errors.Is(err, timetracking.ErrTimeEntryNotFound):
		NotFound(w, timetracking.ErrTimeEntryNotFound.Error())
	case errors.Is(err, timetracking.ErrEntryTypeNotFound):
		NotFound(w, timetracking.ErrEntryTypeNotFound.Error())
	case errors.Is(err, timetracking.ErrAlreadyClockedIn):
		BadRequest(w, timetracking.ErrAlreadyClockedIn.Error())
	case errors.Is(err, timetracking.ErrNotClockedIn):
		BadRequest(w, timetracking.ErrNotClockedIn.Error())
	case errors.Is(err, timetracking.ErrEntryNotCompleted):
		BadRequest(w, timetracking.ErrEntryNotCompleted.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

