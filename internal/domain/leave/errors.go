package leave

import "errors"

var (
	ErrLeaveTypeNotFound     = errors.New("Leave type not found")
	ErrLeaveTypeInactive     = errors.New("Leave type is not active")
	ErrLeaveTypeCodeExists   = errors.New("Leave type code already exists")
	ErrLeaveRequestNotFound  = errors.New("Leave request not found")
	ErrLeaveBalanceNotFound  = errors.New("Leave balance not found")
	ErrInsufficientBalance   = errors.New("Insufficient leave balance")
	ErrExceedsMaxConsecutive = errors.New("Request exceeds the maximum consecutive days for this leave type")
	ErrOverlappingRequest    = errors.New("You already have a leave request for these dates")
	ErrNotRequestOwner       = errors.New("You can only cancel your own requests")
	ErrHolidayNotFound       = errors.New("Holiday not found")
	ErrHolidayExists         = errors.New("Holiday already exists for this date")
)
