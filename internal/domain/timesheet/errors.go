package timesheet

import "errors"

var (
	ErrTimesheetNotFound = errors.New("Timesheet not found")
	ErrTimesheetExists   = errors.New("Timesheet already exists for this period")
	ErrNotTimesheetOwner = errors.New("You can only modify your own timesheets")
)
