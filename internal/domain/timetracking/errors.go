package timetracking

import "errors"

var (
	ErrTimeEntryNotFound = errors.New("Time entry not found")
	ErrAlreadyClockedIn  = errors.New("Already clocked in")
	ErrNotClockedIn      = errors.New("Not currently clocked in")
	ErrEntryTypeNotFound = errors.New("Time entry type not found")
	ErrEntryNotCompleted = errors.New("Only completed entries can be approved")
)
