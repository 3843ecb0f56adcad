package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeInactive   = errors.New("employee is not active")
	ErrEmployeeCodeExists = errors.New("An employee with this employee ID already exists")
	ErrUserAlreadyLinked  = errors.New("This user already has an employee profile")
	ErrManagerCycle       = errors.New("An employee cannot report to themselves")
)
