package department

import "errors"

var (
	ErrDepartmentNotFound   = errors.New("Department not found")
	ErrDepartmentCodeExists = errors.New("A department with this code already exists")
	ErrParentCycle          = errors.New("A department cannot be nested under itself")
)
