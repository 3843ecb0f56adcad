package tenant

import "errors"

var (
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrMembershipNotFound = errors.New("you are not a member of this tenant")
	ErrTenantMismatch     = errors.New("tenant header does not match the authenticated tenant")
	ErrNoEmployeeProfile  = errors.New("No employee profile found")
)
