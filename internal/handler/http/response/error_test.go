package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/accabog/rhr-sub000/internal/domain/auth"
	"github.com/accabog/rhr-sub000/internal/domain/contract"
	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/domain/master/department"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/domain/timesheet"
	"github.com/accabog/rhr-sub000/internal/domain/timetracking"
	"github.com/accabog/rhr-sub000/internal/domain/user"
	"github.com/accabog/rhr-sub000/internal/pkg/validator"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_Detail(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{"manager", user.ErrManagerAccessRequired, http.StatusForbidden, "Manager access required"},
		{"tenant mismatch", tenant.ErrTenantMismatch, http.StatusForbidden, "Tenant header does not match the authenticated tenant"},
		{"no employee", tenant.ErrNoEmployeeProfile, http.StatusNotFound, "No employee profile found"},
		{"balance", leave.ErrInsufficientBalance, http.StatusBadRequest, "Insufficient leave balance"},
		{"wrapped not found", fmt.Errorf("failed to get leave request: %w", leave.ErrLeaveRequestNotFound), http.StatusNotFound, "Leave request not found"},
		{"not owner", leave.ErrNotRequestOwner, http.StatusForbidden, "You can only cancel your own requests"},
		{"code exists", leave.ErrLeaveTypeCodeExists, http.StatusConflict, "Leave type code already exists"},
		{"timesheet exists", timesheet.ErrTimesheetExists, http.StatusBadRequest, "Timesheet already exists for this period"},
		{"clocked in", timetracking.ErrAlreadyClockedIn, http.StatusBadRequest, "Already clocked in"},
		{"department code", department.ErrDepartmentCodeExists, http.StatusConflict, "A department with this code already exists"},
		{"department cycle", department.ErrParentCycle, http.StatusBadRequest, "A department cannot be nested under itself"},
		{"user linked", employee.ErrUserAlreadyLinked, http.StatusConflict, "This user already has an employee profile"},
		{"manager cycle", employee.ErrManagerCycle, http.StatusBadRequest, "An employee cannot report to themselves"},
		{"contract not found", contract.ErrContractNotFound, http.StatusNotFound, "Contract not found"},
		{"contract type inactive", contract.ErrContractTypeInactive, http.StatusBadRequest, "Contract type is inactive"},
		{"contract not editable", contract.ErrContractNotEditable, http.StatusBadRequest, "Only draft and active contracts can be edited"},
		{
			"contract transition",
			&workflow.TransitionError{Kind: workflow.KindContract, Action: workflow.ActionActivate, From: workflow.StatusActive},
			http.StatusBadRequest,
			"Only draft contracts can be activated",
		},
		{
			"transition",
			&workflow.TransitionError{Kind: workflow.KindTimesheet, Action: workflow.ActionReopen, From: workflow.StatusDraft},
			http.StatusBadRequest,
			"Only rejected timesheets can be reopened",
		},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "An unexpected error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.detail, body.Detail)
		})
	}
}

func TestHandleError_FieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("invalid: %w", validator.ValidationErrors{
		{Field: "reason", Message: "reason is required"},
		{Field: "end_date", Message: "End date must be on or after start date"},
		{Field: "reason", Message: "second"},
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string][]string{
		"reason":   {"reason is required", "second"},
		"end_date": {"End date must be on or after start date"},
	}, body)
}
