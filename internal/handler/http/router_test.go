package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/auth"
	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/domain/timesheet"
	"github.com/accabog/rhr-sub000/internal/domain/timetracking"
	"github.com/accabog/rhr-sub000/internal/domain/user"
	"github.com/accabog/rhr-sub000/internal/pkg/jwt"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTenantID   = "0190b3a4-0000-7000-8000-000000000001"
	testUserID     = "0190b3a4-0000-7000-8000-000000000002"
	testEmployeeID = "0190b3a4-0000-7000-8000-000000000003"
	testTypeID     = "0190b3a4-0000-7000-8000-000000000004"
)

// Stubs embed the service interface; calling a method that is not overridden panics.

type stubAuth struct {
	auth.AuthService
	login func(req auth.LoginRequest) (auth.TokenResponse, error)
}

func (s stubAuth) Login(_ context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	return s.login(req)
}

type stubLeave struct {
	leave.LeaveService
	create  func(s tenant.Session, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error)
	approve func(s tenant.Session, id string) (leave.LeaveRequestResponse, error)
	types   func(s tenant.Session) ([]leave.LeaveTypeResponse, error)
}

func (l stubLeave) CreateRequest(_ context.Context, s tenant.Session, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	return l.create(s, req)
}

func (l stubLeave) ApproveRequest(_ context.Context, s tenant.Session, id string, _ leave.ReviewLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	return l.approve(s, id)
}

func (l stubLeave) ListTypes(_ context.Context, s tenant.Session) ([]leave.LeaveTypeResponse, error) {
	return l.types(s)
}

type stubTimesheets struct {
	timesheet.TimesheetService
	reject func(id string, req timesheet.RejectTimesheetRequest) (timesheet.TimesheetResponse, error)
	delete func(id string) error
}

func (t stubTimesheets) Reject(_ context.Context, _ tenant.Session, id string, req timesheet.RejectTimesheetRequest) (timesheet.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	return t.reject(id, req)
}

func (t stubTimesheets) Delete(_ context.Context, _ tenant.Session, id string) error {
	return t.delete(id)
}

type stubTimeEntries struct {
	timetracking.TimeTrackingService
	current *timetracking.TimeEntryResponse
	clockIn error
}

func (t stubTimeEntries) Current(context.Context, tenant.Session) (*timetracking.TimeEntryResponse, error) {
	return t.current, nil
}

func (t stubTimeEntries) ClockIn(context.Context, tenant.Session, timetracking.ClockInRequest) (timetracking.TimeEntryResponse, error) {
	return timetracking.TimeEntryResponse{}, t.clockIn
}

type testServer struct {
	handler http.Handler
	jwt     jwt.Service
}

func newTestServer(t *testing.T, h Handlers) testServer {
	t.Helper()
	jwtSvc := jwt.NewJWTService("handler-test-secret", time.Hour)
	if h.Auth == nil {
		h.Auth = NewAuthHandler(stubAuth{})
	}
	if h.Master == nil {
		h.Master = NewMasterHandler(stubMaster{})
	}
	if h.Employee == nil {
		h.Employee = NewEmployeeHandler(stubEmployees{})
	}
	if h.Contract == nil {
		h.Contract = NewContractHandler(stubContracts{})
	}
	if h.Leave == nil {
		h.Leave = NewLeaveHandler(stubLeave{})
	}
	if h.Holiday == nil {
		h.Holiday = NewHolidayHandler(nil)
	}
	if h.Timesheet == nil {
		h.Timesheet = NewTimesheetHandler(stubTimesheets{})
	}
	if h.TimeEntry == nil {
		h.TimeEntry = NewTimeEntryHandler(stubTimeEntries{})
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return testServer{
		handler: NewRouter(logger, []string{"*"}, jwtSvc, h),
		jwt:     jwtSvc,
	}
}

func (ts testServer) token(t *testing.T, role user.Role) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateAccessToken(jwt.AccessClaims{
		UserID:     testUserID,
		TenantID:   testTenantID,
		EmployeeID: testEmployeeID,
		Role:       role,
	})
	require.NoError(t, err)
	return token
}

func (ts testServer) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, Handlers{
		Auth: NewAuthHandler(stubAuth{login: func(req auth.LoginRequest) (auth.TokenResponse, error) {
			if req.Password != "correct-horse" {
				return auth.TokenResponse{}, auth.ErrInvalidCredentials
			}
			return auth.TokenResponse{AccessToken: "token", TenantID: testTenantID, Role: "employee"}, nil
		}}),
	})

	t.Run("success", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/auth/login/", "", map[string]string{
			"email": "ada@example.com", "password": "correct-horse",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeBody[auth.TokenResponse](t, rec)
		assert.Equal(t, "token", body.AccessToken)
	})

	t.Run("field errors", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/auth/login/", "", map[string]string{"email": "nope"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody[map[string][]string](t, rec)
		assert.Contains(t, body, "email")
		assert.Contains(t, body, "password")
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/auth/login/", "", map[string]string{
			"email": "ada@example.com", "password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid email or password", decodeBody[map[string]string](t, rec)["detail"])
	})
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t, Handlers{})

	t.Run("missing token", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/auth/me/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.NotEmpty(t, decodeBody[map[string]string](t, rec)["detail"])
	})

	t.Run("session from claims", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/auth/me/", ts.token(t, user.RoleManager), nil, "X-Tenant-ID", testTenantID)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		me := decodeBody[MeResponse](t, rec)
		assert.Equal(t, testTenantID, me.TenantID)
		assert.Equal(t, testEmployeeID, me.EmployeeID)
		assert.True(t, me.CanApprove)
	})

	t.Run("tenant header mismatch", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/auth/me/", ts.token(t, user.RoleManager), nil, "X-Tenant-ID", "someone-else")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestLeaveRoutes(t *testing.T) {
	var seen tenant.Session
	ts := newTestServer(t, Handlers{
		Leave: NewLeaveHandler(stubLeave{
			types: func(s tenant.Session) ([]leave.LeaveTypeResponse, error) {
				return []leave.LeaveTypeResponse{{ID: testTypeID, Code: "AL"}}, nil
			},
			create: func(s tenant.Session, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
				seen = s
				if req.Reason == "too long" {
					return leave.LeaveRequestResponse{}, leave.ErrInsufficientBalance
				}
				return leave.LeaveRequestResponse{ID: "r1", Status: "pending", DaysRequested: "3.00"}, nil
			},
			approve: func(s tenant.Session, id string) (leave.LeaveRequestResponse, error) {
				return leave.LeaveRequestResponse{}, &workflow.TransitionError{
					Kind: workflow.KindLeaveRequest, Action: workflow.ActionApprove, From: workflow.StatusApproved,
				}
			},
		}),
	})
	employee := ts.token(t, user.RoleEmployee)
	manager := ts.token(t, user.RoleManager)

	t.Run("list types", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/leave/types/", employee, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		types := decodeBody[[]leave.LeaveTypeResponse](t, rec)
		require.Len(t, types, 1)
		assert.Equal(t, "AL", types[0].Code)
	})

	t.Run("create", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/leave/requests/", employee, map[string]any{
			"leave_type": testTypeID, "start_date": "2025-12-22", "end_date": "2025-12-24",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "3.00", decodeBody[leave.LeaveRequestResponse](t, rec).DaysRequested)
		assert.Equal(t, testEmployeeID, seen.EmployeeID)
	})

	t.Run("create validation", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/leave/requests/", employee, map[string]any{
			"leave_type": testTypeID, "start_date": "2025-12-24", "end_date": "2025-12-22",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody[map[string][]string](t, rec)
		assert.Equal(t, []string{"End date must be on or after start date"}, body["end_date"])
	})

	t.Run("insufficient balance", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/leave/requests/", employee, map[string]any{
			"leave_type": testTypeID, "start_date": "2025-12-22", "end_date": "2025-12-24", "reason": "too long",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Insufficient leave balance", decodeBody[map[string]string](t, rec)["detail"])
	})

	t.Run("approve needs manager", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/leave/requests/r1/approve/", employee, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Manager access required", decodeBody[map[string]string](t, rec)["detail"])
	})

	t.Run("approve illegal transition", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/leave/requests/r1/approve/", manager, map[string]string{"notes": "ok"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Only pending requests can be approved", decodeBody[map[string]string](t, rec)["detail"])
	})
}

func TestTimesheetRoutes(t *testing.T) {
	var deleted string
	ts := newTestServer(t, Handlers{
		Timesheet: NewTimesheetHandler(stubTimesheets{
			reject: func(id string, req timesheet.RejectTimesheetRequest) (timesheet.TimesheetResponse, error) {
				return timesheet.TimesheetResponse{ID: id, Status: "rejected", RejectionReason: req.Reason}, nil
			},
			delete: func(id string) error {
				deleted = id
				return nil
			},
		}),
	})
	manager := ts.token(t, user.RoleManager)

	t.Run("reject reason too short", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/timesheets/ts1/reject/", manager, map[string]string{"reason": "Bad"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody[map[string][]string](t, rec)
		assert.Equal(t, []string{"Ensure this field has at least 10 characters."}, body["reason"])
	})

	t.Run("reject", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/timesheets/ts1/reject/", manager, map[string]string{"reason": "Missing Friday entries"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "rejected", decodeBody[timesheet.TimesheetResponse](t, rec).Status)
	})

	t.Run("delete", func(t *testing.T) {
		rec := ts.do(t, http.MethodDelete, "/api/v1/timesheets/ts1/", ts.token(t, user.RoleEmployee), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "ts1", deleted)
	})
}

func TestTimeEntryRoutes(t *testing.T) {
	ts := newTestServer(t, Handlers{
		TimeEntry: NewTimeEntryHandler(stubTimeEntries{clockIn: timetracking.ErrAlreadyClockedIn}),
	})
	employee := ts.token(t, user.RoleEmployee)

	t.Run("current without running entry", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/time-entries/current/", employee, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "null", string(bytes.TrimSpace(rec.Body.Bytes())))
	})

	t.Run("already clocked in", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/time-entries/clock_in/", employee, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Already clocked in", decodeBody[map[string]string](t, rec)["detail"])
	})

	t.Run("viewer cannot clock in", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/time-entries/clock_in/", ts.token(t, user.RoleViewer), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
