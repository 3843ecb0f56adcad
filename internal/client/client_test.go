package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/accabog/rhr-sub000/internal/domain/auth"
	"github.com/accabog/rhr-sub000/internal/domain/contract"
	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/domain/user"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_LoginSetsSession(t *testing.T) {
	var gotAuth, gotTenant, gotPath string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login/":
			var req auth.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "ada@example.com", req.Email)
			writeJSON(w, http.StatusOK, auth.TokenResponse{
				AccessToken: "tok", TenantID: "t1", UserID: "u1", EmployeeID: "e1", Role: "manager",
			})
		default:
			gotAuth = r.Header.Get("Authorization")
			gotTenant = r.Header.Get(TenantHeader)
			gotPath = r.URL.Path
			writeJSON(w, http.StatusOK, []leave.LeaveTypeResponse{{ID: "lt1", Code: "AL"}})
		}
	})

	_, err := c.Login(context.Background(), auth.LoginRequest{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	s := c.Session()
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, user.RoleManager, s.Role)
	assert.True(t, s.CanApprove())

	types, err := c.LeaveTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "t1", gotTenant)
	assert.Equal(t, "/api/v1/leave/types/", gotPath)
}

func TestClient_ErrorKinds(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		kind      ErrorKind
		detail    string
		field     string
		permanent bool
	}{
		{"detail", http.StatusBadRequest, `{"detail":"Insufficient leave balance"}`, KindMessage, "Insufficient leave balance", "", true},
		{"fields", http.StatusBadRequest, `{"reason":["Ensure this field has at least 10 characters."]}`, KindValidation, "", "reason", true},
		{"single string field", http.StatusBadRequest, `{"end_date":"End date must be on or after start date"}`, KindValidation, "", "end_date", true},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, KindMessage, "", "", false},
		{"server detail", http.StatusInternalServerError, `{"detail":"An unexpected error occurred"}`, KindMessage, "An unexpected error occurred", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.LeaveRequest(context.Background(), "r1")
			apiErr, ok := AsError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.detail, apiErr.Detail)
			if tt.field != "" {
				assert.NotEmpty(t, apiErr.FieldError(tt.field))
			}
			assert.Equal(t, tt.permanent, apiErr.Permanent())
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := New(srv.URL)
	srv.Close()

	_, err := c.LeaveTypes(context.Background())
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.False(t, apiErr.Permanent())
}

func TestClient_CurrentEntryNull(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/time-entries/current/", r.URL.Path)
		_, _ = w.Write([]byte("null\n"))
	})

	entry, err := c.CurrentEntry(context.Background())
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestClient_ListQuery(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/leave/requests/my_requests/", r.URL.Path)
		assert.Equal(t, "pending,approved", r.URL.Query().Get("status"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, pagination.NewPage([]leave.LeaveRequestResponse{{ID: "r1"}}, 21, pagination.Params{Page: 2, PageSize: 20}))
	})

	page, err := c.MyLeaveRequests(context.Background(), LeaveRequestQuery{
		Status: "pending,approved",
		Page:   pagination.Params{Page: 2, PageSize: 20},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 21, page.Count)
	require.Len(t, page.Results, 1)
}

func TestClient_DeleteTimesheet(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/timesheets/ts1/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteTimesheet(context.Background(), "ts1"))
}

func TestClient_ContractQueryAndAction(t *testing.T) {
	var paths []string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/api/v1/contracts/":
			assert.Equal(t, "true", r.URL.Query().Get("expiring_soon"))
			assert.Equal(t, "active", r.URL.Query().Get("status"))
			writeJSON(w, http.StatusOK, pagination.NewPage([]contract.ContractResponse{{ID: "c1"}}, 1, pagination.Params{}))
		default:
			writeJSON(w, http.StatusOK, contract.ContractResponse{ID: "c1", Status: "terminated"})
		}
	})

	page, err := c.Contracts(context.Background(), ContractQuery{Status: "active", ExpiringSoon: true})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)

	k, err := c.TerminateContract(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "terminated", k.Status)
	assert.Equal(t, []string{"GET /api/v1/contracts/", "POST /api/v1/contracts/c1/terminate/"}, paths)
}

func TestClient_UpdateMyProfile(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/employees/me/", r.URL.Path)
		var req employee.UpdateProfileRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Timezone)
		writeJSON(w, http.StatusOK, employee.EmployeeResponse{ID: "e1", Timezone: *req.Timezone})
	})

	tz := "Europe/Berlin"
	e, err := c.UpdateMyProfile(context.Background(), employee.UpdateProfileRequest{Timezone: &tz})
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", e.Timezone)
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("12.50")
	require.NoError(t, err)
	assert.Equal(t, "12.5", d.String())

	d, err = ParseAmount("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseAmount("abc")
	assert.Error(t, err)
}
