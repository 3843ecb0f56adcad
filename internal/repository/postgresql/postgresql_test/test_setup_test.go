package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a migrated test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and skips the test when it is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 4, MinConns: 1})
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, db.Migrate(ctx))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes all rows from the application tables.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"contracts",
		"contract_types",
		"timesheet_comments",
		"timesheets",
		"time_entries",
		"time_entry_types",
		"holidays",
		"leave_requests",
		"leave_balances",
		"leave_types",
		"employees",
		"positions",
		"departments",
		"tenant_memberships",
		"users",
		"tenants",
	}

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}

type fixture struct {
	TenantID   string
	UserID     string
	EmployeeID string
}

// seed creates a tenant with one user, membership and employee in country.
func (s *TestDatabaseSetup) seed(t *testing.T, country string) fixture {
	t.Helper()
	ctx := context.Background()

	f := fixture{
		TenantID:   uuid.NewString(),
		UserID:     uuid.NewString(),
		EmployeeID: uuid.NewString(),
	}
	deptID := uuid.NewString()
	slug := "acme-" + f.TenantID[:8]

	stmts := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO tenants (id, name, slug) VALUES ($1, 'Acme', $2)`, []any{f.TenantID, slug}},
		{`INSERT INTO users (id, email, password_hash, first_name, last_name) VALUES ($1, $2, 'x', 'Ada', 'Lovelace')`, []any{f.UserID, slug + "@example.com"}},
		{`INSERT INTO tenant_memberships (id, user_id, tenant_id, role, is_default) VALUES ($1, $2, $3, 'manager', TRUE)`, []any{uuid.NewString(), f.UserID, f.TenantID}},
		{`INSERT INTO departments (id, tenant_id, name, country) VALUES ($1, $2, 'Engineering', $3)`, []any{deptID, f.TenantID, country}},
		{`INSERT INTO employees (id, tenant_id, user_id, employee_code, first_name, last_name, department_id, hire_date)
		  VALUES ($1, $2, $3, 'E001', 'Ada', 'Lovelace', $4, $5)`, []any{f.EmployeeID, f.TenantID, f.UserID, deptID, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}},
	}
	for _, st := range stmts {
		_, err := s.DB.Exec(ctx, st.sql, st.args...)
		require.NoError(t, err)
	}
	return f
}
