package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Ordered(t *testing.T) {
	files, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_init.sql", files[0])
	for i := 1; i < len(files); i++ {
		assert.Less(t, files[i-1], files[i])
	}
}

func TestMigrations_InitSchema(t *testing.T) {
	b, err := migrationFS.ReadFile("migrations/001_init.sql")
	require.NoError(t, err)
	sql := string(b)

	for _, table := range []string{
		"tenants", "users", "tenant_memberships", "departments", "employees",
		"leave_types", "leave_balances", "leave_requests", "holidays",
		"time_entry_types", "time_entries", "timesheets", "timesheet_comments",
	} {
		assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS "+table+" ", table)
	}
	assert.True(t, strings.Contains(sql, "WHERE end_time IS NULL"), "running entry index")
}

func TestMigrations_OrganizationSchema(t *testing.T) {
	b, err := migrationFS.ReadFile("migrations/002_organization.sql")
	require.NoError(t, err)
	sql := string(b)

	for _, table := range []string{"positions", "contract_types", "contracts"} {
		assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS "+table+" ", table)
	}
	assert.Contains(t, sql, "'suspended'")
	assert.Contains(t, sql, "CHECK (status IN ('draft', 'active', 'expired', 'terminated'))")
}
