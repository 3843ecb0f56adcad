package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) leave.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// Create implements leave.HolidayRepository.
func (h *holidayRepositoryImpl) Create(ctx context.Context, holiday leave.Holiday) (leave.Holiday, error) {
	q := GetQuerier(ctx, h.db)
	query := `
		INSERT INTO holidays (
			id, tenant_id, name, local_name, date, country, is_recurring,
			source, external_id, holiday_types, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, NOW(), NOW()
		) RETURNING created_at, updated_at
	`
	holiday.ID = newID()
	if holiday.HolidayTypes == nil {
		holiday.HolidayTypes = []string{}
	}
	err := q.QueryRow(ctx, query,
		holiday.ID, holiday.TenantID, holiday.Name, holiday.LocalName, holiday.Date, holiday.Country, holiday.IsRecurring,
		string(holiday.Source), holiday.ExternalID, holiday.HolidayTypes,
	).Scan(&holiday.CreatedAt, &holiday.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return leave.Holiday{}, leave.ErrHolidayExists
		}
		return leave.Holiday{}, err
	}
	return holiday, nil
}

// Upsert implements leave.HolidayRepository.
func (h *holidayRepositoryImpl) Upsert(ctx context.Context, holiday leave.Holiday) (bool, error) {
	q := GetQuerier(ctx, h.db)
	query := `
		INSERT INTO holidays (
			id, tenant_id, name, local_name, date, country, is_recurring,
			source, external_id, holiday_types, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, NOW(), NOW()
		)
		ON CONFLICT (tenant_id, country, date, name) DO UPDATE SET
			local_name = EXCLUDED.local_name,
			is_recurring = EXCLUDED.is_recurring,
			source = EXCLUDED.source,
			external_id = EXCLUDED.external_id,
			holiday_types = EXCLUDED.holiday_types,
			updated_at = NOW()
		RETURNING (xmax = 0)
	`
	if holiday.HolidayTypes == nil {
		holiday.HolidayTypes = []string{}
	}
	var created bool
	err := q.QueryRow(ctx, query,
		newID(), holiday.TenantID, holiday.Name, holiday.LocalName, holiday.Date, holiday.Country, holiday.IsRecurring,
		string(holiday.Source), holiday.ExternalID, holiday.HolidayTypes,
	).Scan(&created)
	return created, err
}

// List implements leave.HolidayRepository.
func (h *holidayRepositoryImpl) List(ctx context.Context, tenantID string, query leave.HolidayQuery) ([]leave.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	conditions := []string{"tenant_id = $1"}
	args := []any{tenantID}
	argIdx := 2

	if query.From != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argIdx))
		args = append(args, *query.From)
		argIdx++
	}
	if query.To != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argIdx))
		args = append(args, *query.To)
		argIdx++
	}
	if !query.AnyCountry {
		conditions = append(conditions, fmt.Sprintf("(country = '' OR country = $%d)", argIdx))
		args = append(args, query.Country)
		argIdx++
	}

	sql := `
		SELECT id, tenant_id, name, local_name, date, country, is_recurring,
			   source, external_id, holiday_types, created_at, updated_at
		FROM holidays
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY date, name
	`
	if query.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, query.Limit)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []leave.Holiday
	for rows.Next() {
		var hd leave.Holiday
		if err := rows.Scan(
			&hd.ID, &hd.TenantID, &hd.Name, &hd.LocalName, &hd.Date, &hd.Country, &hd.IsRecurring,
			&hd.Source, &hd.ExternalID, &hd.HolidayTypes, &hd.CreatedAt, &hd.UpdatedAt,
		); err != nil {
			return nil, err
		}
		holidays = append(holidays, hd)
	}
	return holidays, rows.Err()
}
