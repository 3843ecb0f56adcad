package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/accabog/rhr-sub000/internal/pkg/nager"
	"golang.org/x/sync/errgroup"
)

const upcomingHolidayLimit = 10

// HolidayFetcher is the public holiday source used by sync.
type HolidayFetcher interface {
	PublicHolidays(ctx context.Context, year int, country string) ([]nager.PublicHoliday, error)
}

type HolidayServiceImpl struct {
	tx database.Transactor
	leave.HolidayRepository
	tenant.TenantRepository
	employee.EmployeeRepository
	fetcher HolidayFetcher
	// fetchLimit bounds concurrent calls to the holiday source.
	fetchLimit int
	now        func() time.Time
}

func NewHolidayService(
	tx database.Transactor,
	holidayRepository leave.HolidayRepository,
	tenantRepository tenant.TenantRepository,
	employeeRepository employee.EmployeeRepository,
	fetcher HolidayFetcher,
) *HolidayServiceImpl {
	return &HolidayServiceImpl{
		tx:                 tx,
		HolidayRepository:  holidayRepository,
		TenantRepository:   tenantRepository,
		EmployeeRepository: employeeRepository,
		fetcher:            fetcher,
		fetchLimit:         4,
		now:                time.Now,
	}
}

// WithClock replaces the time source.
func (h *HolidayServiceImpl) WithClock(now func() time.Time) *HolidayServiceImpl {
	h.now = now
	return h
}

// ListHolidays implements leave.HolidayService.
func (h *HolidayServiceImpl) ListHolidays(ctx context.Context, s tenant.Session, year int, country string, all bool) ([]leave.HolidayResponse, error) {
	if year == 0 {
		year = h.now().Year()
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	query := leave.HolidayQuery{From: &from, To: &to, Country: country, AnyCountry: all}
	if !all && country == "" {
		c, err := h.callerCountry(ctx, s)
		if err != nil {
			return nil, err
		}
		query.Country = c
	}
	return h.list(ctx, s.TenantID, query)
}

// UpcomingHolidays implements leave.HolidayService.
func (h *HolidayServiceImpl) UpcomingHolidays(ctx context.Context, s tenant.Session) ([]leave.HolidayResponse, error) {
	country, err := h.callerCountry(ctx, s)
	if err != nil {
		return nil, err
	}
	now := h.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return h.list(ctx, s.TenantID, leave.HolidayQuery{From: &today, Country: country, Limit: upcomingHolidayLimit})
}

// CreateHoliday implements leave.HolidayService.
func (h *HolidayServiceImpl) CreateHoliday(ctx context.Context, s tenant.Session, req leave.CreateHolidayRequest) (leave.HolidayResponse, error) {
	if err := requireApprover(s); err != nil {
		return leave.HolidayResponse{}, err
	}
	date, _ := time.Parse(leave.DateFormat, req.Date)

	created, err := h.HolidayRepository.Create(ctx, leave.Holiday{
		TenantID:    s.TenantID,
		Name:        req.Name,
		Date:        date,
		Country:     req.Country,
		IsRecurring: req.IsRecurring,
		Source:      leave.HolidaySourceManual,
	})
	if err != nil {
		if errors.Is(err, leave.ErrHolidayExists) {
			return leave.HolidayResponse{}, err
		}
		return leave.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return leave.NewHolidayResponse(created), nil
}

// SyncHolidays implements leave.HolidayService.
func (h *HolidayServiceImpl) SyncHolidays(ctx context.Context, s tenant.Session, req leave.SyncHolidaysRequest) (leave.SyncHolidaysResponse, error) {
	if err := requireApprover(s); err != nil {
		return leave.SyncHolidaysResponse{}, err
	}

	years := req.Years
	if len(years) == 0 {
		years = h.defaultYears()
	}
	countries := []string{req.Country}
	if req.Country == "" {
		var err error
		countries, err = h.TenantRepository.ListCountries(ctx, s.TenantID)
		if err != nil {
			return leave.SyncHolidaysResponse{}, fmt.Errorf("failed to list tenant countries: %w", err)
		}
	}

	return h.syncTenant(ctx, s.TenantID, countries, years)
}

// SyncAllTenants implements leave.HolidayService.
func (h *HolidayServiceImpl) SyncAllTenants(ctx context.Context) error {
	tenants, err := h.TenantRepository.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}

	years := h.defaultYears()
	var errs []error
	for _, t := range tenants {
		countries, err := h.TenantRepository.ListCountries(ctx, t.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("tenant %s: %w", t.ID, err))
			continue
		}
		if len(countries) == 0 {
			continue
		}
		res, err := h.syncTenant(ctx, t.ID, countries, years)
		if err != nil {
			errs = append(errs, fmt.Errorf("tenant %s: %w", t.ID, err))
			continue
		}
		slog.Info("Holidays synced", "tenant_id", t.ID, "created", res.Created, "updated", res.Updated, "failed", len(res.Failed))
	}
	return errors.Join(errs...)
}

func (h *HolidayServiceImpl) defaultYears() []int {
	y := h.now().Year()
	return []int{y, y + 1}
}

type fetchResult struct {
	country  string
	year     int
	holidays []nager.PublicHoliday
}

// syncTenant fetches every (country, year) concurrently, skipping failures,
// then upserts the results in one transaction.
func (h *HolidayServiceImpl) syncTenant(ctx context.Context, tenantID string, countries []string, years []int) (leave.SyncHolidaysResponse, error) {
	resp := leave.SyncHolidaysResponse{Countries: countries, Years: years}
	if resp.Countries == nil {
		resp.Countries = []string{}
	}

	var (
		mu      sync.Mutex
		fetched []fetchResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.fetchLimit)
	for _, country := range countries {
		for _, year := range years {
			g.Go(func() error {
				holidays, err := h.fetcher.PublicHolidays(gctx, year, country)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					slog.Warn("Skipping holiday sync", "tenant_id", tenantID, "country", country, "year", year, "error", err)
					resp.Failed = append(resp.Failed, fmt.Sprintf("%s/%d", country, year))
					return nil
				}
				fetched = append(fetched, fetchResult{country: country, year: year, holidays: holidays})
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return leave.SyncHolidaysResponse{}, err
	}
	sort.Strings(resp.Failed)
	sort.Slice(fetched, func(i, j int) bool {
		if fetched[i].country != fetched[j].country {
			return fetched[i].country < fetched[j].country
		}
		return fetched[i].year < fetched[j].year
	})

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, f := range fetched {
			for _, ph := range f.holidays {
				day, err := ph.Day()
				if err != nil {
					slog.Warn("Skipping holiday with bad date", "country", f.country, "date", ph.Date)
					continue
				}
				created, err := h.HolidayRepository.Upsert(ctx, leave.Holiday{
					TenantID:     tenantID,
					Name:         ph.Name,
					LocalName:    ph.LocalName,
					Date:         day,
					Country:      f.country,
					Source:       leave.HolidaySourceNagerDate,
					ExternalID:   fmt.Sprintf("%s-%s-%s", f.country, ph.Date, ph.Name),
					HolidayTypes: ph.Types,
				})
				if err != nil {
					return fmt.Errorf("failed to upsert holiday: %w", err)
				}
				if created {
					resp.Created++
				} else {
					resp.Updated++
				}
			}
		}
		return nil
	})
	if err != nil {
		return leave.SyncHolidaysResponse{}, err
	}
	return resp, nil
}

// callerCountry is the country of the caller's department, empty without one.
func (h *HolidayServiceImpl) callerCountry(ctx context.Context, s tenant.Session) (string, error) {
	if !s.HasEmployee() {
		return "", nil
	}
	emp, err := h.EmployeeRepository.GetByID(ctx, s.TenantID, s.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get employee: %w", err)
	}
	return emp.DepartmentCountry, nil
}

func (h *HolidayServiceImpl) list(ctx context.Context, tenantID string, query leave.HolidayQuery) ([]leave.HolidayResponse, error) {
	holidays, err := h.HolidayRepository.List(ctx, tenantID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	resp := make([]leave.HolidayResponse, 0, len(holidays))
	for _, hd := range holidays {
		resp = append(resp, leave.NewHolidayResponse(hd))
	}
	return resp, nil
}
