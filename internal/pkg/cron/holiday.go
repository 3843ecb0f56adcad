package cron

import (
	"context"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/leave"
)

type HolidayJobs struct {
	holidaySvc  leave.HolidayService
	interval    time.Duration
	syncOnStart bool
}

// NewHolidayJobs syncs public holidays every interval, and once at start
// when syncOnStart is set.
func NewHolidayJobs(holidaySvc leave.HolidayService, interval time.Duration, syncOnStart bool) *HolidayJobs {
	return &HolidayJobs{holidaySvc: holidaySvc, interval: interval, syncOnStart: syncOnStart}
}

func (j *HolidayJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:      "sync_public_holidays",
		Interval:  j.interval,
		Immediate: j.syncOnStart,
		Fn:        j.SyncPublicHolidays,
	})
}

// SyncPublicHolidays refreshes public holidays of every active tenant.
func (j *HolidayJobs) SyncPublicHolidays(ctx context.Context) error {
	return j.holidaySvc.SyncAllTenants(ctx)
}
