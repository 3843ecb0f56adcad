package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/timetracking"
	"github.com/accabog/rhr-sub000/internal/pkg/querycache"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
)

const DefaultPollInterval = time.Minute

type ClockAPI interface {
	CurrentEntry(ctx context.Context) (*timetracking.TimeEntryResponse, error)
	ClockIn(ctx context.Context, req timetracking.ClockInRequest) (timetracking.TimeEntryResponse, error)
	ClockOut(ctx context.Context, req timetracking.ClockOutRequest) (timetracking.TimeEntryResponse, error)
}

// ClockWatcher polls the caller's running time entry and passes it, or nil,
// to a callback. Invalidating time-entries triggers an immediate poll.
type ClockWatcher struct {
	api      ClockAPI
	cache    *querycache.Cache
	interval time.Duration
	onUpdate func(entry *timetracking.TimeEntryResponse)
}

func NewClockWatcher(api ClockAPI, cache *querycache.Cache, interval time.Duration, onUpdate func(*timetracking.TimeEntryResponse)) *ClockWatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &ClockWatcher{api: api, cache: cache, interval: interval, onUpdate: onUpdate}
}

// Run polls until ctx is done. Failed polls are logged and retried on the
// next tick.
func (w *ClockWatcher) Run(ctx context.Context) error {
	events, unsubscribe := w.cache.Subscribe(string(workflow.TagTimeEntries))
	defer unsubscribe()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.poll(ctx)
		case <-events:
			w.poll(ctx)
		}
	}
}

func (w *ClockWatcher) poll(ctx context.Context) {
	entry, err := w.api.CurrentEntry(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("Failed to poll current time entry", "error", err)
		}
		return
	}
	w.cache.Set(CurrentEntryKey(), entry, string(workflow.TagTimeEntries))
	w.onUpdate(entry)
}

// ClockIn starts a time entry and invalidates the time-entries queries.
func (e *WorkflowEngine) ClockIn(ctx context.Context, api ClockAPI, req timetracking.ClockInRequest) (timetracking.TimeEntryResponse, error) {
	return e.clock(ctx, "Clocked in", "Failed to clock in", func(ctx context.Context) (timetracking.TimeEntryResponse, error) {
		return api.ClockIn(ctx, req)
	})
}

// ClockOut ends the running entry and invalidates the time-entries queries.
func (e *WorkflowEngine) ClockOut(ctx context.Context, api ClockAPI, req timetracking.ClockOutRequest) (timetracking.TimeEntryResponse, error) {
	return e.clock(ctx, "Clocked out", "Failed to clock out", func(ctx context.Context) (timetracking.TimeEntryResponse, error) {
		return api.ClockOut(ctx, req)
	})
}

func (e *WorkflowEngine) clock(ctx context.Context, success, failure string, fn func(context.Context) (timetracking.TimeEntryResponse, error)) (timetracking.TimeEntryResponse, error) {
	entry, err := fn(ctx)
	if err != nil {
		e.notifier.Notify(Notification{Level: LevelError, Message: failureMessage(err, failure)})
		return timetracking.TimeEntryResponse{}, err
	}
	e.cache.Invalidate(string(workflow.TagTimeEntries))
	e.notifier.Notify(Notification{Level: LevelSuccess, Message: success})
	return entry, nil
}
