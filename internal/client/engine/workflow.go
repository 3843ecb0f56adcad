// Package engine runs the client side of the leave, timesheet and contract workflows:
// local guards, in-flight tracking, cache updates and notifications.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/accabog/rhr-sub000/internal/client"
	"github.com/accabog/rhr-sub000/internal/domain/contract"
	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/domain/timesheet"
	"github.com/accabog/rhr-sub000/internal/pkg/querycache"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
)

// ErrInFlight refuses an action already running for the same entity.
var ErrInFlight = errors.New("action already in progress")

// TransitionAPI is the write side of the API the engine drives.
type TransitionAPI interface {
	ApproveLeaveRequest(ctx context.Context, id, notes string) (leave.LeaveRequestResponse, error)
	RejectLeaveRequest(ctx context.Context, id, notes string) (leave.LeaveRequestResponse, error)
	CancelLeaveRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error)
	SubmitTimesheet(ctx context.Context, id, notes string) (timesheet.TimesheetResponse, error)
	ApproveTimesheet(ctx context.Context, id string) (timesheet.TimesheetResponse, error)
	RejectTimesheet(ctx context.Context, id, reason string) (timesheet.TimesheetResponse, error)
	ReopenTimesheet(ctx context.Context, id string) (timesheet.TimesheetResponse, error)
	DeleteTimesheet(ctx context.Context, id string) error
	ActivateContract(ctx context.Context, id string) (contract.ContractResponse, error)
	TerminateContract(ctx context.Context, id string) (contract.ContractResponse, error)
}

// Target is the entity a transition applies to. Status is used when the
// entity is not cached.
type Target struct {
	Kind   workflow.Kind
	ID     string
	Status workflow.Status
}

type flight struct {
	kind   workflow.Kind
	id     string
	action workflow.Action
}

type WorkflowEngine struct {
	api      TransitionAPI
	cache    *querycache.Cache
	notifier Notifier

	mu       sync.Mutex
	inFlight map[flight]struct{}
}

func NewWorkflowEngine(api TransitionAPI, cache *querycache.Cache, notifier Notifier) *WorkflowEngine {
	return &WorkflowEngine{
		api:      api,
		cache:    cache,
		notifier: notifier,
		inFlight: make(map[flight]struct{}),
	}
}

// Actions returns the actions view may take on target, leaving out those in flight.
func (e *WorkflowEngine) Actions(target Target, view workflow.View) []workflow.Action {
	var out []workflow.Action
	for _, a := range workflow.Actions(target.Kind, e.status(target), view) {
		if !e.InFlight(target, a) {
			out = append(out, a)
		}
	}
	return out
}

func (e *WorkflowEngine) InFlight(target Target, action workflow.Action) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.inFlight[flight{target.Kind, target.ID, action}]
	return ok
}

// Execute applies action to target. Illegal transitions and invalid payloads
// are refused before any request is sent. On success the returned entity
// replaces the cached detail and the transition's tags are invalidated; on
// failure the cache is left untouched. The result is nil for removals.
func (e *WorkflowEngine) Execute(ctx context.Context, target Target, action workflow.Action, text string) (any, error) {
	if _, err := workflow.Next(target.Kind, e.status(target), action); err != nil {
		return nil, err
	}
	t, _ := workflow.Lookup(target.Kind, action)
	if err := workflow.ValidatePayload(t, text); err != nil {
		return nil, err
	}

	if !e.begin(target, action) {
		return nil, ErrInFlight
	}
	defer e.end(target, action)

	result, err := e.send(ctx, target, action, text)
	if err != nil {
		e.notifier.Notify(Notification{Level: LevelError, Message: failureMessage(err, t.Failure)})
		return nil, err
	}

	key := DetailKey(target.Kind, target.ID)
	e.cache.Invalidate(tagStrings(t.Invalidates)...)
	if t.Removes() {
		e.cache.Remove(key)
	} else {
		e.cache.Set(key, result, detailTags(target.Kind)...)
	}
	e.notifier.Notify(Notification{Level: LevelSuccess, Message: t.Success})
	return result, nil
}

func (e *WorkflowEngine) begin(target Target, action workflow.Action) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	f := flight{target.Kind, target.ID, action}
	if _, busy := e.inFlight[f]; busy {
		return false
	}
	e.inFlight[f] = struct{}{}
	return true
}

func (e *WorkflowEngine) end(target Target, action workflow.Action) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inFlight, flight{target.Kind, target.ID, action})
}

// status prefers the cached detail over the caller's copy.
func (e *WorkflowEngine) status(target Target) workflow.Status {
	value, _, ok := e.cache.Peek(DetailKey(target.Kind, target.ID))
	if !ok {
		return target.Status
	}
	switch v := value.(type) {
	case leave.LeaveRequestResponse:
		return workflow.Status(v.Status)
	case timesheet.TimesheetResponse:
		return workflow.Status(v.Status)
	case contract.ContractResponse:
		return workflow.Status(v.Status)
	}
	return target.Status
}

func (e *WorkflowEngine) send(ctx context.Context, target Target, action workflow.Action, text string) (any, error) {
	id := target.ID
	switch target.Kind {
	case workflow.KindLeaveRequest:
		switch action {
		case workflow.ActionApprove:
			return e.api.ApproveLeaveRequest(ctx, id, text)
		case workflow.ActionReject:
			return e.api.RejectLeaveRequest(ctx, id, text)
		case workflow.ActionCancel:
			return e.api.CancelLeaveRequest(ctx, id)
		}
	case workflow.KindTimesheet:
		switch action {
		case workflow.ActionSubmit:
			return e.api.SubmitTimesheet(ctx, id, text)
		case workflow.ActionApprove:
			return e.api.ApproveTimesheet(ctx, id)
		case workflow.ActionReject:
			return e.api.RejectTimesheet(ctx, id, text)
		case workflow.ActionReopen:
			return e.api.ReopenTimesheet(ctx, id)
		case workflow.ActionDelete:
			return nil, e.api.DeleteTimesheet(ctx, id)
		}
	case workflow.KindContract:
		switch action {
		case workflow.ActionActivate:
			return e.api.ActivateContract(ctx, id)
		case workflow.ActionTerminate:
			return e.api.TerminateContract(ctx, id)
		}
	}
	return nil, fmt.Errorf("no request for %s %s", target.Kind, action)
}

// failureMessage prefers the server's detail over the fallback.
func failureMessage(err error, fallback string) string {
	if apiErr, ok := client.AsError(err); ok && apiErr.Kind == client.KindMessage && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
