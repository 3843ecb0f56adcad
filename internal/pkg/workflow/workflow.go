// Package workflow holds the state machines for leave requests, timesheets
// and employment contracts. The API service guards persisted transitions with it and the
// client uses the same table to decide which actions to offer.
package workflow

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/accabog/rhr-sub000/internal/pkg/validator"
)

type Kind string

const (
	KindLeaveRequest Kind = "leave_request"
	KindTimesheet    Kind = "timesheet"
	KindContract     Kind = "contract"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusCancelled  Status = "cancelled"
	StatusDraft      Status = "draft"
	StatusSubmitted  Status = "submitted"
	StatusActive     Status = "active"
	StatusExpired    Status = "expired"
	StatusTerminated Status = "terminated"
)

type Action string

const (
	ActionApprove   Action = "approve"
	ActionReject    Action = "reject"
	ActionCancel    Action = "cancel"
	ActionSubmit    Action = "submit"
	ActionReopen    Action = "reopen"
	ActionDelete    Action = "delete"
	ActionActivate  Action = "activate"
	ActionTerminate Action = "terminate"
)

// View is the relationship of the acting user to the entity.
type View string

const (
	ViewManager   View = "manager"
	ViewRequester View = "requester"
)

// Tag names a group of cached queries affected by a transition.
type Tag string

const (
	TagLeaveRequests     Tag = "leave-requests"
	TagLeavePending      Tag = "leave-pending"
	TagLeaveBalances     Tag = "leave-balances"
	TagTimesheets        Tag = "timesheets"
	TagTimesheetsPending Tag = "timesheets-pending"
	TagTimeEntries       Tag = "time-entries"
	TagContracts         Tag = "contracts"
)

// MinRejectionReasonLength applies to timesheet rejections.
const MinRejectionReasonLength = 10

var ErrIllegalTransition = errors.New("illegal transition")

// ErrStatusChanged is returned by a status-guarded write when the record left
// the expected status after it was read.
var ErrStatusChanged = errors.New("status changed concurrently")

// Transition describes one legal status change. To is empty for transitions
// that remove the entity. MinPayload is the minimum length of the note or
// reason named by PayloadField; zero means the text is optional.
type Transition struct {
	Kind         Kind
	Action       Action
	From         Status
	To           Status
	View         View
	MinPayload   int
	PayloadField string
	Invalidates  []Tag
	Success      string
	Failure      string
}

// Removes reports whether the entity no longer exists after the transition.
func (t Transition) Removes() bool {
	return t.To == ""
}

var transitions = []Transition{
	{
		Kind: KindLeaveRequest, Action: ActionApprove, From: StatusPending, To: StatusApproved, View: ViewManager,
		PayloadField: "notes",
		Invalidates:  []Tag{TagLeaveRequests, TagLeavePending, TagLeaveBalances},
		Success:      "Leave request approved",
		Failure:      "Failed to approve leave request",
	},
	{
		Kind: KindLeaveRequest, Action: ActionReject, From: StatusPending, To: StatusRejected, View: ViewManager,
		PayloadField: "notes",
		Invalidates:  []Tag{TagLeaveRequests, TagLeavePending},
		Success:      "Leave request rejected",
		Failure:      "Failed to reject leave request",
	},
	{
		Kind: KindLeaveRequest, Action: ActionCancel, From: StatusPending, To: StatusCancelled, View: ViewRequester,
		Invalidates: []Tag{TagLeaveRequests, TagLeaveBalances},
		Success:     "Leave request cancelled",
		Failure:     "Failed to cancel leave request",
	},
	{
		Kind: KindTimesheet, Action: ActionSubmit, From: StatusDraft, To: StatusSubmitted, View: ViewRequester,
		PayloadField: "notes",
		Invalidates:  []Tag{TagTimesheets, TagTimesheetsPending},
		Success:      "Timesheet submitted for approval",
		Failure:      "Failed to submit timesheet",
	},
	{
		Kind: KindTimesheet, Action: ActionApprove, From: StatusSubmitted, To: StatusApproved, View: ViewManager,
		Invalidates: []Tag{TagTimesheets, TagTimesheetsPending, TagTimeEntries},
		Success:     "Timesheet approved",
		Failure:     "Failed to approve timesheet",
	},
	{
		Kind: KindTimesheet, Action: ActionReject, From: StatusSubmitted, To: StatusRejected, View: ViewManager,
		MinPayload: MinRejectionReasonLength, PayloadField: "reason",
		Invalidates: []Tag{TagTimesheets, TagTimesheetsPending},
		Success:     "Timesheet rejected",
		Failure:     "Failed to reject timesheet",
	},
	{
		Kind: KindTimesheet, Action: ActionReopen, From: StatusRejected, To: StatusDraft, View: ViewRequester,
		Invalidates: []Tag{TagTimesheets},
		Success:     "Timesheet reopened for editing",
		Failure:     "Failed to reopen timesheet",
	},
	{
		Kind: KindTimesheet, Action: ActionDelete, From: StatusDraft, View: ViewRequester,
		Invalidates: []Tag{TagTimesheets},
		Success:     "Timesheet deleted",
		Failure:     "Failed to delete timesheet",
	},
	{
		Kind: KindContract, Action: ActionActivate, From: StatusDraft, To: StatusActive, View: ViewManager,
		Invalidates: []Tag{TagContracts},
		Success:     "Contract activated",
		Failure:     "Failed to activate contract",
	},
	{
		Kind: KindContract, Action: ActionTerminate, From: StatusActive, To: StatusTerminated, View: ViewManager,
		Invalidates: []Tag{TagContracts},
		Success:     "Contract terminated",
		Failure:     "Failed to terminate contract",
	},
}

var statuses = map[Kind][]Status{
	KindLeaveRequest: {StatusPending, StatusApproved, StatusRejected, StatusCancelled},
	KindTimesheet:    {StatusDraft, StatusSubmitted, StatusApproved, StatusRejected},
	KindContract:     {StatusDraft, StatusActive, StatusExpired, StatusTerminated},
}

// Lookup returns the transition registered for kind and action.
func Lookup(kind Kind, action Action) (Transition, bool) {
	for _, t := range transitions {
		if t.Kind == kind && t.Action == action {
			return t, true
		}
	}
	return Transition{}, false
}

// Transitions returns every transition of kind in table order.
func Transitions(kind Kind) []Transition {
	var out []Transition
	for _, t := range transitions {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// Statuses lists the statuses an entity of kind can hold.
func Statuses(kind Kind) []Status {
	return append([]Status(nil), statuses[kind]...)
}

// ValidStatus reports whether s is a status of kind.
func ValidStatus(kind Kind, s Status) bool {
	for _, st := range statuses[kind] {
		if st == s {
			return true
		}
	}
	return false
}

func Can(kind Kind, from Status, action Action) bool {
	t, ok := Lookup(kind, action)
	return ok && t.From == from
}

// Next returns the status reached by applying action to an entity in from.
// For removing transitions the returned status is empty.
func Next(kind Kind, from Status, action Action) (Status, error) {
	t, ok := Lookup(kind, action)
	if !ok || t.From != from {
		return "", &TransitionError{Kind: kind, Action: action, From: from}
	}
	return t.To, nil
}

// Actions returns the actions a user with view may take on an entity in status.
func Actions(kind Kind, status Status, view View) []Action {
	var out []Action
	for _, t := range transitions {
		if t.Kind == kind && t.From == status && t.View == view {
			out = append(out, t.Action)
		}
	}
	return out
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(kind Kind, status Status) bool {
	for _, t := range transitions {
		if t.Kind == kind && t.From == status {
			return false
		}
	}
	return true
}

// ValidatePayload checks the free-text note or reason attached to t.
func ValidatePayload(t Transition, text string) error {
	if t.MinPayload == 0 {
		return nil
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return validator.ValidationErrors{{
			Field:   t.PayloadField,
			Message: fmt.Sprintf("%s is required", t.PayloadField),
		}}
	}
	if utf8.RuneCountInString(trimmed) < t.MinPayload {
		return validator.ValidationErrors{{
			Field:   t.PayloadField,
			Message: fmt.Sprintf("Ensure this field has at least %d characters.", t.MinPayload),
		}}
	}
	return nil
}

// TransitionError is returned for an action that is not legal from the
// entity's current status.
type TransitionError struct {
	Kind   Kind
	Action Action
	From   Status
}

func (e *TransitionError) Error() string {
	t, ok := Lookup(e.Kind, e.Action)
	if !ok {
		return fmt.Sprintf("Unknown action %q", e.Action)
	}
	return fmt.Sprintf("Only %s %s can be %s", t.From, noun(e.Kind), pastTense(e.Action))
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}

func noun(kind Kind) string {
	switch kind {
	case KindLeaveRequest:
		return "requests"
	case KindTimesheet:
		return "timesheets"
	case KindContract:
		return "contracts"
	}
	return string(kind)
}

func pastTense(a Action) string {
	switch a {
	case ActionApprove:
		return "approved"
	case ActionReject:
		return "rejected"
	case ActionCancel:
		return "cancelled"
	case ActionSubmit:
		return "submitted"
	case ActionReopen:
		return "reopened"
	case ActionDelete:
		return "deleted"
	case ActionActivate:
		return "activated"
	case ActionTerminate:
		return "terminated"
	}
	return string(a) + "ed"
}
