package timesheet

import (
	"context"

	"github.com/accabog/rhr-sub000/internal/domain/tenant"
)

type TimesheetService interface {
	Generate(ctx context.Context, s tenant.Session, req GenerateTimesheetRequest) (TimesheetResponse, error)
	Get(ctx context.Context, s tenant.Session, id string) (TimesheetResponse, error)
	List(ctx context.Context, s tenant.Session, filter TimesheetFilter) (ListTimesheetResponse, error)
	MyTimesheets(ctx context.Context, s tenant.Session, filter TimesheetFilter) (ListTimesheetResponse, error)
	PendingApproval(ctx context.Context, s tenant.Session, filter TimesheetFilter) (ListTimesheetResponse, error)
	Submit(ctx context.Context, s tenant.Session, id string, req SubmitTimesheetRequest) (TimesheetResponse, error)
	Approve(ctx context.Context, s tenant.Session, id string) (TimesheetResponse, error)
	Reject(ctx context.Context, s tenant.Session, id string, req RejectTimesheetRequest) (TimesheetResponse, error)
	Reopen(ctx context.Context, s tenant.Session, id string) (TimesheetResponse, error)
	Delete(ctx context.Context, s tenant.Session, id string) error
	ListComments(ctx context.Context, s tenant.Session, id string) ([]CommentResponse, error)
	AddComment(ctx context.Context, s tenant.Session, id string, req CreateCommentRequest) (CommentResponse, error)
}
