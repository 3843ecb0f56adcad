package engine

import (
	"net/url"
	"strconv"

	"github.com/accabog/rhr-sub000/internal/pkg/querycache"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
)

// Tags of read-only data no transition changes.
const (
	TagLeaveTypes = "leave-types"
	TagHolidays   = "holidays"
)

const (
	resourceLeaveRequests     = "leave-requests"
	resourceMyLeaveRequests   = "leave-requests/mine"
	resourcePendingLeave      = "leave-requests/pending"
	resourceTimesheets        = "timesheets"
	resourceMyTimesheets      = "timesheets/mine"
	resourcePendingTimesheets = "timesheets/pending"
	resourceContracts         = "contracts"
	resourceMyContracts       = "contracts/mine"
	resourceLeaveTypes        = "leave-types"
	resourceBalanceSummary    = "leave-balances/summary"
	resourceHolidays          = "holidays"
	resourceCurrentEntry      = "time-entries/current"
	resourceTimeSummary       = "time-entries/summary"
)

// DetailKey is the cache key of one leave request, timesheet or contract.
func DetailKey(kind workflow.Kind, id string) querycache.Key {
	resource := resourceLeaveRequests
	switch kind {
	case workflow.KindTimesheet:
		resource = resourceTimesheets
	case workflow.KindContract:
		resource = resourceContracts
	}
	return querycache.NewKey(resource, url.Values{"id": {id}})
}

// detailTags are carried by the detail entry of kind.
func detailTags(kind workflow.Kind) []string {
	switch kind {
	case workflow.KindTimesheet:
		return []string{string(workflow.TagTimesheets)}
	case workflow.KindContract:
		return []string{string(workflow.TagContracts)}
	}
	return []string{string(workflow.TagLeaveRequests)}
}

func tagStrings(tags []workflow.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

func yearKey(resource string, year int) querycache.Key {
	return querycache.NewKey(resource, url.Values{"year": {strconv.Itoa(year)}})
}

func CurrentEntryKey() querycache.Key {
	return querycache.NewKey(resourceCurrentEntry, nil)
}
