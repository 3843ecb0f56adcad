package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type ErrorKind string

const (
	// KindValidation carries field errors: {"field": ["message"]}.
	KindValidation ErrorKind = "validation"
	// KindMessage carries a single {"detail": "..."} message.
	KindMessage ErrorKind = "message"
	// KindNetwork is a transport failure; no response was read.
	KindNetwork ErrorKind = "network"
)

// Error is returned for every failed API call. Detail is empty when the
// server sent no message.
type Error struct {
	Kind   ErrorKind
	Status int
	Detail string
	Fields map[string][]string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindValidation:
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
		}
		return strings.Join(parts, "; ")
	case KindNetwork:
		return fmt.Sprintf("network error: %v", e.Err)
	}
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed: %d %s", e.Status, http.StatusText(e.Status))
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Permanent reports whether retrying the call cannot succeed. Client errors
// are permanent; server and network errors are not.
func (e *Error) Permanent() bool {
	return e.Kind != KindNetwork && e.Status < 500
}

// FieldError returns the first message of field.
func (e *Error) FieldError(field string) string {
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// AsError returns err as *Error when it is one.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// IsStatus reports whether err is an API error with status code.
func IsStatus(err error, code int) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Status == code
}

func networkError(method, path string, err error) *Error {
	return &Error{Kind: KindNetwork, Err: fmt.Errorf("%s %s: %w", method, path, err)}
}

// parseError classifies an error body. A "detail" key wins; otherwise every
// key holding a string or a list of strings becomes a field error.
func parseError(status int, body []byte) *Error {
	apiErr := &Error{Kind: KindMessage, Status: status}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || len(obj) == 0 {
		return apiErr
	}

	if raw, ok := obj["detail"]; ok {
		var detail string
		if err := json.Unmarshal(raw, &detail); err == nil {
			apiErr.Detail = detail
			return apiErr
		}
	}

	fields := make(map[string][]string, len(obj))
	for key, raw := range obj {
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			fields[key] = list
			continue
		}
		var single string
		if err := json.Unmarshal(raw, &single); err == nil {
			fields[key] = []string{single}
		}
	}
	if len(fields) == 0 {
		return apiErr
	}
	apiErr.Kind = KindValidation
	apiErr.Fields = fields
	return apiErr
}
