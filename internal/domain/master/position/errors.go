package position

import "errors"

var (
	ErrPositionNotFound = errors.New("Position not found")
)
