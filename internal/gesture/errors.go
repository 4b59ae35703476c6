package gesture

import "errors"

var (
	// ErrDisabled is returned when a stroke is started while gestures are off.
	ErrDisabled = errors.New("gestures are disabled")
	// ErrNoActiveStroke is returned when a stroke operation needs a stroke in flight.
	ErrNoActiveStroke = errors.New("no active stroke")
	// ErrEmptyPattern is returned when a gesture has no directions.
	ErrEmptyPattern = errors.New("gesture pattern cannot be empty")
	// ErrConflict is returned when an enabled gesture on the same channel has the same directions.
	ErrConflict = errors.New("gesture pattern conflicts with existing gesture")
	// ErrNotFound is returned for unknown gesture ids.
	ErrNotFound = errors.New("gesture not found")
	// ErrCannotDeleteBuiltin is returned when deleting a builtin gesture.
	ErrCannotDeleteBuiltin = errors.New("cannot delete builtin gesture")
	// ErrDecode is returned when an import payload is malformed.
	ErrDecode = errors.New("invalid gesture payload")
)
