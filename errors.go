package lake

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by store operations.
var (
	// ErrSegmentUnavailable is returned when a segment file cannot be
	// opened for the requested operation.
	ErrSegmentUnavailable = errors.New("segment unavailable")

	// ErrNoActiveSegment is returned by Insert when the store has no
	// active segment and auto-creation was not enabled.
	ErrNoActiveSegment = errors.New("no active segment")
)

// A CorruptSegmentError reports a decode failure before the end of a
// segment — truncated or malformed record bytes. A decode that stops
// exactly at end-of-file is normal termination and never produces one.
type CorruptSegmentError struct {
	Segment string
	Offset  int64
	Err     error
}

func (e *CorruptSegmentError) Error() string {
	return fmt.Sprintf("corrupt record in %s at offset %d: %v", e.Segment, e.Offset, e.Err)
}

func (e *CorruptSegmentError) Unwrap() error { return e.Err }
