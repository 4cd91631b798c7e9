package lake

// Option configures a Store at Open time.
type Option func(*config)

type config struct {
	autoCreate     string
	syncWrites     bool
	repairTruncate bool
}

// WithAutoCreate makes Insert create a segment at path and activate it
// when the store has no active segment. Without this option such an
// Insert fails with ErrNoActiveSegment.
func WithAutoCreate(path string) Option {
	return func(c *config) {
		c.autoCreate = path
	}
}

// WithSyncWrites flushes every append to disk before Insert returns,
// using fdatasync where the platform has it.
func WithSyncWrites() Option {
	return func(c *config) {
		c.syncWrites = true
	}
}

// WithRepairTruncate changes how sequential scans react to a torn record:
// instead of failing with a CorruptSegmentError, the segment is truncated
// at the last good record boundary and the scan finishes cleanly. Bytes
// after that boundary are discarded.
func WithRepairTruncate() Option {
	return func(c *config) {
		c.repairTruncate = true
	}
}
