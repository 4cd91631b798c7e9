// Package fsync flushes appended data to disk using the cheapest primitive
// the platform offers.
package fsync

import "os"

// File ensures the data written to f is durable. On Linux this is
// fdatasync(2), which skips syncing metadata (timestamps) that durability
// does not need; elsewhere it falls back to a full fsync.
func File(f *os.File) error {
	return fdatasync(f)
}
