package lake

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Nathan-E-White/Lake/internal/index"
)

// countingReader tracks how many bytes the codec has consumed, so each
// record's start offset is known before its decode and a failure can be
// located precisely.
type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// scanSegment decodes path sequentially from the start, recording every
// record's start offset in ix.
//
// A decode returning io.EOF with the cursor exactly at the file size is
// the clean termination signal. Anything else — an error partway through
// the file, or a record cut short at the tail — is corruption, surfaced
// as a CorruptSegmentError or repaired by truncation when the store was
// opened with WithRepairTruncate.
func (s *Store) scanSegment(ix *index.Index, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSegmentUnavailable, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	size := info.Size()

	cr := &countingReader{r: f}
	for {
		start := cr.n

		v, err := s.codec.Decode(cr)
		if err != nil {
			if errors.Is(err, io.EOF) && cr.n == start && start == size {
				return nil
			}
			if s.cfg.repairTruncate {
				return truncateAt(path, start)
			}
			return &CorruptSegmentError{Segment: path, Offset: start, Err: err}
		}

		ix.Record(v.Key(), index.Slot{Segment: path, Offset: start})
	}
}

// truncateAt drops the torn bytes at the tail of a segment, keeping every
// record decoded before offset.
func truncateAt(path string, offset int64) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSegmentUnavailable, path, err)
	}
	defer f.Close()

	if err := f.Truncate(offset); err != nil {
		return fmt.Errorf("truncating %s: %w", path, err)
	}
	return f.Sync()
}
