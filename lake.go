package lake

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Nathan-E-White/Lake/codec"
	"github.com/Nathan-E-White/Lake/internal/fsync"
	"github.com/Nathan-E-White/Lake/internal/index"
	"github.com/Nathan-E-White/Lake/internal/snapshot"
)

// Store composes an ordered offset index, a path to the active segment and
// an injected serialization policy. See the package documentation for the
// concurrency contract.
type Store struct {
	codec  codec.Codec
	index  *index.Index
	active string // segment receiving appends; empty until activated
	cfg    config
}

// Open constructs a store over the segment at path using the given
// serialization policy.
//
// If the file exists, its records are decoded sequentially to rebuild the
// index. If it does not, the store starts empty and the file is created on
// the first Insert. An empty path leaves the store with no active segment:
// Insert then fails with ErrNoActiveSegment unless WithAutoCreate is set,
// and IndexDirectory can activate a segment later.
func Open(path string, c codec.Codec, opts ...Option) (*Store, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Store{
		codec:  c,
		index:  index.New(),
		active: path,
		cfg:    cfg,
	}

	if path == "" {
		return s, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSegmentUnavailable, path, err)
	}

	if err := s.scanSegment(s.index, path); err != nil {
		return nil, err
	}
	return s, nil
}

// Insert appends v to the active segment and records the byte offset of
// its first byte under v.Key(). The offset is captured before the write,
// so it always addresses the start of the record just appended.
func (s *Store) Insert(v codec.Value) error {
	if s.active == "" {
		if s.cfg.autoCreate == "" {
			return ErrNoActiveSegment
		}
		s.active = s.cfg.autoCreate
	}

	f, err := os.OpenFile(s.active, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSegmentUnavailable, s.active, err)
	}
	defer f.Close()

	offset, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("appending to %s: %w", s.active, err)
	}

	if err := s.codec.Encode(f, v); err != nil {
		return fmt.Errorf("encoding record for %s: %w", s.active, err)
	}

	if s.cfg.syncWrites {
		if err := fsync.File(f); err != nil {
			return fmt.Errorf("syncing %s: %w", s.active, err)
		}
	}

	s.index.Record(v.Key(), index.Slot{Segment: s.active, Offset: offset})
	return nil
}

// Lookup returns every recorded version of key in insertion order, oldest
// first; the last element is the current version. An absent key yields an
// empty result, not an error.
func (s *Store) Lookup(key string) ([]codec.Value, error) {
	slots := s.index.Lookup(key)

	values := make([]codec.Value, 0, len(slots))
	for _, slot := range slots {
		v, err := s.readAt(slot)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// readAt decodes exactly one record at a saved slot. The handle is scoped
// to this call.
func (s *Store) readAt(slot index.Slot) (codec.Value, error) {
	f, err := os.Open(slot.Segment)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSegmentUnavailable, slot.Segment, err)
	}
	defer f.Close()

	if _, err := f.Seek(slot.Offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking in %s: %w", slot.Segment, err)
	}

	v, err := s.codec.Decode(f)
	if err != nil {
		return nil, &CorruptSegmentError{Segment: slot.Segment, Offset: slot.Offset, Err: err}
	}
	return v, nil
}

// Remove drops every index entry for key. This is a logical delete: the
// segment bytes holding the key's records stay exactly where they are.
func (s *Store) Remove(key string) {
	s.index.Remove(key)
}

// ClearIndex drops the whole index. Segment files are untouched.
func (s *Store) ClearIndex() {
	s.index.Clear()
}

// Keys returns all indexed keys in ascending order.
func (s *Store) Keys() []string {
	return s.index.Keys()
}

// Len reports the number of indexed keys.
func (s *Store) Len() int {
	return s.index.Len()
}

// ActiveSegment returns the path new inserts append to, or "" if the
// store has none yet.
func (s *Store) ActiveSegment() string {
	return s.active
}

// ActivateSegment redirects subsequent inserts to path, which is created
// on the next Insert if absent. Useful after IndexDirectory when the
// scanned segments should stay read-only.
func (s *Store) ActivateSegment(path string) {
	s.active = path
}

// IndexDirectory rebuilds the index from every regular file in dir, each
// treated as one segment. Files are scanned in lexicographic name order
// (os.ReadDir sorts them) — filesystem listing order is never relied on,
// so callers that need a meaningful cross-segment order should name
// segments accordingly, e.g. with sequence numbers or timestamps.
//
// Offsets are recorded against the file they were found in, so lookups
// read from the right segment. After the scan the rebuilt index replaces
// the old one and the last file found becomes the active segment; call
// ActivateSegment to pick a different one and keep the scanned segments
// read-only. A scan failure leaves the store exactly as it was: the old
// index and active segment stay in place.
func (s *Store) IndexDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading segment directory %s: %w", dir, err)
	}

	ix := index.New()
	active := s.active
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := s.scanSegment(ix, path); err != nil {
			return err
		}
		active = path
	}

	s.index = ix
	s.active = active
	return nil
}

// SaveSnapshot persists the current index to a bolt file at path, so a
// later LoadSnapshot can skip rescanning segments.
func (s *Store) SaveSnapshot(path string) error {
	return snapshot.Save(path, s.index)
}

// LoadSnapshot replaces the index with the contents of a snapshot written
// by SaveSnapshot. The active segment is left unchanged.
func (s *Store) LoadSnapshot(path string) error {
	ix := index.New()
	if err := snapshot.Load(path, ix); err != nil {
		return err
	}
	s.index = ix
	return nil
}
