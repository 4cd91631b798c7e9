// Package snapshot persists an index to a bolt file and reads it back,
// so a store can come up without rescanning its segments.
package snapshot

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"github.com/Nathan-E-White/Lake/internal/index"
)

var bucketName = []byte("index")

type slotRec struct {
	Segment string `msgpack:"s"`
	Offset  int64  `msgpack:"o"`
}

// Save writes the full contents of ix to a bolt file at path, replacing
// any previous snapshot there.
func Save(path string, ix *index.Index) error {
	db, err := bolt.Open(path, 0644, nil)
	if err != nil {
		return fmt.Errorf("opening snapshot %s: %w", path, err)
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketName); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		b, err := tx.CreateBucket(bucketName)
		if err != nil {
			return err
		}

		var failed error
		ix.Ascend(func(key string, slots []index.Slot) bool {
			recs := make([]slotRec, len(slots))
			for i, s := range slots {
				recs[i] = slotRec{Segment: s.Segment, Offset: s.Offset}
			}

			body, err := msgpack.Marshal(recs)
			if err != nil {
				failed = err
				return false
			}
			if err := b.Put([]byte(key), body); err != nil {
				failed = err
				return false
			}
			return true
		})
		return failed
	})
}

// Load reads a snapshot written by Save into ix. Slot histories keep their
// recorded order; bolt hands keys back sorted, so the rebuilt index
// iterates identically to the saved one.
func Load(path string, ix *index.Index) error {
	db, err := bolt.Open(path, 0644, &bolt.Options{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("opening snapshot %s: %w", path, err)
	}
	defer db.Close()

	return db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return fmt.Errorf("snapshot %s has no index bucket", path)
		}
		return b.ForEach(func(k, v []byte) error {
			var recs []slotRec
			if err := msgpack.Unmarshal(v, &recs); err != nil {
				return fmt.Errorf("snapshot entry %q: %w", k, err)
			}
			for _, r := range recs {
				ix.Record(string(k), index.Slot{Segment: r.Segment, Offset: r.Offset})
			}
			return nil
		})
	})
}
