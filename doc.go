// Package lake implements a file-backed, key-indexed record store: an
// append-only binary segment file paired with an in-memory offset index.
//
// Records are encoded by a pluggable serialization policy (see the codec
// package). Every insert appends one record to the active segment and
// remembers the byte offset where it starts; lookups seek straight to
// those offsets and decode exactly one record instead of scanning the
// file. Segments are never rewritten in place, so a key keeps its full
// version history and the index can be rebuilt at any time by rescanning
// one segment or a whole directory of them.
//
// The store is single-writer by design. Every operation takes one file
// handle, does its work and releases the handle; there is no locking and
// no cross-operation atomicity. To share a store between goroutines, wrap
// it in a mutex guarding the index and active segment; to share a segment
// between processes, add an advisory file lock. Neither is provided here.
//
// Example:
//
//	store, err := lake.Open("data.seg", codec.KVCodec{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := store.Insert(codec.KV{K: "greeting", V: "hello"}); err != nil {
//		log.Fatal(err)
//	}
//	values, err := store.Lookup("greeting")
package lake
