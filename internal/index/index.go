// Package index holds the in-memory mapping from key to the on-disk
// history of that key's records.
package index

import "github.com/google/btree"

// Slot locates one encoded record: the segment file it lives in and the
// byte offset of its first byte within that file.
type Slot struct {
	Segment string
	Offset  int64
}

type item struct {
	key   string
	slots []Slot
}

func (i item) Less(than btree.Item) bool {
	return i.key < than.(item).key
}

// Index maps each key to its slots in insertion order, oldest first; the
// last slot for a key is the most recent version. Keys iterate in
// ascending order.
//
// An Index never touches the filesystem. Recording, removing and clearing
// affect only the mapping; segment bytes stay where they are.
type Index struct {
	tree *btree.BTree
}

const degree = 32

func New() *Index {
	return &Index{tree: btree.New(degree)}
}

// Record appends s to the slot history of key, creating the history if the
// key is new.
func (ix *Index) Record(key string, s Slot) {
	if got := ix.tree.Get(item{key: key}); got != nil {
		it := got.(item)
		it.slots = append(it.slots, s)
		ix.tree.ReplaceOrInsert(it)
		return
	}
	ix.tree.ReplaceOrInsert(item{key: key, slots: []Slot{s}})
}

// Lookup returns the full slot history for key, oldest first. An absent
// key yields an empty result. The returned slice is the caller's to keep.
func (ix *Index) Lookup(key string) []Slot {
	got := ix.tree.Get(item{key: key})
	if got == nil {
		return nil
	}
	slots := got.(item).slots
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}

// Remove drops every slot recorded for key. Removing an absent key is a
// no-op.
func (ix *Index) Remove(key string) {
	ix.tree.Delete(item{key: key})
}

// Clear drops all entries.
func (ix *Index) Clear() {
	ix.tree.Clear(false)
}

// Len reports the number of indexed keys.
func (ix *Index) Len() int {
	return ix.tree.Len()
}

// Keys returns all indexed keys in ascending order.
func (ix *Index) Keys() []string {
	keys := make([]string, 0, ix.tree.Len())
	ix.tree.Ascend(func(i btree.Item) bool {
		keys = append(keys, i.(item).key)
		return true
	})
	return keys
}

// Ascend visits every key in ascending order until fn returns false. The
// slots slice passed to fn must not be retained or modified.
func (ix *Index) Ascend(fn func(key string, slots []Slot) bool) {
	ix.tree.Ascend(func(i btree.Item) bool {
		it := i.(item)
		return fn(it.key, it.slots)
	})
}
