package index

import (
	"reflect"
	"testing"
)

func TestIndexRecordAndLookup(t *testing.T) {
	ix := New()

	ix.Record("a", Slot{Segment: "seg-000", Offset: 0})
	ix.Record("b", Slot{Segment: "seg-000", Offset: 30})
	ix.Record("a", Slot{Segment: "seg-001", Offset: 0})

	t.Run("lookup returns full history in insertion order", func(t *testing.T) {
		got := ix.Lookup("a")
		want := []Slot{
			{Segment: "seg-000", Offset: 0},
			{Segment: "seg-001", Offset: 0},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Lookup(a) = %v, want %v", got, want)
		}
	})

	t.Run("lookup of absent key is empty, not an error", func(t *testing.T) {
		if got := ix.Lookup("missing"); len(got) != 0 {
			t.Errorf("Lookup(missing) = %v, want empty", got)
		}
	})

	t.Run("returned history is a copy", func(t *testing.T) {
		got := ix.Lookup("a")
		got[0] = Slot{Segment: "tampered", Offset: 999}

		again := ix.Lookup("a")
		if again[0].Segment != "seg-000" {
			t.Errorf("mutating a Lookup result leaked into the index: %v", again[0])
		}
	})
}

func TestIndexRemove(t *testing.T) {
	ix := New()
	ix.Record("a", Slot{Segment: "seg", Offset: 0})
	ix.Record("b", Slot{Segment: "seg", Offset: 30})

	ix.Remove("a")

	if got := ix.Lookup("a"); len(got) != 0 {
		t.Errorf("Lookup(a) after Remove = %v, want empty", got)
	}
	if got := ix.Lookup("b"); len(got) != 1 {
		t.Errorf("Remove(a) disturbed b: %v", got)
	}

	// Removing an absent key is a no-op.
	ix.Remove("missing")
}

func TestIndexClear(t *testing.T) {
	ix := New()
	ix.Record("a", Slot{Segment: "seg", Offset: 0})
	ix.Record("b", Slot{Segment: "seg", Offset: 30})

	ix.Clear()

	if ix.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", ix.Len())
	}
	if got := ix.Lookup("a"); len(got) != 0 {
		t.Errorf("Lookup(a) after Clear = %v, want empty", got)
	}
}

func TestIndexKeysAreAscending(t *testing.T) {
	ix := New()
	for _, key := range []string{"pear", "apple", "quince", "banana"} {
		ix.Record(key, Slot{Segment: "seg", Offset: 0})
	}

	got := ix.Keys()
	want := []string{"apple", "banana", "pear", "quince"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestIndexAscendVisitsEveryKeyInOrder(t *testing.T) {
	ix := New()
	ix.Record("b", Slot{Segment: "seg", Offset: 10})
	ix.Record("a", Slot{Segment: "seg", Offset: 0})
	ix.Record("a", Slot{Segment: "seg", Offset: 20})

	var keys []string
	var slotCounts []int
	ix.Ascend(func(key string, slots []Slot) bool {
		keys = append(keys, key)
		slotCounts = append(slotCounts, len(slots))
		return true
	})

	if !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Errorf("Ascend visited %v, want [a b]", keys)
	}
	if !reflect.DeepEqual(slotCounts, []int{2, 1}) {
		t.Errorf("slot counts = %v, want [2 1]", slotCounts)
	}
}
