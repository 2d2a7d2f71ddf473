package alpha

import (
	"reflect"
	"testing"
)

// Generic row loops share one compiled body per GC shape; storage types
// with the same underlying type would fall back to dictionary calls.
func TestStorageTypesHaveDistinctShapes(t *testing.T) {
	n := reflect.TypeOf(narrow(0))
	w := reflect.TypeOf(wide(0))
	if n.Kind() == w.Kind() || n.Size() == w.Size() {
		t.Errorf("narrow (%v, %d bytes) and wide (%v, %d bytes) share a shape", n.Kind(), n.Size(), w.Kind(), w.Size())
	}
}

func TestStorageLoadStore(t *testing.T) {
	row := make([]byte, 6)
	var n narrow
	n.store(row, 1, 200)
	if got := n.load(row, 1); got != 200 {
		t.Errorf("narrow load = %d, want 200", got)
	}
	var w wide
	w.store(row, 2, 60160)
	if got := w.load(row, 2); got != 60160 {
		t.Errorf("wide load = %d, want 60160", got)
	}
	if row[1] != 200 || row[0] != 0 || row[4] != 0 {
		t.Errorf("stores touched neighbouring bytes: %v", row)
	}
}
