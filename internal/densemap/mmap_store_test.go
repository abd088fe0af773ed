package densemap

import (
	"path/filepath"
	"testing"
)

func TestCoordStorePutGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coords.tmp")
	store, err := NewCoordStore(path, 4)
	if err != nil {
		t.Fatalf("NewCoordStore: %v", err)
	}
	defer store.Close()

	store.Put(0, 10, -20)
	store.Put(3, -5, 5)

	if x, y := store.Get(0); x != 10 || y != -20 {
		t.Errorf("Get(0) = (%d, %d), want (10, -20)", x, y)
	}
	if x, y := store.Get(3); x != -5 || y != 5 {
		t.Errorf("Get(3) = (%d, %d), want (-5, 5)", x, y)
	}
	if x, y := store.Get(1); x != 0 || y != 0 {
		t.Errorf("Get(1) = (%d, %d), want zero-initialized (0, 0)", x, y)
	}
	if got := store.Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
}
