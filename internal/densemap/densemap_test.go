package densemap

import "testing"

func TestMapPutGet(t *testing.T) {
	m := New(8)

	m.Put(100, 0)
	m.Put(70, 1)
	m.Put(120, 2)

	tests := []struct {
		name string
		key  int64
		want uint32
	}{
		{"first", 100, 0},
		{"second", 70, 1},
		{"third", 120, 2},
		{"absent", 999, Absent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Get(tt.key); got != tt.want {
				t.Errorf("Get(%d) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}

func TestMapContains(t *testing.T) {
	m := New(4)
	m.Put(5, 0)

	if !m.Contains(5) {
		t.Error("Contains(5) = false, want true")
	}
	if m.Contains(6) {
		t.Error("Contains(6) = true, want false")
	}
}

func TestMapOverwrite(t *testing.T) {
	m := New(4)
	m.Put(42, 0)
	m.Put(42, 7)

	if got := m.Get(42); got != 7 {
		t.Errorf("Get(42) = %d, want 7", got)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestMapGrowsBeyondHint(t *testing.T) {
	m := New(4)
	for i := int64(0); i < 1000; i++ {
		m.Put(i, uint32(i))
	}
	for i := int64(0); i < 1000; i++ {
		if got := m.Get(i); got != uint32(i) {
			t.Fatalf("Get(%d) = %d, want %d", i, got, i)
		}
	}
	if m.Len() != 1000 {
		t.Errorf("Len() = %d, want 1000", m.Len())
	}
}

func TestMapNegativeKeys(t *testing.T) {
	m := New(8)
	m.Put(-5, 1)
	m.Put(5, 2)

	if got := m.Get(-5); got != 1 {
		t.Errorf("Get(-5) = %d, want 1", got)
	}
	if got := m.Get(5); got != 2 {
		t.Errorf("Get(5) = %d, want 2", got)
	}
}
