package policy

import "testing"

func TestDefaultRoutable(t *testing.T) {
	tests := []struct {
		name            string
		defaultRoutable bool
		want            bool
	}{
		{"passes through true", true, true},
		{"passes through false", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Default{}.Routable(1, []string{"building"}, tt.defaultRoutable)
			if got != tt.want {
				t.Errorf("Routable(...) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultEdgeLength(t *testing.T) {
	if got := (Default{}).EdgeLength(100, 200); got != 1 {
		t.Errorf("EdgeLength(...) = %d, want 1", got)
	}
}

func TestEuclideanEdgeLength(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy int32
		want   uint16
	}{
		{"3-4-5 triangle", 3, 4, 5},
		{"zero delta clamps to 1", 0, 0, 1},
		{"large delta clamps to max uint16", 100000, 100000, maxEdgeLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Euclidean{}.EdgeLength(tt.dx, tt.dy)
			if got != tt.want {
				t.Errorf("EdgeLength(%d, %d) = %d, want %d", tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestKeyedRoutableWidensOnly(t *testing.T) {
	cfg := &Config{RoutableKeys: []string{"tracktype", "footway"}}
	p := FromConfig(cfg)

	if !p.Routable(1, nil, true) {
		t.Errorf("Routable should stay true when defaultRoutable is true")
	}
	if !p.Routable(1, []string{"tracktype"}, false) {
		t.Errorf("Routable should widen to true for a configured key")
	}
	if p.Routable(1, []string{"building"}, false) {
		t.Errorf("Routable should stay false for an unconfigured key")
	}
}

func TestFromConfigNilUsesDefault(t *testing.T) {
	p := FromConfig(nil)
	if _, ok := p.(Default); !ok {
		t.Errorf("FromConfig(nil) = %T, want Default", p)
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LengthMode != "unit" {
		t.Errorf("LengthMode = %q, want unit", cfg.LengthMode)
	}
	if cfg.IntersectionSizeFraction != 0.5 {
		t.Errorf("IntersectionSizeFraction = %v, want 0.5", cfg.IntersectionSizeFraction)
	}
}
