package pbf

import (
	"testing"

	"github.com/paulmach/osm"
)

func TestIsRoutable(t *testing.T) {
	tests := []struct {
		name string
		tags osm.Tags
		want bool
	}{
		{"highway present", osm.Tags{{Key: "highway", Value: "residential"}}, true},
		{"highway among others", osm.Tags{{Key: "name", Value: "Main St"}, {Key: "highway", Value: "primary"}}, true},
		{"no highway", osm.Tags{{Key: "building", Value: "yes"}}, false},
		{"empty tags", osm.Tags{}, false},
		{"case mismatch not matched", osm.Tags{{Key: "Highway", Value: "yes"}}, false},
		{"prefix not matched", osm.Tags{{Key: "highways", Value: "yes"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRoutable(tt.tags); got != tt.want {
				t.Errorf("IsRoutable(%v) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}
}
