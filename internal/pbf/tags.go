package pbf

import "github.com/paulmach/osm"

// highwayKey is compared against byte-for-byte, no case folding, per
// spec.md §6: "is_routable(way) is true iff any key_idx resolves to the
// exact bytes 'highway' (length 7)."
var highwayKey = []byte("highway")

// IsRoutable reports whether a way carries a tag whose key is exactly
// "highway". The value is not inspected.
//
// The raw PBF string table (so tag keys can be compared without a copy)
// is spec.md §1's out-of-scope decoder's concern; paulmach/osm has
// already resolved key_idx into a Go string by the time tags reach here,
// so there is no remaining per-tag allocation to avoid at this layer — the
// byte comparison below is what's left of that contract once the decoder
// boundary has done its job.
func IsRoutable(tags osm.Tags) bool {
	for _, t := range tags {
		if tagKeyIsHighway(t.Key) {
			return true
		}
	}
	return false
}

func tagKeyIsHighway(key string) bool {
	if len(key) != len(highwayKey) {
		return false
	}
	for i := 0; i < len(highwayKey); i++ {
		if key[i] != highwayKey[i] {
			return false
		}
	}
	return true
}
