package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML-loadable policy configuration, in the same shape as
// the reference importer's internal/style.Config (a filter-rule YAML file
// for tag-based inclusion/exclusion) but adapted to the knobs this engine
// actually exposes: the length mode, a routable-key exception list, and
// the intersection dense map's sizing fraction.
type Config struct {
	// LengthMode selects the built-in Policy: "unit" (default, length
	// always 1) or "euclidean" (hypot of the endpoint delta, clamped to
	// uint16).
	LengthMode string `yaml:"length_mode,omitempty"`

	// RoutableKeys lists extra tag keys (compared exactly, no case
	// folding, same as the "highway" comparison) that widen Routable
	// beyond the spec's literal "highway"-only rule.
	RoutableKeys []string `yaml:"routable_keys,omitempty"`

	// IntersectionSizeFraction is a sizing fraction for the intersection
	// dense map, relative to the P1 node count; LoadConfig sets it to 0.5
	// when the file leaves it unset or non-positive. FromConfig and the
	// build command do not use it: the build sizes the map from
	// roadgraph.Options.IntersectionSizeFraction, which the build command
	// sets from its --intersection-size-fraction flag.
	IntersectionSizeFraction float64 `yaml:"intersection_size_fraction,omitempty"`

	// LuaScript, if set, is loaded by NewLuaPolicy in place of the
	// built-in length mode / routable keys above.
	LuaScript string `yaml:"lua_script,omitempty"`
}

// LoadConfig reads and parses a policy YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("policy: read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("policy: parse config %s: %w", path, err)
	}
	if cfg.IntersectionSizeFraction <= 0 {
		cfg.IntersectionSizeFraction = 0.5
	}
	return &cfg, nil
}

// DefaultConfig returns the spec's literal defaults: unit length, no
// routable-key exceptions, and the 0.5 intersection sizing fraction.
func DefaultConfig() *Config {
	return &Config{
		LengthMode:               "unit",
		IntersectionSizeFraction: 0.5,
	}
}

// keyed is a Policy that widens Routable whenever a way carries one of a
// configured set of extra tag keys, and delegates length to either Default
// or Euclidean depending on euclidean.
type keyed struct {
	keys      map[string]bool
	euclidean bool
}

// Routable implements Policy.
func (k *keyed) Routable(_ int64, tagKeys []string, defaultRoutable bool) bool {
	if defaultRoutable {
		return true
	}
	for _, key := range tagKeys {
		if k.keys[key] {
			return true
		}
	}
	return false
}

// EdgeLength implements Policy.
func (k *keyed) EdgeLength(dx, dy int32) uint16 {
	if k.euclidean {
		return Euclidean{}.EdgeLength(dx, dy)
	}
	return Default{}.EdgeLength(dx, dy)
}

// FromConfig builds the Policy a Config describes.
func FromConfig(cfg *Config) Policy {
	if cfg == nil {
		return Default{}
	}
	p := &keyed{
		keys:      make(map[string]bool, len(cfg.RoutableKeys)),
		euclidean: cfg.LengthMode == "euclidean",
	}
	for _, k := range cfg.RoutableKeys {
		p.keys[k] = true
	}
	return p
}
