package envcast

import (
	"maps"
	"slices"
)

// MapSource serves values from an injected map.
type MapSource map[string]string

// Lookup returns the value stored for name.
func (m MapSource) Lookup(name string) (string, bool) {
	value, ok := m[name]
	return value, ok
}

// Keys lists the map's names in sorted order.
func (m MapSource) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}
