package eqwho

import "strings"

// zoneFilter restricts snapshots to a set of zone names. A nil filter
// allows everything.
type zoneFilter struct {
	zones map[string]struct{}
}

// newZoneFilter builds a case-insensitive filter from zone names, ignoring
// blank entries. Returns nil when nothing remains, so the no-filter path
// stays allocation free.
func newZoneFilter(zones []string) *zoneFilter {
	set := make(map[string]struct{}, len(zones))
	for _, zone := range zones {
		zone = strings.ToLower(strings.TrimSpace(zone))
		if zone == "" {
			continue
		}
		set[zone] = struct{}{}
	}
	if len(set) == 0 {
		return nil
	}
	return &zoneFilter{zones: set}
}

// Allows reports whether a snapshot from the given zone passes the filter.
func (f *zoneFilter) Allows(location string) bool {
	if f == nil {
		return true
	}
	_, ok := f.zones[strings.ToLower(location)]
	return ok
}
