package main

import (
	"fmt"
	"strings"
)

// NormalizeZones cleans up zone names given on the command line. It trims
// whitespace and removes case-insensitive duplicates while keeping the
// spelling of the first occurrence. Zone matching itself is case-insensitive,
// so "kael drakkal" and "Kael Drakkal" select the same snapshots.
func NormalizeZones(values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	result := make([]string, 0, len(values))
	seen := make(map[string]struct{})

	for _, raw := range values {
		zone := strings.TrimSpace(raw)
		if zone == "" {
			return nil, fmt.Errorf("empty zone name provided (input: %q)", raw)
		}

		key := strings.ToLower(zone)
		if _, dup := seen[key]; dup {
			continue // ignore duplicates silently
		}
		seen[key] = struct{}{}
		result = append(result, zone)
	}

	return result, nil
}
