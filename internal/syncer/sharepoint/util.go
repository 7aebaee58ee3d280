package sharepoint

import (
	"fmt"
	"time"
)

// parseTimestamp reads the store's UTC timestamp form. Some tenants
// report fractional seconds, so RFC3339 is accepted as a fallback.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable timestamp %q: %w", s, err)
	}

	return t.UTC(), nil
}
