package service

import (
	"time"
)

// Cursors for the list endpoints are created-at timestamps in RFC 3339 with
// nanoseconds, opaque to clients.
const cursorLayout = time.RFC3339Nano

func parseCursor(cursor string) (time.Time, error) {
	t, err := time.Parse(cursorLayout, cursor)
	if err != nil {
		return time.Time{}, invalidf("invalid cursor")
	}
	return t, nil
}

func formatCursor(t time.Time) string {
	return t.UTC().Format(cursorLayout)
}

// clampLimit normalizes a client-supplied page size.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
