package sqlite

import (
	"database/sql"
	"time"
)

// ─── Safe Conversions ───────────────────────────────────────────────────────
// Raw rows come from external collectors and may carry NULLs or timestamps
// in more than one layout. These helpers apply the store's safe-default
// policy explicitly, per field: a value that cannot be converted becomes
// its zero default (or nil for genuinely nullable columns), never an error.
// Score quality degrades gracefully; a request never fails on one bad row.

// timeLayouts are the accepted timestamp encodings, most common first.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// parseTime converts a text timestamp, returning the zero time when the
// column is NULL or unparsable.
func parseTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s.String); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseTimePtr is parseTime for nullable date columns: NULL or unparsable
// stays nil so callers can distinguish "never happened" from a real date.
func parseTimePtr(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t := parseTime(s)
	if t.IsZero() {
		return nil
	}
	return &t
}

// floatOrZero collapses a NULL numeric column to 0.0.
func floatOrZero(v sql.NullFloat64) float64 {
	if !v.Valid {
		return 0.0
	}
	return v.Float64
}

// floatPtr keeps NULL observable for columns where absence matters
// (balance-after, credit limit, principal).
func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// intPtr keeps NULL observable for nullable counters.
func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

// stringOrEmpty collapses a NULL text column to "".
func stringOrEmpty(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}
