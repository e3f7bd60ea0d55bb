package importjob

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// columnIndex resolves the accepted header aliases to their position in
// each data record. -1 means the column was not present in the header.
type columnIndex struct {
	lat       int
	lon       int
	subtotal  int
	timestamp int
}

var (
	latAliases       = []string{"lat", "latitude"}
	lonAliases       = []string{"lon", "longitude"}
	subtotalAliases  = []string{"subtotal", "amount"}
	timestampAliases = []string{"timestamp", "date"}

	timestampLayouts = []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
)

// resolveColumns maps a CSV header row to column positions, matching any of
// the accepted aliases case-insensitively. Unrecognized columns are
// ignored; lat, lon, and subtotal are required.
func resolveColumns(header []string) (columnIndex, error) {
	cols := columnIndex{lat: -1, lon: -1, subtotal: -1, timestamp: -1}

	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		switch {
		case containsAlias(latAliases, name):
			cols.lat = i
		case containsAlias(lonAliases, name):
			cols.lon = i
		case containsAlias(subtotalAliases, name):
			cols.subtotal = i
		case containsAlias(timestampAliases, name):
			cols.timestamp = i
		}
	}

	switch {
	case cols.lat < 0:
		return cols, fmt.Errorf("missing required column: lat|latitude")
	case cols.lon < 0:
		return cols, fmt.Errorf("missing required column: lon|longitude")
	case cols.subtotal < 0:
		return cols, fmt.Errorf("missing required column: subtotal|amount")
	}

	return cols, nil
}

func containsAlias(aliases []string, name string) bool {
	for _, a := range aliases {
		if a == name {
			return true
		}
	}
	return false
}

// parseRecords splits the decoded import text into a header row and its
// data records using the standard comma-separated dialect.
func parseRecords(text string) (header []string, records [][]string, err error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("empty input: no header row")
	}

	return all[0], all[1:], nil
}

// field returns the trimmed value at idx, or "" if idx is out of range.
func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

// isBlankRecord reports whether every field of rec is empty, which the
// import contract treats as a row-level error rather than silently skipping.
func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseRowTimestamp parses an optional ISO 8601 timestamp. A value with no
// time-zone offset is interpreted as UTC, matching time.Parse's default
// when the layout carries no zone designator. Returns nil, nil when raw is
// blank (the row falls back to the import's processing instant).
func parseRowTimestamp(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid timestamp %q", raw)
}

// parseRowCoordinate parses a decimal latitude/longitude field.
func parseRowCoordinate(raw, fieldName string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", fieldName, raw)
	}
	return v, nil
}

// countDataRows computes total_rows as (line count - 1), lower-bounded at
// zero, over the raw uploaded text rather than the parsed record count.
func countDataRows(text string) int {
	trimmed := strings.TrimRight(text, "\n")
	if trimmed == "" {
		return 0
	}
	n := strings.Count(trimmed, "\n")
	return n
}
