// ABOUTME: Cell conversions between sheet strings and typed fields.
// ABOUTME: Dates accept a few layouts seen in hand-edited sheets; bools accept sheet TRUE/FALSE.
package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/apnealog/internal/models"
)

var dateLayouts = []string{
	models.DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// parseDateCell reads a date. Blank is the zero time.
func parseDateCell(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.Date(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func formatDateCell(t time.Time) string {
	return models.FormatDate(t)
}

// parseBoolCell reads true/false in any case, 1/0, yes/no. Blank is false.
func parseBoolCell(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "0", "no", "n":
		return false, nil
	case "true", "1", "yes", "y":
		return true, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

func formatBoolCell(b bool) string {
	return strconv.FormatBool(b)
}

// formatValueCell renders a canonical value, or "" for none.
func formatValueCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func knownSet(cols ...string) map[string]bool {
	m := make(map[string]bool, len(cols))
	for _, c := range cols {
		m[c] = true
	}
	return m
}
