// ABOUTME: Shared formatting and parsing helpers for CLI output.
// ABOUTME: Provides truncate, padRight, shortID, and date flag parsing.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/apnealog/internal/models"
)

// parseDay parses a YYYY-MM-DD flag value. Blank means today.
func parseDay(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return models.Date(time.Now()), nil
	}
	t, err := models.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}

// orDash renders blank cells as a dash.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
