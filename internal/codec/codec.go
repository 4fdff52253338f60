// ABOUTME: Parses and formats performance values between display text and canonical numbers.
// ABOUTME: Times are MM:SS[.mmm] in seconds; distances are integer meters with an optional "m".
package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind selects the value grammar used by a discipline.
type Kind int

const (
	// KindTime values are MM:SS or MM:SS.mmm, canonical unit seconds.
	KindTime Kind = iota
	// KindDistance values are whole meters, canonical unit meters.
	KindDistance
)

func (k Kind) String() string {
	switch k {
	case KindTime:
		return "time"
	case KindDistance:
		return "distance"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Unit returns the canonical unit for the kind.
func (k Kind) Unit() string {
	if k == KindTime {
		return "s"
	}
	return "m"
}

// Parse converts text to its canonical value for the given kind.
func Parse(kind Kind, text string) (float64, error) {
	switch kind {
	case KindTime:
		return ParseTime(text)
	case KindDistance:
		meters, err := ParseDistance(text)
		if err != nil {
			return 0, err
		}
		return float64(meters), nil
	default:
		return 0, fmt.Errorf("parse %q: unknown value kind %v", text, kind)
	}
}

// Format renders a canonical value as display text for the given kind.
func Format(kind Kind, value float64) string {
	if kind == KindTime {
		return FormatTime(value)
	}
	return FormatDistance(int(math.Round(value)))
}

// maxMinutes keeps the millisecond total of MM:59.999 within int64.
const maxMinutes = (math.MaxInt64/1000 - 59) / 60

// ParseTime parses "MM:SS" or "MM:SS.mmm" into seconds.
//
// Only millisecond precision is kept: the fraction is truncated or
// right-padded to three digits, never rounded.
func ParseTime(text string) (float64, error) {
	s := strings.TrimSpace(text)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, formatErr(ErrInvalidFormat, text, "expected MM:SS or MM:SS.mmm")
	}

	minutes, err := parseWhole(parts[0])
	if err != nil {
		return 0, formatErr(err, text, "minutes")
	}
	if minutes < 0 {
		return 0, formatErr(ErrOutOfRange, text, "minutes must not be negative")
	}
	if int64(minutes) > maxMinutes {
		return 0, formatErr(ErrOutOfRange, text, "minutes too large")
	}

	secText, fracText, hasFrac := strings.Cut(parts[1], ".")
	seconds, err := parseWhole(secText)
	if err != nil {
		return 0, formatErr(err, text, "seconds")
	}
	if seconds < 0 || seconds >= 60 {
		return 0, formatErr(ErrOutOfRange, text, "seconds must be in [0,60)")
	}

	millis := 0
	if hasFrac {
		if fracText != "" && !isDigits(fracText) {
			return 0, formatErr(ErrInvalidFormat, text, "milliseconds")
		}
		fracText = (fracText + "000")[:3]
		millis, _ = strconv.Atoi(fracText)
	}
	if millis < 0 || millis >= 1000 {
		return 0, formatErr(ErrOutOfRange, text, "milliseconds must be in [0,1000)")
	}

	totalMillis := (int64(minutes)*60+int64(seconds))*1000 + int64(millis)
	return float64(totalMillis) / 1000, nil
}

// FormatTime renders seconds as "MM:SS", rounding half away from zero to
// the nearest whole second. Sub-second precision is dropped on display.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "--:--"
	}
	total := int64(math.Round(seconds))
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	return fmt.Sprintf("%s%02d:%02d", sign, total/60, total%60)
}

// FormatTimePrecise renders seconds as "MM:SS.mmm", or "MM:SS" when there are
// no milliseconds. Unlike FormatTime it is exact for anything ParseTime returns.
func FormatTimePrecise(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "--:--"
	}
	millis := int64(math.Round(seconds * 1000))
	sign := ""
	if millis < 0 {
		sign = "-"
		millis = -millis
	}
	whole := millis / 1000
	if frac := millis % 1000; frac != 0 {
		return fmt.Sprintf("%s%02d:%02d.%03d", sign, whole/60, whole%60, frac)
	}
	return fmt.Sprintf("%s%02d:%02d", sign, whole/60, whole%60)
}

// ParseDistance parses "<integer>" with an optional trailing "m" (any case)
// into meters.
func ParseDistance(text string) (int, error) {
	s := strings.TrimSpace(text)
	if n := len(s); n > 0 && (s[n-1] == 'm' || s[n-1] == 'M') {
		s = strings.TrimSpace(s[:n-1])
	}
	if s == "" {
		return 0, formatErr(ErrEmpty, text, "distance is required")
	}

	meters, err := strconv.Atoi(s)
	if err != nil {
		return 0, formatErr(ErrInvalidFormat, text, "distance must be a whole number of meters")
	}
	if meters < 0 {
		return 0, formatErr(ErrNegative, text, "distance must not be negative")
	}
	return meters, nil
}

// FormatDistance renders meters as "<n>m".
func FormatDistance(meters int) string {
	return strconv.Itoa(meters) + "m"
}

// parseWhole accepts an optional leading '-' followed by ASCII digits.
func parseWhole(s string) (int, error) {
	digits := strings.TrimPrefix(s, "-")
	if !isDigits(digits) {
		return 0, ErrInvalidFormat
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, ErrOutOfRange
	}
	if digits != s {
		n = -n
	}
	return n, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
