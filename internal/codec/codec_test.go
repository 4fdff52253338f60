// ABOUTME: Tests for time and distance parsing and formatting.
// ABOUTME: Covers error kinds, millisecond truncation, and lossy round-trip stability.
package codec

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr error
	}{
		{name: "minutes and seconds", input: "02:05", want: 125},
		{name: "milliseconds", input: "02:05.500", want: 125.5},
		{name: "single digit seconds", input: "02:5", want: 125},
		{name: "short fraction is padded", input: "00:10.5", want: 10.5},
		{name: "long fraction is truncated", input: "00:10.1239", want: 10.123},
		{name: "empty fraction", input: "01:00.", want: 60},
		{name: "surrounding whitespace", input: "  03:30 ", want: 210},
		{name: "large minutes", input: "125:00", want: 7500},
		{name: "no colon", input: "125", wantErr: ErrInvalidFormat},
		{name: "three parts", input: "01:02:03", wantErr: ErrInvalidFormat},
		{name: "empty", input: "", wantErr: ErrInvalidFormat},
		{name: "letters in minutes", input: "ab:10", wantErr: ErrInvalidFormat},
		{name: "letters in seconds", input: "01:1x", wantErr: ErrInvalidFormat},
		{name: "letters in fraction", input: "01:10.5a", wantErr: ErrInvalidFormat},
		{name: "empty minutes", input: ":10", wantErr: ErrInvalidFormat},
		{name: "seconds too large", input: "01:60", wantErr: ErrOutOfRange},
		{name: "negative seconds", input: "01:-5", wantErr: ErrOutOfRange},
		{name: "negative minutes", input: "-1:30", wantErr: ErrOutOfRange},
		{name: "minutes overflow milliseconds", input: "153722867280912931:00", wantErr: ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseTime(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTime(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{125.4, "02:05"},
		{125.5, "02:06"},
		{0, "00:00"},
		{59.6, "01:00"},
		{7500, "125:00"},
		{-30, "-00:30"},
		{math.NaN(), "--:--"},
	}

	for _, tt := range tests {
		if got := FormatTime(tt.seconds); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestTimeRoundTripIsStable(t *testing.T) {
	inputs := []string{"02:05", "02:05.500", "02:05.499", "00:59.999", "10:00.001", "4:7", "00:00.5"}

	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			first, err := ParseTime(s)
			if err != nil {
				t.Fatalf("ParseTime(%q): %v", s, err)
			}
			again, err := ParseTime(FormatTime(first))
			if err != nil {
				t.Fatalf("ParseTime(FormatTime(%v)): %v", first, err)
			}
			if again != math.Round(first) {
				t.Errorf("round trip of %q = %v, want %v", s, again, math.Round(first))
			}
			// A second lossy pass changes nothing.
			third, _ := ParseTime(FormatTime(again))
			if third != again {
				t.Errorf("second round trip of %q = %v, want %v", s, third, again)
			}
		})
	}
}

func TestParseDistance(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr error
	}{
		{input: "75m", want: 75},
		{input: "75", want: 75},
		{input: " 100 M ", want: 100},
		{input: "50 m", want: 50},
		{input: "0", want: 0},
		{input: "", wantErr: ErrEmpty},
		{input: "m", wantErr: ErrEmpty},
		{input: "   ", wantErr: ErrEmpty},
		{input: "-3", wantErr: ErrNegative},
		{input: "-3m", wantErr: ErrNegative},
		{input: "1.5", wantErr: ErrInvalidFormat},
		{input: "seventy", wantErr: ErrInvalidFormat},
		{input: "75km", wantErr: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDistance(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseDistance(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDistance(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDistance(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestDistanceRoundTrip(t *testing.T) {
	for _, s := range []string{"75m", "75", " 120 M", "0m"} {
		first, err := ParseDistance(s)
		if err != nil {
			t.Fatalf("ParseDistance(%q): %v", s, err)
		}
		again, err := ParseDistance(FormatDistance(first))
		if err != nil {
			t.Fatalf("ParseDistance(FormatDistance(%d)): %v", first, err)
		}
		if again != first {
			t.Errorf("round trip of %q = %d, want %d", s, again, first)
		}
	}
}

func TestFormatErrorEchoesInput(t *testing.T) {
	_, err := ParseTime("7 minutes")
	if err == nil {
		t.Fatal("expected error")
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FormatError, got %T", err)
	}
	if fe.Input != "7 minutes" {
		t.Errorf("Input = %q, want %q", fe.Input, "7 minutes")
	}
	if !strings.Contains(err.Error(), `"7 minutes"`) {
		t.Errorf("error message %q does not echo input", err.Error())
	}
}

func TestParseAndFormatByKind(t *testing.T) {
	v, err := Parse(KindTime, "01:30.250")
	if err != nil || v != 90.25 {
		t.Errorf("Parse(time) = %v, %v; want 90.25", v, err)
	}
	v, err = Parse(KindDistance, "80m")
	if err != nil || v != 80 {
		t.Errorf("Parse(distance) = %v, %v; want 80", v, err)
	}
	if got := Format(KindTime, 90.25); got != "01:30" {
		t.Errorf("Format(time) = %q, want 01:30", got)
	}
	if got := Format(KindDistance, 80); got != "80m" {
		t.Errorf("Format(distance) = %q, want 80m", got)
	}
	if _, err := Parse(Kind(9), "1"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestFormatTimePreciseIsExact(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{125.5, "02:05.500"},
		{125, "02:05"},
		{10.123, "00:10.123"},
		{0.001, "00:00.001"},
	}

	for _, tt := range tests {
		got := FormatTimePrecise(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatTimePrecise(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
		back, err := ParseTime(got)
		if err != nil || back != tt.seconds {
			t.Errorf("ParseTime(%q) = %v, %v; want %v", got, back, err, tt.seconds)
		}
	}
}
