// ABOUTME: PerformanceRecord model and shared date helpers.
// ABOUTME: The canonical value is only ever derived from the text as entered.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/apnealog/internal/codec"
)

// DateLayout is the calendar date format used in every table.
const DateLayout = "2006-01-02"

// Column is a sheet column the models do not know about. Extra columns are
// carried through load and save unchanged.
type Column struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// PerformanceRecord is one recorded performance of a diver.
type PerformanceRecord struct {
	ID              string     `json:"id" yaml:"id"`
	User            string     `json:"user" yaml:"user"`
	EntryDate       time.Time  `json:"entry_date" yaml:"entry_date"`
	Discipline      Discipline `json:"discipline" yaml:"discipline"`
	OriginalValue   string     `json:"original_value" yaml:"original_value"`
	Value           *float64   `json:"value,omitempty" yaml:"value,omitempty"` // seconds or meters; nil when OriginalValue does not parse
	LinkedSessionID string     `json:"linked_session_id,omitempty" yaml:"linked_session_id,omitempty"`
	Extra           []Column   `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// NewPerformanceRecord creates a record dated today with a generated ID.
// It fails with a *codec.FormatError when valueText does not parse.
func NewPerformanceRecord(user string, discipline Discipline, valueText string) (*PerformanceRecord, error) {
	r := &PerformanceRecord{
		ID:         uuid.NewString(),
		User:       user,
		EntryDate:  Date(time.Now()),
		Discipline: discipline,
	}
	if err := r.SetValue(valueText); err != nil {
		return nil, err
	}
	return r, nil
}

// SetValue replaces the entered text and its canonical value together.
// On error the record is left untouched.
func (r *PerformanceRecord) SetValue(text string) error {
	v, err := codec.Parse(r.Discipline.Kind(), text)
	if err != nil {
		return err
	}
	r.OriginalValue = text
	r.Value = &v
	return nil
}

// HasValue reports whether the record carries a usable canonical value.
func (r *PerformanceRecord) HasValue() bool {
	return r.Value != nil
}

// DisplayValue formats the canonical value, falling back to the raw text.
func (r *PerformanceRecord) DisplayValue() string {
	if r.Value == nil {
		return r.OriginalValue
	}
	return codec.Format(r.Discipline.Kind(), *r.Value)
}

// WithEntryDate sets the entry date (time of day is dropped).
func (r *PerformanceRecord) WithEntryDate(t time.Time) *PerformanceRecord {
	r.EntryDate = Date(t)
	return r
}

// WithSession links the record to an activity session.
func (r *PerformanceRecord) WithSession(sessionID string) *PerformanceRecord {
	r.LinkedSessionID = sessionID
	return r
}

// Date truncates t to a UTC calendar date.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a date as YYYY-MM-DD, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
