// ABOUTME: ActivitySession model for club training sessions.
// ABOUTME: Records and feedback point at sessions by their opaque ID.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivitySession is one dated club outing or pool session.
type ActivitySession struct {
	ID          string    `json:"id" yaml:"id"`
	Date        time.Time `json:"date" yaml:"date"`
	Place       string    `json:"place" yaml:"place"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Extra       []Column  `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// NewActivitySession creates a session with a generated ID.
func NewActivitySession(date time.Time, place string) *ActivitySession {
	return &ActivitySession{
		ID:    uuid.NewString(),
		Date:  Date(date),
		Place: place,
	}
}

// WithDescription sets the session description.
func (s *ActivitySession) WithDescription(desc string) *ActivitySession {
	s.Description = desc
	return s
}

// Title renders "date - place" for pickers and listings.
func (s *ActivitySession) Title() string {
	return FormatDate(s.Date) + " - " + s.Place
}
