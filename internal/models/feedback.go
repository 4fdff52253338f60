// ABOUTME: FeedbackEntry model for instructor notes about a diver.
// ABOUTME: Diver and instructor are referenced by profile name, sessions by ID.
package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackEntry is free-text feedback from an instructor to a diver.
type FeedbackEntry struct {
	ID              string    `json:"id" yaml:"id"`
	FeedbackDate    time.Time `json:"feedback_date" yaml:"feedback_date"`
	DiverName       string    `json:"diver_name" yaml:"diver_name"`
	InstructorName  string    `json:"instructor_name" yaml:"instructor_name"`
	LinkedSessionID string    `json:"linked_session_id,omitempty" yaml:"linked_session_id,omitempty"`
	Text            string    `json:"text" yaml:"text"`
	Extra           []Column  `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// NewFeedbackEntry creates feedback dated today with a generated ID.
func NewFeedbackEntry(diver, instructor, text string) *FeedbackEntry {
	return &FeedbackEntry{
		ID:             uuid.NewString(),
		FeedbackDate:   Date(time.Now()),
		DiverName:      diver,
		InstructorName: instructor,
		Text:           text,
	}
}

// WithSession links the feedback to a session.
func (f *FeedbackEntry) WithSession(sessionID string) *FeedbackEntry {
	f.LinkedSessionID = sessionID
	return f
}

// WithDate overrides the feedback date.
func (f *FeedbackEntry) WithDate(t time.Time) *FeedbackEntry {
	f.FeedbackDate = Date(t)
	return f
}

// Mentions reports whether name appears as diver or instructor.
func (f *FeedbackEntry) Mentions(name string) bool {
	return f.DiverName == name || f.InstructorName == name
}
