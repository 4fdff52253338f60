// ABOUTME: Table schemas for activity sessions and feedback entries.
// ABOUTME: Both carry opaque ids; feedback links to sessions like records do.
package storage

import (
	"strings"

	"github.com/harperreed/apnealog/internal/models"
	"github.com/harperreed/apnealog/internal/sheets"
)

// Session table columns.
const (
	ColSessionID   = "id"
	ColDate        = "date"
	ColPlace       = "place"
	ColDescription = "description"
)

// Feedback table columns.
const (
	ColFeedbackID     = "id"
	ColFeedbackDate   = "feedback_date"
	ColDiverName      = "diver_name"
	ColInstructorName = "instructor_name"
	ColText           = "text"
)

var (
	sessionColumns  = knownSet(ColSessionID, ColDate, ColPlace, ColDescription)
	feedbackColumns = knownSet(ColFeedbackID, ColFeedbackDate, ColDiverName, ColInstructorName,
		ColLinkedSessionID, ColText)
)

// SessionRepository is the typed sessions collection.
type SessionRepository = Collection[models.ActivitySession]

// FeedbackRepository is the typed feedback collection.
type FeedbackRepository = Collection[models.FeedbackEntry]

// SessionSchema maps sessions to rows.
func SessionSchema() Schema[models.ActivitySession] {
	return Schema[models.ActivitySession]{
		Name:     "sessions",
		IDColumn: ColSessionID,
		Migrate: func(row *sheets.Row) bool {
			return backfill(row, ColDescription, "")
		},
		Decode: decodeSession,
		Encode: encodeSession,
		ID:     func(s models.ActivitySession) string { return s.ID },
		Linked: true,
	}
}

func decodeSession(row sheets.Row) (models.ActivitySession, error) {
	date, err := parseDateCell(row.Value(ColDate))
	if err != nil {
		return models.ActivitySession{}, err
	}
	return models.ActivitySession{
		ID:          row.Value(ColSessionID),
		Date:        date,
		Place:       row.Value(ColPlace),
		Description: row.Value(ColDescription),
		Extra:       extraColumns(row, sessionColumns),
	}, nil
}

func encodeSession(s models.ActivitySession) sheets.Row {
	row := sheets.NewRow(
		ColSessionID, s.ID,
		ColDate, formatDateCell(s.Date),
		ColPlace, s.Place,
		ColDescription, s.Description,
	)
	appendExtra(&row, s.Extra, sessionColumns)
	return row
}

// FeedbackSchema maps feedback entries to rows.
func FeedbackSchema() Schema[models.FeedbackEntry] {
	return Schema[models.FeedbackEntry]{
		Name:     "feedback",
		IDColumn: ColFeedbackID,
		Migrate: func(row *sheets.Row) bool {
			changed := backfill(row, ColLinkedSessionID, "")
			if retireLegacySessionDate(row) {
				changed = true
			}
			return changed
		},
		Decode: decodeFeedback,
		Encode: encodeFeedback,
		ID:     func(f models.FeedbackEntry) string { return f.ID },
	}
}

func decodeFeedback(row sheets.Row) (models.FeedbackEntry, error) {
	date, err := parseDateCell(row.Value(ColFeedbackDate))
	if err != nil {
		return models.FeedbackEntry{}, err
	}
	return models.FeedbackEntry{
		ID:              row.Value(ColFeedbackID),
		FeedbackDate:    date,
		DiverName:       row.Value(ColDiverName),
		InstructorName:  row.Value(ColInstructorName),
		LinkedSessionID: strings.TrimSpace(row.Value(ColLinkedSessionID)),
		Text:            row.Value(ColText),
		Extra:           extraColumns(row, feedbackColumns),
	}, nil
}

func encodeFeedback(f models.FeedbackEntry) sheets.Row {
	row := sheets.NewRow(
		ColFeedbackID, f.ID,
		ColFeedbackDate, formatDateCell(f.FeedbackDate),
		ColDiverName, f.DiverName,
		ColInstructorName, f.InstructorName,
		ColLinkedSessionID, f.LinkedSessionID,
		ColText, f.Text,
	)
	appendExtra(&row, f.Extra, feedbackColumns)
	return row
}
