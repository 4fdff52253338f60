// ABOUTME: Table schema for performance records.
// ABOUTME: The stored value column is always recomputed from the original text on read.
package storage

import (
	"strconv"
	"strings"

	"github.com/harperreed/apnealog/internal/codec"
	"github.com/harperreed/apnealog/internal/models"
	"github.com/harperreed/apnealog/internal/sheets"
)

// Record table columns.
const (
	ColRecordID        = "id"
	ColUser            = "user"
	ColEntryDate       = "entry_date"
	ColDiscipline      = "discipline"
	ColOriginalValue   = "original_value"
	ColValue           = "value"
	ColLinkedSessionID = "linked_session_id"

	// colLegacySessionDate predates session links.
	colLegacySessionDate = "session_date"
)

var recordColumns = knownSet(ColRecordID, ColUser, ColEntryDate, ColDiscipline,
	ColOriginalValue, ColValue, ColLinkedSessionID)

// RecordRepository is the typed records collection.
type RecordRepository = Collection[models.PerformanceRecord]

// RecordSchema maps performance records to rows.
func RecordSchema() Schema[models.PerformanceRecord] {
	return Schema[models.PerformanceRecord]{
		Name:     "records",
		IDColumn: ColRecordID,
		Migrate:  migrateRecordRow,
		Decode:   decodeRecord,
		Encode:   encodeRecord,
		ID:       func(r models.PerformanceRecord) string { return r.ID },
	}
}

func migrateRecordRow(row *sheets.Row) bool {
	changed := backfill(row, ColLinkedSessionID, "")
	if retireLegacySessionDate(row) {
		changed = true
	}

	raw := row.Value(ColDiscipline)
	discipline := models.Discipline(raw)
	if d, err := models.ParseDiscipline(raw); err == nil {
		discipline = d
		if string(d) != raw {
			row.Set(ColDiscipline, string(d))
			changed = true
		}
	}
	kind := discipline.Kind()

	// Rows written before original_value existed carry only the number.
	if strings.TrimSpace(row.Value(ColOriginalValue)) == "" {
		if v, err := strconv.ParseFloat(strings.TrimSpace(row.Value(ColValue)), 64); err == nil {
			row.Set(ColOriginalValue, legacyValueText(kind, v))
			changed = true
		}
	}
	if backfill(row, ColOriginalValue, "") {
		changed = true
	}

	want := ""
	if v, err := codec.Parse(kind, row.Value(ColOriginalValue)); err == nil {
		want = formatValueCell(&v)
	}
	if got, ok := row.Get(ColValue); !ok || got != want {
		row.Set(ColValue, want)
		changed = true
	}
	return changed
}

// legacyValueText renders a stored number as text that parses back to it exactly.
func legacyValueText(kind codec.Kind, v float64) string {
	if kind == codec.KindTime {
		return codec.FormatTimePrecise(v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func decodeRecord(row sheets.Row) (models.PerformanceRecord, error) {
	entry, err := parseDateCell(row.Value(ColEntryDate))
	if err != nil {
		return models.PerformanceRecord{}, err
	}
	r := models.PerformanceRecord{
		ID:              row.Value(ColRecordID),
		User:            row.Value(ColUser),
		EntryDate:       entry,
		Discipline:      models.Discipline(row.Value(ColDiscipline)),
		OriginalValue:   row.Value(ColOriginalValue),
		LinkedSessionID: strings.TrimSpace(row.Value(ColLinkedSessionID)),
		Extra:           extraColumns(row, recordColumns),
	}
	if v, err := codec.Parse(r.Discipline.Kind(), r.OriginalValue); err == nil {
		r.Value = &v
	}
	return r, nil
}

func encodeRecord(r models.PerformanceRecord) sheets.Row {
	var value *float64
	if v, err := codec.Parse(r.Discipline.Kind(), r.OriginalValue); err == nil {
		value = &v
	}
	row := sheets.NewRow(
		ColRecordID, r.ID,
		ColUser, r.User,
		ColEntryDate, formatDateCell(r.EntryDate),
		ColDiscipline, string(r.Discipline),
		ColOriginalValue, r.OriginalValue,
		ColValue, formatValueCell(value),
		ColLinkedSessionID, r.LinkedSessionID,
	)
	appendExtra(&row, r.Extra, recordColumns)
	return row
}

// backfill sets col to def when absent and reports whether it did.
func backfill(row *sheets.Row, col, def string) bool {
	if row.Has(col) {
		return false
	}
	row.Set(col, def)
	return true
}

// retireLegacySessionDate drops session_date once a session link is set.
func retireLegacySessionDate(row *sheets.Row) bool {
	if !row.Has(colLegacySessionDate) {
		return false
	}
	if strings.TrimSpace(row.Value(ColLinkedSessionID)) == "" {
		return false
	}
	return row.Delete(colLegacySessionDate)
}
