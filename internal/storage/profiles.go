// ABOUTME: Table schema and repository for user profiles, keyed by user name.
// ABOUTME: Saves always re-stamp each row's name from its key in the ProfileBook.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/apnealog/internal/logger"
	"github.com/harperreed/apnealog/internal/models"
	"github.com/harperreed/apnealog/internal/sheets"
)

// Profile table columns.
const (
	ColUserName          = "user_name"
	ColCertification     = "certification"
	ColCertificationDate = "certification_date"
	ColLifrasID          = "lifras_id"
	ColAnonymize         = "anonymize"
	ColAIConsent         = "ai_consent"
	ColNotes             = "notes"
)

var profileColumns = knownSet(ColUserName, ColCertification, ColCertificationDate,
	ColLifrasID, ColAnonymize, ColAIConsent, ColNotes)

// profileDefaults are backfilled, in this order, when a column is missing.
var profileDefaults = []models.Column{
	{Name: ColCertification, Value: string(models.CertNone)},
	{Name: ColCertificationDate, Value: ""},
	{Name: ColLifrasID, Value: ""},
	{Name: ColAnonymize, Value: "false"},
	{Name: ColAIConsent, Value: "false"},
	{Name: ColNotes, Value: ""},
}

// ProfileSchema maps profiles to rows.
func ProfileSchema() Schema[models.UserProfile] {
	return Schema[models.UserProfile]{
		Name:    "profiles",
		Migrate: migrateProfileRow,
		Decode:  decodeProfile,
		Encode:  encodeProfile,
		ID:      func(p models.UserProfile) string { return p.UserName },
	}
}

func migrateProfileRow(row *sheets.Row) bool {
	changed := false
	for _, def := range profileDefaults {
		if backfill(row, def.Name, def.Value) {
			changed = true
		}
	}
	if strings.TrimSpace(row.Value(ColCertification)) == "" {
		row.Set(ColCertification, string(models.CertNone))
		changed = true
	}
	return changed
}

func decodeProfile(row sheets.Row) (models.UserProfile, error) {
	p := models.UserProfile{
		UserName: strings.TrimSpace(row.Value(ColUserName)),
		LifrasID: row.Value(ColLifrasID),
		Notes:    row.Value(ColNotes),
		Extra:    extraColumns(row, profileColumns),
	}

	raw := row.Value(ColCertification)
	if c, err := models.ParseCertification(raw); err == nil {
		p.Certification = c
	} else {
		p.Certification = models.Certification(raw)
	}

	d, err := parseDateCell(row.Value(ColCertificationDate))
	if err != nil {
		return p, err
	}
	if !d.IsZero() {
		p.CertificationDate = &d
	}

	if p.Anonymize, err = parseBoolCell(row.Value(ColAnonymize)); err != nil {
		return p, fmt.Errorf("%s: %w", ColAnonymize, err)
	}
	if p.AIConsent, err = parseBoolCell(row.Value(ColAIConsent)); err != nil {
		return p, fmt.Errorf("%s: %w", ColAIConsent, err)
	}
	return p, nil
}

func encodeProfile(p models.UserProfile) sheets.Row {
	certDate := ""
	if p.CertificationDate != nil {
		certDate = formatDateCell(*p.CertificationDate)
	}
	cert := p.Certification
	if cert == "" {
		cert = models.CertNone
	}
	row := sheets.NewRow(
		ColUserName, p.UserName,
		ColCertification, string(cert),
		ColCertificationDate, certDate,
		ColLifrasID, p.LifrasID,
		ColAnonymize, formatBoolCell(p.Anonymize),
		ColAIConsent, formatBoolCell(p.AIConsent),
		ColNotes, p.Notes,
	)
	appendExtra(&row, p.Extra, profileColumns)
	return row
}

// ProfileRepository loads profiles into a name-keyed book.
type ProfileRepository struct {
	coll *Collection[models.UserProfile]
	log  logger.Logger
}

// NewProfileRepository binds the profile schema to table.
func NewProfileRepository(store *TableStore, table sheets.TableID) *ProfileRepository {
	coll := NewCollection(store, table, ProfileSchema())
	return &ProfileRepository{coll: coll, log: coll.log}
}

// Table returns the profile table.
func (r *ProfileRepository) Table() sheets.TableID {
	return r.coll.Table()
}

// ProfileProblem is a profile row that Load skipped.
type ProfileProblem struct {
	Row    int // 1-based data row
	Name   string
	Reason string
}

// Load returns every profile keyed by name. Rows with a blank name are skipped,
// and for repeated names the first row wins. Save refuses to drop such rows;
// see Problems.
func (r *ProfileRepository) Load(ctx context.Context) (*models.ProfileBook, error) {
	items, err := r.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	book, problems := buildBook(items)
	for _, p := range problems {
		r.log.Warn(ctx, "skipping profile row", logger.Int("row", p.Row),
			logger.String("user", p.Name), logger.String("reason", p.Reason))
	}
	return book, nil
}

// Problems lists the profile rows Load skips.
func (r *ProfileRepository) Problems(ctx context.Context) ([]ProfileProblem, error) {
	items, err := r.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	_, problems := buildBook(items)
	return problems, nil
}

func buildBook(items []models.UserProfile) (*models.ProfileBook, []ProfileProblem) {
	book := models.NewProfileBook()
	var problems []ProfileProblem
	for i, p := range items {
		switch {
		case strings.TrimSpace(p.UserName) == "":
			problems = append(problems, ProfileProblem{Row: i + 1, Reason: "blank name"})
		case book.Has(p.UserName):
			problems = append(problems, ProfileProblem{Row: i + 1, Name: p.UserName, Reason: "duplicate name"})
		default:
			book.Put(p)
		}
	}
	return book, problems
}

// Save rewrites the profile table from book. It fails with a
// *SkippedProfilesError, and writes nothing, while the stored table has rows
// Load skipped, since the rewrite would delete them.
func (r *ProfileRepository) Save(ctx context.Context, book *models.ProfileBook) error {
	problems, err := r.Problems(ctx)
	if err != nil {
		return err
	}
	if len(problems) > 0 {
		return &SkippedProfilesError{Table: r.coll.Table(), Problems: problems}
	}
	return r.coll.Save(ctx, book.All())
}

// replace rewrites the profile table without checking the stored rows.
func (r *ProfileRepository) replace(ctx context.Context, book *models.ProfileBook) error {
	return r.coll.Save(ctx, book.All())
}

// Get returns the profile named name.
func (r *ProfileRepository) Get(ctx context.Context, name string) (models.UserProfile, error) {
	book, err := r.Load(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	p, ok := book.Get(name)
	if !ok {
		return models.UserProfile{}, fmt.Errorf("profile %q: %w", name, ErrNotFound)
	}
	return p, nil
}

// Add inserts a new profile. Existing names are rejected.
func (r *ProfileRepository) Add(ctx context.Context, p models.UserProfile) error {
	p.UserName = strings.TrimSpace(p.UserName)
	if p.UserName == "" {
		return fmt.Errorf("add profile: name is required")
	}
	book, err := r.Load(ctx)
	if err != nil {
		return err
	}
	if book.Has(p.UserName) {
		return fmt.Errorf("add profile %q: %w", p.UserName, ErrDuplicateName)
	}
	book.Put(p)
	return r.Save(ctx, book)
}

// Update edits a profile in place. The name cannot change here; renames go
// through the integrity coordinator.
func (r *ProfileRepository) Update(ctx context.Context, name string, fn func(*models.UserProfile) error) (models.UserProfile, error) {
	book, err := r.Load(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	p, ok := book.Get(name)
	if !ok {
		return models.UserProfile{}, fmt.Errorf("profile %q: %w", name, ErrNotFound)
	}
	if err := fn(&p); err != nil {
		return models.UserProfile{}, err
	}
	p.UserName = name
	book.Put(p)
	if err := r.Save(ctx, book); err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}
