// ABOUTME: Export and import of the four club collections.
// ABOUTME: Supports JSON, YAML, and Markdown leaderboard export formats.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/apnealog/internal/logger"
	"github.com/harperreed/apnealog/internal/models"
	"github.com/harperreed/apnealog/internal/ranking"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for club data.
type ExportData struct {
	Version    string                     `json:"version" yaml:"version"`
	ExportedAt time.Time                  `json:"exported_at" yaml:"exported_at"`
	Tool       string                     `json:"tool" yaml:"tool"`
	Records    []models.PerformanceRecord `json:"records" yaml:"records"`
	Profiles   []models.UserProfile       `json:"profiles" yaml:"profiles"`
	Sessions   []models.ActivitySession   `json:"sessions" yaml:"sessions"`
	Feedback   []models.FeedbackEntry     `json:"feedback" yaml:"feedback"`
}

// GetAllData loads every collection for export.
func (r *Repositories) GetAllData(ctx context.Context) (*ExportData, error) {
	records, err := r.Records.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	book, err := r.Profiles.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	sessions, err := r.Sessions.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	feedback, err := r.Feedback.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load feedback: %w", err)
	}

	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       "apnealog",
		Records:    records,
		Profiles:   book.All(),
		Sessions:   sessions,
		Feedback:   feedback,
	}, nil
}

// ImportData replaces all four collections with data. Tables are written in
// the order profiles, records, feedback, sessions; a failure stops the import
// and names the table that failed. Links to sessions absent from data are
// cleared before anything is written.
func (r *Repositories) ImportData(ctx context.Context, data *ExportData) error {
	book := models.NewProfileBook()
	for _, p := range data.Profiles {
		if strings.TrimSpace(p.UserName) == "" {
			return fmt.Errorf("import profiles: profile without a name")
		}
		if book.Has(p.UserName) {
			return fmt.Errorf("import profiles %q: %w", p.UserName, ErrDuplicateName)
		}
		book.Put(p)
	}

	known := make(map[string]bool, len(data.Sessions))
	for _, s := range data.Sessions {
		known[s.ID] = true
	}
	records := append([]models.PerformanceRecord(nil), data.Records...)
	feedback := append([]models.FeedbackEntry(nil), data.Feedback...)
	unlinked := 0
	for i := range records {
		if id := records[i].LinkedSessionID; id != "" && !known[id] {
			records[i].LinkedSessionID = ""
			unlinked++
		}
	}
	for i := range feedback {
		if id := feedback[i].LinkedSessionID; id != "" && !known[id] {
			feedback[i].LinkedSessionID = ""
			unlinked++
		}
	}
	if unlinked > 0 {
		r.Store.Logger().Warn(ctx, "import cleared links to missing sessions", logger.Int("links", unlinked))
	}

	if err := r.Profiles.replace(ctx, book); err != nil {
		return fmt.Errorf("import profiles: %w", err)
	}
	if err := r.Records.Save(ctx, records); err != nil {
		return fmt.Errorf("import records: %w", err)
	}
	if err := r.Feedback.Save(ctx, feedback); err != nil {
		return fmt.Errorf("import feedback: %w", err)
	}
	if err := r.Sessions.Save(ctx, data.Sessions); err != nil {
		return fmt.Errorf("import sessions: %w", err)
	}
	return nil
}

// ExportJSON exports all data as JSON.
func (r *Repositories) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := r.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func (r *Repositories) ExportYAML(ctx context.Context) ([]byte, error) {
	data, err := r.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ImportJSON imports data from JSON bytes.
func (r *Repositories) ImportJSON(ctx context.Context, raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return r.ImportData(ctx, &data)
}

// ImportYAML imports data from YAML bytes.
func (r *Repositories) ImportYAML(ctx context.Context, raw []byte) error {
	var data ExportData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal YAML: %w", err)
	}
	return r.ImportData(ctx, &data)
}

// ExportMarkdown renders per-discipline leaderboards and the session list.
// Anonymized divers are redacted.
func ExportMarkdown(data *ExportData) string {
	book := models.NewProfileBook()
	for _, p := range data.Profiles {
		book.Put(p)
	}
	users := ranking.KnownUsers(book, data.Records)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Apnea Club Export - %s\n\n", data.ExportedAt.Format(models.DateLayout)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", data.ExportedAt.Format(time.RFC3339)))

	for _, d := range models.AllDisciplines {
		entries := ranking.Redact(ranking.RankAll(d, data.Records, users), book)
		if len(entries) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", d.Label()))
		sb.WriteString("| Rank | Diver | Performance | Date |\n")
		sb.WriteString("|------|-------|-------------|------|\n")
		for _, e := range entries {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n",
				e.Rank, e.User, e.Record.DisplayValue(), models.FormatDate(e.Record.EntryDate)))
		}
		sb.WriteString("\n")
	}

	if len(data.Sessions) > 0 {
		sb.WriteString("## Sessions\n\n")
		sb.WriteString("| Date | Place | Description |\n")
		sb.WriteString("|------|-------|-------------|\n")
		for _, s := range data.Sessions {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
				models.FormatDate(s.Date), s.Place, s.Description))
		}
	}

	return sb.String()
}
