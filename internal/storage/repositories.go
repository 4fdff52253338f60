// ABOUTME: Repositories bundles the four club collections over one TableStore.
// ABOUTME: Table names are configurable; the location is the sheet document identity.
package storage

import (
	"github.com/harperreed/apnealog/internal/models"
	"github.com/harperreed/apnealog/internal/sheets"
)

// Tables names the four tables inside a location.
type Tables struct {
	Records  string `koanf:"records" yaml:"records,omitempty"`
	Profiles string `koanf:"profiles" yaml:"profiles,omitempty"`
	Sessions string `koanf:"sessions" yaml:"sessions,omitempty"`
	Feedback string `koanf:"feedback" yaml:"feedback,omitempty"`
}

// DefaultTables returns the standard table names.
func DefaultTables() Tables {
	return Tables{
		Records:  "records",
		Profiles: "profiles",
		Sessions: "sessions",
		Feedback: "feedback",
	}
}

// withDefaults fills blank names.
func (t Tables) withDefaults() Tables {
	def := DefaultTables()
	if t.Records == "" {
		t.Records = def.Records
	}
	if t.Profiles == "" {
		t.Profiles = def.Profiles
	}
	if t.Sessions == "" {
		t.Sessions = def.Sessions
	}
	if t.Feedback == "" {
		t.Feedback = def.Feedback
	}
	return t
}

// IDs returns the table ids in save order: profiles, records, feedback, sessions.
func (t Tables) IDs(location string) []sheets.TableID {
	t = t.withDefaults()
	return []sheets.TableID{
		{Location: location, Name: t.Profiles},
		{Location: location, Name: t.Records},
		{Location: location, Name: t.Feedback},
		{Location: location, Name: t.Sessions},
	}
}

// Repositories groups the club collections.
type Repositories struct {
	Store    *TableStore
	Records  *RecordRepository
	Profiles *ProfileRepository
	Sessions *SessionRepository
	Feedback *FeedbackRepository
}

// NewRepositories binds every collection to its table in location.
func NewRepositories(store *TableStore, location string, tables Tables) *Repositories {
	tables = tables.withDefaults()
	id := func(name string) sheets.TableID {
		return sheets.TableID{Location: location, Name: name}
	}
	return &Repositories{
		Store:    store,
		Records:  NewCollection[models.PerformanceRecord](store, id(tables.Records), RecordSchema()),
		Profiles: NewProfileRepository(store, id(tables.Profiles)),
		Sessions: NewCollection[models.ActivitySession](store, id(tables.Sessions), SessionSchema()),
		Feedback: NewCollection[models.FeedbackEntry](store, id(tables.Feedback), FeedbackSchema()),
	}
}

// Close closes the underlying transport.
func (r *Repositories) Close() error {
	return r.Store.Transport().Close()
}
