// ABOUTME: Best-performance selection and per-discipline rankings.
// ABOUTME: Ties keep the first candidate encountered; ranks are never collapsed.
package ranking

import (
	"sort"

	"github.com/harperreed/apnealog/internal/models"
)

// AnonymousName replaces the names of divers who asked to be anonymized.
const AnonymousName = "Anonymous"

// Entry is one line of a ranking.
type Entry struct {
	Rank   int                      `json:"rank" yaml:"rank"`
	User   string                   `json:"user" yaml:"user"`
	Record models.PerformanceRecord `json:"record" yaml:"record"`
}

// BestFor returns user's best record in discipline. Records without a
// canonical value are ignored. On equal values the earliest record in
// input order wins.
func BestFor(user string, discipline models.Discipline, records []models.PerformanceRecord) (models.PerformanceRecord, bool) {
	var best models.PerformanceRecord
	found := false
	for _, r := range records {
		if r.User != user || !qualifies(r, discipline) {
			continue
		}
		if !found || discipline.Better(*r.Value, *best.Value) {
			best = r
			found = true
		}
	}
	return best, found
}

// RankAll ranks every known user by their best record in discipline.
// Users without a qualifying record are left out. Equal values keep the
// order of knownUsers and still get distinct consecutive ranks.
func RankAll(discipline models.Discipline, records []models.PerformanceRecord, knownUsers []string) []Entry {
	best := make(map[string]models.PerformanceRecord)
	known := make(map[string]bool, len(knownUsers))
	for _, u := range knownUsers {
		known[u] = true
	}
	for _, r := range records {
		if !known[r.User] || !qualifies(r, discipline) {
			continue
		}
		if cur, ok := best[r.User]; !ok || discipline.Better(*r.Value, *cur.Value) {
			best[r.User] = r
		}
	}

	entries := make([]Entry, 0, len(best))
	listed := make(map[string]bool, len(best))
	for _, u := range knownUsers {
		r, ok := best[u]
		if !ok || listed[u] {
			continue
		}
		listed[u] = true
		entries = append(entries, Entry{User: u, Record: r})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return discipline.Better(*entries[i].Record.Value, *entries[j].Record.Value)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// PersonalBest is a user's best record in one discipline.
type PersonalBest struct {
	Discipline models.Discipline        `json:"discipline" yaml:"discipline"`
	Record     models.PerformanceRecord `json:"record" yaml:"record"`
}

// PersonalBests returns user's best per discipline, in discipline order.
func PersonalBests(user string, records []models.PerformanceRecord) []PersonalBest {
	var out []PersonalBest
	for _, d := range models.AllDisciplines {
		if r, ok := BestFor(user, d, records); ok {
			out = append(out, PersonalBest{Discipline: d, Record: r})
		}
	}
	return out
}

// ClubBest is the top entry of one discipline.
type ClubBest struct {
	Discipline models.Discipline `json:"discipline" yaml:"discipline"`
	Entry      Entry             `json:"entry" yaml:"entry"`
}

// ClubBests returns the rank-1 entry of every discipline that has one.
func ClubBests(records []models.PerformanceRecord, knownUsers []string) []ClubBest {
	var out []ClubBest
	for _, d := range models.AllDisciplines {
		if entries := RankAll(d, records, knownUsers); len(entries) > 0 {
			out = append(out, ClubBest{Discipline: d, Entry: entries[0]})
		}
	}
	return out
}

// KnownUsers lists profile names in book order, then users that only appear
// in records, in encounter order.
func KnownUsers(book *models.ProfileBook, records []models.PerformanceRecord) []string {
	var users []string
	seen := make(map[string]bool)
	if book != nil {
		for _, name := range book.Names() {
			seen[name] = true
			users = append(users, name)
		}
	}
	for _, r := range records {
		if r.User == "" || seen[r.User] {
			continue
		}
		seen[r.User] = true
		users = append(users, r.User)
	}
	return users
}

// Redact replaces the names of anonymized profiles. The input is not modified.
func Redact(entries []Entry, book *models.ProfileBook) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		if book == nil {
			out[i] = e
			continue
		}
		if p, ok := book.Get(e.User); ok && p.Anonymize {
			e.User = AnonymousName
			e.Record.User = AnonymousName
		}
		out[i] = e
	}
	return out
}

func qualifies(r models.PerformanceRecord, discipline models.Discipline) bool {
	return r.Discipline == discipline && r.Value != nil
}
