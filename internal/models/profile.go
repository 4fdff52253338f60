// ABOUTME: UserProfile model, certification levels, and the name-keyed ProfileBook.
// ABOUTME: A profile's name is its key; renames go through the book, never a field edit.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Certification is a diver's certification level.
type Certification string

const (
	CertNone Certification = "none"
	CertA1   Certification = "A1"
	CertA2   Certification = "A2"
	CertA3   Certification = "A3"
	CertS4   Certification = "S4"
	CertI1   Certification = "I1"
	CertI2   Certification = "I2"
	CertI3   Certification = "I3"
)

// AllCertifications lists levels from lowest to highest.
var AllCertifications = []Certification{CertNone, CertA1, CertA2, CertA3, CertS4, CertI1, CertI2, CertI3}

// ParseCertification accepts any level case-insensitively. Blank means none.
func ParseCertification(s string) (Certification, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return CertNone, nil
	}
	for _, c := range AllCertifications {
		if strings.EqualFold(trimmed, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown certification: %q", s)
}

// IsInstructor reports whether the level allows giving feedback as instructor.
func (c Certification) IsInstructor() bool {
	return c == CertI1 || c == CertI2 || c == CertI3
}

// UserProfile holds per-diver settings.
type UserProfile struct {
	UserName          string        `json:"user_name" yaml:"user_name"`
	Certification     Certification `json:"certification" yaml:"certification"`
	CertificationDate *time.Time    `json:"certification_date,omitempty" yaml:"certification_date,omitempty"`
	LifrasID          string        `json:"lifras_id,omitempty" yaml:"lifras_id,omitempty"`
	Anonymize         bool          `json:"anonymize" yaml:"anonymize"`
	AIConsent         bool          `json:"ai_consent" yaml:"ai_consent"`
	Notes             string        `json:"notes,omitempty" yaml:"notes,omitempty"`
	Extra             []Column      `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// NewUserProfile creates a profile with no certification.
func NewUserProfile(name string) *UserProfile {
	return &UserProfile{
		UserName:      name,
		Certification: CertNone,
	}
}

// WithCertification sets the level and the date it was obtained.
func (p *UserProfile) WithCertification(c Certification, obtained time.Time) *UserProfile {
	p.Certification = c
	d := Date(obtained)
	p.CertificationDate = &d
	return p
}

// WithLifrasID sets the federation membership number.
func (p *UserProfile) WithLifrasID(id string) *UserProfile {
	p.LifrasID = id
	return p
}

// WithAnonymize hides the diver's name in shared rankings.
func (p *UserProfile) WithAnonymize(v bool) *UserProfile {
	p.Anonymize = v
	return p
}

// WithNotes sets free-form notes.
func (p *UserProfile) WithNotes(notes string) *UserProfile {
	p.Notes = notes
	return p
}

// ProfileBook errors.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
)

// ProfileBook holds profiles keyed by name, in insertion order.
type ProfileBook struct {
	names  []string
	byName map[string]UserProfile
}

// NewProfileBook creates an empty book.
func NewProfileBook() *ProfileBook {
	return &ProfileBook{byName: make(map[string]UserProfile)}
}

// Len returns the number of profiles.
func (b *ProfileBook) Len() int {
	return len(b.names)
}

// Has reports whether a profile with exactly this name exists.
func (b *ProfileBook) Has(name string) bool {
	_, ok := b.byName[name]
	return ok
}

// Get returns the profile stored under name.
func (b *ProfileBook) Get(name string) (UserProfile, bool) {
	p, ok := b.byName[name]
	if ok {
		p.UserName = name
	}
	return p, ok
}

// Put inserts or replaces the profile keyed by p.UserName.
func (b *ProfileBook) Put(p UserProfile) {
	if _, ok := b.byName[p.UserName]; !ok {
		b.names = append(b.names, p.UserName)
	}
	b.byName[p.UserName] = p
}

// Delete removes a profile. It returns false if the name was unknown.
func (b *ProfileBook) Delete(name string) bool {
	if _, ok := b.byName[name]; !ok {
		return false
	}
	delete(b.byName, name)
	for i, n := range b.names {
		if n == name {
			b.names = append(b.names[:i], b.names[i+1:]...)
			break
		}
	}
	return true
}

// Rename moves a profile to a new key, keeping its position.
func (b *ProfileBook) Rename(oldName, newName string) error {
	p, ok := b.byName[oldName]
	if !ok {
		return fmt.Errorf("rename %q: %w", oldName, ErrProfileNotFound)
	}
	if oldName == newName {
		return nil
	}
	if _, taken := b.byName[newName]; taken {
		return fmt.Errorf("rename to %q: %w", newName, ErrProfileExists)
	}
	delete(b.byName, oldName)
	p.UserName = newName
	b.byName[newName] = p
	for i, n := range b.names {
		if n == oldName {
			b.names[i] = newName
			break
		}
	}
	return nil
}

// Names returns profile names in order.
func (b *ProfileBook) Names() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

// All returns profiles in order, each stamped with the name it is keyed by.
func (b *ProfileBook) All() []UserProfile {
	out := make([]UserProfile, 0, len(b.names))
	for _, name := range b.names {
		p := b.byName[name]
		p.UserName = name
		out = append(out, p)
	}
	return out
}
