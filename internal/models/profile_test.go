// ABOUTME: Tests for UserProfile, certifications, and ProfileBook.
// ABOUTME: Covers keyed insertion order, rename, and delete semantics.
package models

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestNewUserProfile(t *testing.T) {
	p := NewUserProfile("Alice").
		WithCertification(CertA2, time.Date(2023, 5, 4, 12, 0, 0, 0, time.UTC)).
		WithLifrasID("L-42").
		WithAnonymize(true)

	if p.Certification != CertA2 {
		t.Errorf("Certification = %s, want A2", p.Certification)
	}
	if p.CertificationDate == nil || FormatDate(*p.CertificationDate) != "2023-05-04" {
		t.Errorf("CertificationDate = %v, want 2023-05-04", p.CertificationDate)
	}
	if p.LifrasID != "L-42" || !p.Anonymize {
		t.Errorf("builders not applied: %+v", p)
	}
}

func TestParseCertification(t *testing.T) {
	tests := []struct {
		input   string
		want    Certification
		wantErr bool
	}{
		{"", CertNone, false},
		{"none", CertNone, false},
		{"a3", CertA3, false},
		{"I2", CertI2, false},
		{"B1", "", true},
	}

	for _, tt := range tests {
		got, err := ParseCertification(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCertification(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCertification(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
	if !CertI1.IsInstructor() || CertS4.IsInstructor() {
		t.Error("IsInstructor mismatch")
	}
}

func TestProfileBookOrderAndStamping(t *testing.T) {
	b := NewProfileBook()
	b.Put(*NewUserProfile("Charlie"))
	b.Put(*NewUserProfile("Alice"))
	b.Put(UserProfile{UserName: "Charlie", Certification: CertA1})

	if got := b.Names(); !reflect.DeepEqual(got, []string{"Charlie", "Alice"}) {
		t.Errorf("Names = %v, want [Charlie Alice]", got)
	}
	p, ok := b.Get("Charlie")
	if !ok || p.Certification != CertA1 {
		t.Errorf("Get(Charlie) = %+v, %v; want replaced profile", p, ok)
	}
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
}

func TestProfileBookRename(t *testing.T) {
	b := NewProfileBook()
	b.Put(*NewUserProfile("Alice"))
	b.Put(*NewUserProfile("Bob"))
	b.Put(*NewUserProfile("Carol"))

	if err := b.Rename("Bob", "Robert"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if got := b.Names(); !reflect.DeepEqual(got, []string{"Alice", "Robert", "Carol"}) {
		t.Errorf("Names = %v, want Robert in Bob's position", got)
	}
	all := b.All()
	if all[1].UserName != "Robert" {
		t.Errorf("All()[1].UserName = %s, want Robert", all[1].UserName)
	}
	if b.Has("Bob") {
		t.Error("old name still present")
	}

	if err := b.Rename("Alice", "Carol"); !errors.Is(err, ErrProfileExists) {
		t.Errorf("rename onto existing: error = %v, want ErrProfileExists", err)
	}
	if err := b.Rename("Nobody", "X"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("rename unknown: error = %v, want ErrProfileNotFound", err)
	}
	if err := b.Rename("Alice", "Alice"); err != nil {
		t.Errorf("rename to same name: error = %v, want nil", err)
	}
}

func TestProfileBookDelete(t *testing.T) {
	b := NewProfileBook()
	b.Put(*NewUserProfile("Alice"))
	b.Put(*NewUserProfile("Bob"))

	if !b.Delete("Alice") {
		t.Error("Delete(Alice) = false")
	}
	if b.Delete("Alice") {
		t.Error("second Delete(Alice) = true")
	}
	if got := b.Names(); !reflect.DeepEqual(got, []string{"Bob"}) {
		t.Errorf("Names = %v, want [Bob]", got)
	}
}
