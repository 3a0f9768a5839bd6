package schema

import (
	"reflect"
	"testing"
)

func TestNormalizeFallsBackToLegacySpan(t *testing.T) {
	tests := []struct {
		name    string
		cfg     OwnerConfig
		wantMin int
		wantMax int
	}{
		{name: "profil kosong", cfg: OwnerConfig{}, wantMin: LegacyGradeMin, wantMax: LegacyGradeMax},
		{name: "rentang terbalik", cfg: OwnerConfig{GradeMin: 9, GradeMax: 3}, wantMin: LegacyGradeMin, wantMax: LegacyGradeMax},
		{name: "rentang valid dipertahankan", cfg: OwnerConfig{GradeMin: 7, GradeMax: 9}, wantMin: 7, wantMax: 9},
		{name: "satu kelas", cfg: OwnerConfig{GradeMin: 4, GradeMax: 4}, wantMin: 4, wantMax: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.Normalize()
			if got.GradeMin != tt.wantMin || got.GradeMax != tt.wantMax {
				t.Errorf("Normalize() = %d..%d, want %d..%d", got.GradeMin, got.GradeMax, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestProficiencyKeysOrderedAndComplete(t *testing.T) {
	cfg := OwnerConfig{GradeMin: 1, GradeMax: 3}
	got := ProficiencyKeys(cfg)

	want := []RowKey{
		{Grade: 1, Subject: "MTK"}, {Grade: 1, Subject: "BIND"},
		{Grade: 2, Subject: "MTK"}, {Grade: 2, Subject: "BIND"},
		{Grade: 3, Subject: "MTK"}, {Grade: 3, Subject: "BIND"}, {Grade: 3, Subject: "IPA"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ProficiencyKeys() = %v, want %v", got, want)
	}
}

func TestProficiencyKeysCatchAllForUncataloguedGrade(t *testing.T) {
	// kelas 13 tidak punya entri katalog → satu mapel catch-all
	cfg := OwnerConfig{GradeMin: 13, GradeMax: 13}
	got := ProficiencyKeys(cfg)
	want := []RowKey{{Grade: 13, Subject: SubjectGeneral}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ProficiencyKeys() = %v, want %v", got, want)
	}
}

func TestStrandSubjectsAlwaysIncluded(t *testing.T) {
	// peminatan TIDAK dideklarasikan, kunci mapel peminatan tetap ada
	cfg := OwnerConfig{GradeMin: 11, GradeMax: 11, Strands: nil}
	keys := ProficiencyKeys(cfg)

	found := map[string]bool{}
	for _, k := range keys {
		found[k.Subject] = true
	}
	for _, code := range []string{"FIS", "KIM", "BIO", "EKO", "GEO", "SOS", "SAS"} {
		if !found[code] {
			t.Errorf("mapel peminatan %s hilang dari kunci kanonik", code)
		}
	}
}

func TestStrandOfSubject(t *testing.T) {
	tests := []struct {
		grade   int
		code    string
		want    string
	}{
		{11, "FIS", "MIPA"},
		{12, "EKO", "IPS"},
		{11, "MTK", ""},
		{3, "IPA", ""},
		{11, "XXX", ""},
	}
	for _, tt := range tests {
		if got := StrandOfSubject(tt.grade, tt.code); got != tt.want {
			t.Errorf("StrandOfSubject(%d,%s) = %q, want %q", tt.grade, tt.code, got, tt.want)
		}
	}
}

func TestIsStrandDeclared(t *testing.T) {
	cfg := OwnerConfig{Strands: []string{"mipa", " IPS "}}
	tests := []struct {
		strand string
		want   bool
	}{
		{"MIPA", true},
		{"IPS", true},
		{"BAHASA", false},
		{"", true}, // mapel inti
	}
	for _, tt := range tests {
		if got := IsStrandDeclared(cfg, tt.strand); got != tt.want {
			t.Errorf("IsStrandDeclared(%q) = %v, want %v", tt.strand, got, tt.want)
		}
	}
}

func TestReadingGradesAndIssuePositions(t *testing.T) {
	cfg := OwnerConfig{GradeMin: 2, GradeMax: 4}
	if got, want := ReadingGrades(cfg), []int{2, 3, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("ReadingGrades() = %v, want %v", got, want)
	}
	if got, want := IssuePositions(), []int{1, 2, 3, 4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("IssuePositions() = %v, want %v", got, want)
	}
}
