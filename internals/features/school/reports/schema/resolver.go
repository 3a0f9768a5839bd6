// file: internals/features/school/reports/schema/resolver.go
package schema

import "strings"

/*
Resolver kunci baris laporan.

Semua fungsi di sini PURE: input konfigurasi sekolah, output daftar kunci
baris yang SEHARUSNYA ada. Tidak ada akses DB, tidak ada side effect,
boleh dipanggil berulang kali per request. Pembuatan/penghapusan baris
sepenuhnya urusan materializer (service), bukan resolver.
*/

// OwnerConfig adalah konfigurasi sekolah pemilik laporan.
type OwnerConfig struct {
	GradeMin int
	GradeMax int
	Strands  []string // peminatan yang dibuka sekolah (mis. MIPA, IPS, BAHASA)
}

// Rentang legacy dipakai kalau profil sekolah belum diisi.
const (
	LegacyGradeMin = 1
	LegacyGradeMax = 10
)

// Jumlah slot isu prioritas per laporan (posisi tetap 1..N).
const PriorityIssueSlots = 5

// SubjectGeneral adalah mapel catch-all untuk kelas yang tidak punya
// entri katalog.
const SubjectGeneral = "UMUM"

// RowKey adalah kunci unik satu baris capaian (kelas × mapel).
type RowKey struct {
	Grade   int    `json:"grade"`
	Subject string `json:"subject"`
}

// Subject adalah satu entri katalog mapel.
// Strand kosong artinya mapel inti (wajib semua peminatan).
type Subject struct {
	Code   string
	Name   string
	Strand string
}

// Katalog mapel per kelas. Kelas tanpa entri → fallback SubjectGeneral.
// Mapel peminatan (Strand != "") di kelas atas SELALU masuk kunci kanonik,
// terlepas peminatan dibuka atau tidak — penyembunyian ditangani
// materializer lewat aturan "kosong dan bukan peminatan", bukan dengan
// menghilangkan kunci, supaya data lama tidak pernah ikut hilang.
var subjectCatalog = map[int][]Subject{
	1:  {{Code: "MTK", Name: "Matematika"}, {Code: "BIND", Name: "Bahasa Indonesia"}},
	2:  {{Code: "MTK", Name: "Matematika"}, {Code: "BIND", Name: "Bahasa Indonesia"}},
	3:  {{Code: "MTK", Name: "Matematika"}, {Code: "BIND", Name: "Bahasa Indonesia"}, {Code: "IPA", Name: "IPA"}},
	4:  {{Code: "MTK", Name: "Matematika"}, {Code: "BIND", Name: "Bahasa Indonesia"}, {Code: "IPA", Name: "IPA"}, {Code: "IPS", Name: "IPS"}},
	5:  {{Code: "MTK", Name: "Matematika"}, {Code: "BIND", Name: "Bahasa Indonesia"}, {Code: "IPA", Name: "IPA"}, {Code: "IPS", Name: "IPS"}},
	6:  {{Code: "MTK", Name: "Matematika"}, {Code: "BIND", Name: "Bahasa Indonesia"}, {Code: "IPA", Name: "IPA"}, {Code: "IPS", Name: "IPS"}},
	7:  {{Code: "MTK", Name: "Matematika"}, {Code: "BIND", Name: "Bahasa Indonesia"}, {Code: "BING", Name: "Bahasa Inggris"}, {Code: "IPA", Name: "IPA"}, {Code: "IPS", Name: "IPS"}},
	8:  {{Code: "MTK", Name: "Matematika"}, {Code: "BIND", Name: "Bahasa Indonesia"}, {Code: "BING", Name: "Bahasa Inggris"}, {Code: "IPA", Name: "IPA"}, {Code: "IPS", Name: "IPS"}},
	9:  {{Code: "MTK", Name: "Matematika"}, {Code: "BIND", Name: "Bahasa Indonesia"}, {Code: "BING", Name: "Bahasa Inggris"}, {Code: "IPA", Name: "IPA"}, {Code: "IPS", Name: "IPS"}},
	10: {{Code: "MTK", Name: "Matematika"}, {Code: "BIND", Name: "Bahasa Indonesia"}, {Code: "BING", Name: "Bahasa Inggris"}, {Code: "SEJ", Name: "Sejarah"}},
	11: {
		{Code: "MTK", Name: "Matematika"}, {Code: "BIND", Name: "Bahasa Indonesia"}, {Code: "BING", Name: "Bahasa Inggris"},
		{Code: "FIS", Name: "Fisika", Strand: "MIPA"}, {Code: "KIM", Name: "Kimia", Strand: "MIPA"}, {Code: "BIO", Name: "Biologi", Strand: "MIPA"},
		{Code: "EKO", Name: "Ekonomi", Strand: "IPS"}, {Code: "GEO", Name: "Geografi", Strand: "IPS"}, {Code: "SOS", Name: "Sosiologi", Strand: "IPS"},
		{Code: "SAS", Name: "Sastra", Strand: "BAHASA"},
	},
	12: {
		{Code: "MTK", Name: "Matematika"}, {Code: "BIND", Name: "Bahasa Indonesia"}, {Code: "BING", Name: "Bahasa Inggris"},
		{Code: "FIS", Name: "Fisika", Strand: "MIPA"}, {Code: "KIM", Name: "Kimia", Strand: "MIPA"}, {Code: "BIO", Name: "Biologi", Strand: "MIPA"},
		{Code: "EKO", Name: "Ekonomi", Strand: "IPS"}, {Code: "GEO", Name: "Geografi", Strand: "IPS"}, {Code: "SOS", Name: "Sosiologi", Strand: "IPS"},
		{Code: "SAS", Name: "Sastra", Strand: "BAHASA"},
	},
}

// Normalize mengembalikan config dengan rentang kelas valid;
// profil kosong/terbalik jatuh ke rentang legacy.
func (cfg OwnerConfig) Normalize() OwnerConfig {
	if cfg.GradeMin <= 0 || cfg.GradeMax <= 0 || cfg.GradeMax < cfg.GradeMin {
		cfg.GradeMin = LegacyGradeMin
		cfg.GradeMax = LegacyGradeMax
	}
	return cfg
}

// Grades mengembalikan daftar kelas dalam rentang (inklusif), urut naik.
func (cfg OwnerConfig) Grades() []int {
	cfg = cfg.Normalize()
	out := make([]int, 0, cfg.GradeMax-cfg.GradeMin+1)
	for g := cfg.GradeMin; g <= cfg.GradeMax; g++ {
		out = append(out, g)
	}
	return out
}

// SubjectsForGrade mengembalikan katalog mapel satu kelas, fallback catch-all.
func SubjectsForGrade(grade int) []Subject {
	if subs, ok := subjectCatalog[grade]; ok && len(subs) > 0 {
		return subs
	}
	return []Subject{{Code: SubjectGeneral, Name: "Umum"}}
}

// StrandOfSubject mengembalikan tag peminatan satu mapel pada satu kelas
// ("" untuk mapel inti / tidak dikenal).
func StrandOfSubject(grade int, code string) string {
	for _, s := range SubjectsForGrade(grade) {
		if s.Code == code {
			return s.Strand
		}
	}
	return ""
}

// IsStrandDeclared cek apakah tag peminatan dibuka pada config sekolah.
func IsStrandDeclared(cfg OwnerConfig, strand string) bool {
	strand = strings.ToUpper(strings.TrimSpace(strand))
	if strand == "" {
		return true // mapel inti selalu "dibuka"
	}
	for _, s := range cfg.Strands {
		if strings.ToUpper(strings.TrimSpace(s)) == strand {
			return true
		}
	}
	return false
}

// ProficiencyKeys menghitung kunci kanonik baris capaian:
// satu baris per (kelas × mapel), urut kelas naik lalu urutan katalog.
func ProficiencyKeys(cfg OwnerConfig) []RowKey {
	cfg = cfg.Normalize()
	keys := make([]RowKey, 0)
	for _, g := range cfg.Grades() {
		for _, s := range SubjectsForGrade(g) {
			keys = append(keys, RowKey{Grade: g, Subject: s.Code})
		}
	}
	return keys
}

// ReadingGrades menghitung kunci kanonik baris literasi membaca:
// satu baris per kelas dalam rentang.
func ReadingGrades(cfg OwnerConfig) []int {
	return cfg.Normalize().Grades()
}

// IssuePositions mengembalikan slot isu prioritas posisi-tetap 1..N.
func IssuePositions() []int {
	out := make([]int, 0, PriorityIssueSlots)
	for i := 1; i <= PriorityIssueSlots; i++ {
		out = append(out, i)
	}
	return out
}
