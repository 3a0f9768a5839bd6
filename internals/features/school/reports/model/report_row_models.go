// file: internals/features/school/reports/model/report_row_models.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
Baris-baris anak (row group) satu ReportSubmission.

Kunci unik per kind:
  - capaian mapel : (kelas, kode mapel)
  - literasi      : kelas
  - isu prioritas : posisi tetap 1..5

Baris dibuat/dihapus HANYA oleh materializer; nilai field diubah HANYA
lewat targeted save (atau full-form save satu koleksi).
*/

// ProficiencyRowModel = capaian belajar per (kelas × mapel).
type ProficiencyRowModel struct {
	ProficiencyRowID           uuid.UUID `gorm:"type:uuid;primaryKey;column:proficiency_row_id" json:"proficiency_row_id"`
	ProficiencyRowSubmissionID uuid.UUID `gorm:"type:uuid;not null;column:proficiency_row_submission_id;uniqueIndex:uq_proficiency_row_key;index" json:"proficiency_row_submission_id"`

	ProficiencyRowGrade       int    `gorm:"not null;column:proficiency_row_grade;uniqueIndex:uq_proficiency_row_key" json:"proficiency_row_grade"`
	ProficiencyRowSubjectCode string `gorm:"type:varchar(16);not null;column:proficiency_row_subject_code;uniqueIndex:uq_proficiency_row_key" json:"proficiency_row_subject_code"`

	// Tag peminatan dari katalog ("" = mapel inti)
	ProficiencyRowStrand string `gorm:"type:varchar(16);not null;default:'';column:proficiency_row_strand" json:"proficiency_row_strand"`

	// Mapel tidak dibuka → baris di-nol-kan dan keluar dari hitungan progres.
	// Tanpa default DB: nilai false dari materializer harus ikut ter-INSERT,
	// tag default membuat GORM membuang field zero-value saat Create.
	ProficiencyRowOffered bool `gorm:"not null;column:proficiency_row_offered" json:"proficiency_row_offered"`

	ProficiencyRowEnrolledTotal int `gorm:"not null;default:0;column:proficiency_row_enrolled_total" json:"proficiency_row_enrolled_total"`

	ProficiencyRowCountBeginning   int `gorm:"not null;default:0;column:proficiency_row_count_beginning" json:"proficiency_row_count_beginning"`
	ProficiencyRowCountDeveloping  int `gorm:"not null;default:0;column:proficiency_row_count_developing" json:"proficiency_row_count_developing"`
	ProficiencyRowCountApproaching int `gorm:"not null;default:0;column:proficiency_row_count_approaching" json:"proficiency_row_count_approaching"`
	ProficiencyRowCountProficient  int `gorm:"not null;default:0;column:proficiency_row_count_proficient" json:"proficiency_row_count_proficient"`
	ProficiencyRowCountAdvanced    int `gorm:"not null;default:0;column:proficiency_row_count_advanced" json:"proficiency_row_count_advanced"`

	ProficiencyRowIntervention string `gorm:"type:text;not null;default:'';column:proficiency_row_intervention" json:"proficiency_row_intervention"`

	ProficiencyRowCreatedAt time.Time `gorm:"not null;autoCreateTime;column:proficiency_row_created_at" json:"proficiency_row_created_at"`
	ProficiencyRowUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:proficiency_row_updated_at" json:"proficiency_row_updated_at"`

	// Sub-record analisis naratif 1:1, ikut terhapus bersama barisnya
	Analysis *ProficiencyAnalysisModel `gorm:"foreignKey:ProficiencyAnalysisRowID;references:ProficiencyRowID;constraint:OnDelete:CASCADE" json:"analysis,omitempty"`
}

func (ProficiencyRowModel) TableName() string { return "report_proficiency_rows" }

func (m *ProficiencyRowModel) BeforeCreate(tx *gorm.DB) error {
	if m.ProficiencyRowID == uuid.Nil {
		m.ProficiencyRowID = uuid.New()
	}
	return nil
}

// CountSum menjumlahkan lima kategori capaian.
func (m *ProficiencyRowModel) CountSum() int {
	return m.ProficiencyRowCountBeginning +
		m.ProficiencyRowCountDeveloping +
		m.ProficiencyRowCountApproaching +
		m.ProficiencyRowCountProficient +
		m.ProficiencyRowCountAdvanced
}

// Empty: semua count dan total nol (belum pernah diisi user).
func (m *ProficiencyRowModel) Empty() bool {
	return m.ProficiencyRowEnrolledTotal == 0 && m.CountSum() == 0
}

// ProficiencyAnalysisModel = narasi analisis + rencana tindak lanjut,
// terikat 1:1 ke baris capaian. Naratif murni, TIDAK ikut validasi angka.
type ProficiencyAnalysisModel struct {
	ProficiencyAnalysisID    uuid.UUID `gorm:"type:uuid;primaryKey;column:proficiency_analysis_id" json:"proficiency_analysis_id"`
	ProficiencyAnalysisRowID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:proficiency_analysis_row_id" json:"proficiency_analysis_row_id"`

	ProficiencyAnalysisText       string `gorm:"type:text;not null;default:'';column:proficiency_analysis_text" json:"proficiency_analysis_text"`
	ProficiencyAnalysisActionPlan string `gorm:"type:text;not null;default:'';column:proficiency_analysis_action_plan" json:"proficiency_analysis_action_plan"`

	ProficiencyAnalysisCreatedAt time.Time `gorm:"not null;autoCreateTime;column:proficiency_analysis_created_at" json:"proficiency_analysis_created_at"`
	ProficiencyAnalysisUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:proficiency_analysis_updated_at" json:"proficiency_analysis_updated_at"`
}

func (ProficiencyAnalysisModel) TableName() string { return "report_proficiency_analyses" }

func (m *ProficiencyAnalysisModel) BeforeCreate(tx *gorm.DB) error {
	if m.ProficiencyAnalysisID == uuid.Nil {
		m.ProficiencyAnalysisID = uuid.New()
	}
	return nil
}

// ReadingRowModel = hasil skrining literasi membaca per kelas.
type ReadingRowModel struct {
	ReadingRowID           uuid.UUID `gorm:"type:uuid;primaryKey;column:reading_row_id" json:"reading_row_id"`
	ReadingRowSubmissionID uuid.UUID `gorm:"type:uuid;not null;column:reading_row_submission_id;uniqueIndex:uq_reading_row_key;index" json:"reading_row_submission_id"`

	ReadingRowGrade int `gorm:"not null;column:reading_row_grade;uniqueIndex:uq_reading_row_key" json:"reading_row_grade"`

	ReadingRowOffered bool `gorm:"not null;column:reading_row_offered" json:"reading_row_offered"`

	ReadingRowAssessedTotal int `gorm:"not null;default:0;column:reading_row_assessed_total" json:"reading_row_assessed_total"`

	ReadingRowCountIndependent   int `gorm:"not null;default:0;column:reading_row_count_independent" json:"reading_row_count_independent"`
	ReadingRowCountInstructional int `gorm:"not null;default:0;column:reading_row_count_instructional" json:"reading_row_count_instructional"`
	ReadingRowCountFrustration   int `gorm:"not null;default:0;column:reading_row_count_frustration" json:"reading_row_count_frustration"`
	ReadingRowCountNonReader     int `gorm:"not null;default:0;column:reading_row_count_non_reader" json:"reading_row_count_non_reader"`

	ReadingRowIntervention string `gorm:"type:text;not null;default:'';column:reading_row_intervention" json:"reading_row_intervention"`

	ReadingRowCreatedAt time.Time `gorm:"not null;autoCreateTime;column:reading_row_created_at" json:"reading_row_created_at"`
	ReadingRowUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:reading_row_updated_at" json:"reading_row_updated_at"`
}

func (ReadingRowModel) TableName() string { return "report_reading_rows" }

func (m *ReadingRowModel) BeforeCreate(tx *gorm.DB) error {
	if m.ReadingRowID == uuid.Nil {
		m.ReadingRowID = uuid.New()
	}
	return nil
}

// CountSum menjumlahkan empat band literasi.
func (m *ReadingRowModel) CountSum() int {
	return m.ReadingRowCountIndependent +
		m.ReadingRowCountInstructional +
		m.ReadingRowCountFrustration +
		m.ReadingRowCountNonReader
}

// PriorityIssueRowModel = slot isu prioritas posisi-tetap (1..5).
type PriorityIssueRowModel struct {
	PriorityIssueID           uuid.UUID `gorm:"type:uuid;primaryKey;column:priority_issue_id" json:"priority_issue_id"`
	PriorityIssueSubmissionID uuid.UUID `gorm:"type:uuid;not null;column:priority_issue_submission_id;uniqueIndex:uq_priority_issue_key;index" json:"priority_issue_submission_id"`

	PriorityIssuePosition int `gorm:"not null;column:priority_issue_position;uniqueIndex:uq_priority_issue_key" json:"priority_issue_position"`

	PriorityIssueDescription    string `gorm:"type:text;not null;default:'';column:priority_issue_description" json:"priority_issue_description"`
	PriorityIssueRootCause      string `gorm:"type:text;not null;default:'';column:priority_issue_root_cause" json:"priority_issue_root_cause"`
	PriorityIssueRecommendation string `gorm:"type:text;not null;default:'';column:priority_issue_recommendation" json:"priority_issue_recommendation"`

	PriorityIssueCreatedAt time.Time `gorm:"not null;autoCreateTime;column:priority_issue_created_at" json:"priority_issue_created_at"`
	PriorityIssueUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:priority_issue_updated_at" json:"priority_issue_updated_at"`
}

func (PriorityIssueRowModel) TableName() string { return "report_priority_issues" }

func (m *PriorityIssueRowModel) BeforeCreate(tx *gorm.DB) error {
	if m.PriorityIssueID == uuid.Nil {
		m.PriorityIssueID = uuid.New()
	}
	return nil
}
