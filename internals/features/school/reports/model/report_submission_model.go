// file: internals/features/school/reports/model/report_submission_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Sesuaikan dengan CHECK: 'draft','submitted','returned','noted'
type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "draft"
	ReportStatusSubmitted ReportStatus = "submitted"
	ReportStatusReturned  ReportStatus = "returned"
	ReportStatusNoted     ReportStatus = "noted"
)

// Valid returns true kalau status termasuk nilai yang didukung.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusDraft, ReportStatusSubmitted, ReportStatusReturned, ReportStatusNoted:
		return true
	default:
		return false
	}
}

// ReportSubmissionModel = satu instansi "sekolah X mengisi template Y untuk periode Z".
// Unik per (school, template, period) — constraint DB, bukan sekadar konvensi UI.
type ReportSubmissionModel struct {
	ReportSubmissionID       uuid.UUID `gorm:"type:uuid;primaryKey;column:report_submission_id" json:"report_submission_id"`
	ReportSubmissionSchoolID uuid.UUID `gorm:"type:uuid;not null;column:report_submission_school_id;uniqueIndex:uq_report_submission_scope" json:"report_submission_school_id"`

	ReportSubmissionTemplateID uuid.UUID `gorm:"type:uuid;not null;column:report_submission_template_id;uniqueIndex:uq_report_submission_scope" json:"report_submission_template_id"`
	ReportSubmissionPeriodID   uuid.UUID `gorm:"type:uuid;not null;column:report_submission_period_id;uniqueIndex:uq_report_submission_scope" json:"report_submission_period_id"`

	ReportSubmissionStatus ReportStatus `gorm:"type:varchar(16);not null;default:'draft';column:report_submission_status" json:"report_submission_status"`

	ReportSubmissionSubmittedAt *time.Time `gorm:"column:report_submission_submitted_at" json:"report_submission_submitted_at,omitempty"`
	ReportSubmissionSubmittedBy *uuid.UUID `gorm:"type:uuid;column:report_submission_submitted_by" json:"report_submission_submitted_by,omitempty"`

	ReportSubmissionReturnedAt      *time.Time `gorm:"column:report_submission_returned_at" json:"report_submission_returned_at,omitempty"`
	ReportSubmissionReturnedBy      *uuid.UUID `gorm:"type:uuid;column:report_submission_returned_by" json:"report_submission_returned_by,omitempty"`
	ReportSubmissionReturnedRemarks *string    `gorm:"type:text;column:report_submission_returned_remarks" json:"report_submission_returned_remarks,omitempty"`

	ReportSubmissionNotedAt      *time.Time `gorm:"column:report_submission_noted_at" json:"report_submission_noted_at,omitempty"`
	ReportSubmissionNotedBy      *uuid.UUID `gorm:"type:uuid;column:report_submission_noted_by" json:"report_submission_noted_by,omitempty"`
	ReportSubmissionNotedRemarks *string    `gorm:"type:text;column:report_submission_noted_remarks" json:"report_submission_noted_remarks,omitempty"`

	ReportSubmissionLastEditedBy *uuid.UUID `gorm:"type:uuid;column:report_submission_last_edited_by" json:"report_submission_last_edited_by,omitempty"`
	ReportSubmissionLastEditedAt *time.Time `gorm:"column:report_submission_last_edited_at" json:"report_submission_last_edited_at,omitempty"`

	// Field lepas yang tidak layak tabel sendiri (jumlah guru hadir rapat, dsb)
	ReportSubmissionExtras datatypes.JSONMap `gorm:"column:report_submission_extras" json:"report_submission_extras,omitempty"`

	ReportSubmissionCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:report_submission_created_at" json:"report_submission_created_at"`
	ReportSubmissionUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:report_submission_updated_at" json:"report_submission_updated_at"`
	ReportSubmissionDeletedAt gorm.DeletedAt `gorm:"column:report_submission_deleted_at;index" json:"report_submission_deleted_at,omitempty"`
}

func (ReportSubmissionModel) TableName() string { return "report_submissions" }

// Editable: sekolah hanya boleh mengubah isi saat draft / dikembalikan.
func (m *ReportSubmissionModel) Editable() bool {
	return m.ReportSubmissionStatus == ReportStatusDraft || m.ReportSubmissionStatus == ReportStatusReturned
}

func (m *ReportSubmissionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ReportSubmissionID == uuid.Nil {
		m.ReportSubmissionID = uuid.New()
	}
	return nil
}
