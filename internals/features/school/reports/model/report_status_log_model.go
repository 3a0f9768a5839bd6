// file: internals/features/school/reports/model/report_status_log_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportStatusLogModel = jejak audit transisi status, append-only.
// Satu entri per transisi (termasuk pembuatan draft, from kosong).
// Tidak pernah di-update / dihapus oleh alur normal.
type ReportStatusLogModel struct {
	ReportStatusLogID           uuid.UUID `gorm:"type:uuid;primaryKey;column:report_status_log_id" json:"report_status_log_id"`
	ReportStatusLogSubmissionID uuid.UUID `gorm:"type:uuid;not null;column:report_status_log_submission_id;index" json:"report_status_log_submission_id"`

	// NULL untuk transisi yang dijalankan sistem
	ReportStatusLogActorID *uuid.UUID `gorm:"type:uuid;column:report_status_log_actor_id" json:"report_status_log_actor_id,omitempty"`

	ReportStatusLogFromStatus ReportStatus `gorm:"type:varchar(16);not null;default:'';column:report_status_log_from_status" json:"report_status_log_from_status"`
	ReportStatusLogToStatus   ReportStatus `gorm:"type:varchar(16);not null;column:report_status_log_to_status" json:"report_status_log_to_status"`

	ReportStatusLogRemarks string `gorm:"type:text;not null;default:'';column:report_status_log_remarks" json:"report_status_log_remarks"`

	ReportStatusLogCreatedAt time.Time `gorm:"not null;autoCreateTime;column:report_status_log_created_at" json:"report_status_log_created_at"`
}

func (ReportStatusLogModel) TableName() string { return "report_status_logs" }

func (m *ReportStatusLogModel) BeforeCreate(tx *gorm.DB) error {
	if m.ReportStatusLogID == uuid.Nil {
		m.ReportStatusLogID = uuid.New()
	}
	return nil
}
