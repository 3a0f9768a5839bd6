// file: internals/features/school/reports/model/report_project_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportProjectModel = program/proyek perbaikan yang diusulkan sekolah.
// Dibuat user (bukan materializer). Syarat submit: minimal satu proyek,
// dan setiap proyek punya minimal satu kegiatan.
type ReportProjectModel struct {
	ReportProjectID           uuid.UUID `gorm:"type:uuid;primaryKey;column:report_project_id" json:"report_project_id"`
	ReportProjectSubmissionID uuid.UUID `gorm:"type:uuid;not null;column:report_project_submission_id;index" json:"report_project_submission_id"`

	ReportProjectTitle     string   `gorm:"type:varchar(160);not null;column:report_project_title" json:"report_project_title"`
	ReportProjectObjective string   `gorm:"type:text;not null;default:'';column:report_project_objective" json:"report_project_objective"`
	ReportProjectBudget    *float64 `gorm:"type:numeric(14,2);column:report_project_budget" json:"report_project_budget,omitempty"`

	ReportProjectCreatedAt time.Time `gorm:"not null;autoCreateTime;column:report_project_created_at" json:"report_project_created_at"`
	ReportProjectUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:report_project_updated_at" json:"report_project_updated_at"`

	Activities []ReportProjectActivityModel `gorm:"foreignKey:ProjectActivityProjectID;references:ReportProjectID;constraint:OnDelete:CASCADE" json:"activities,omitempty"`
}

func (ReportProjectModel) TableName() string { return "report_projects" }

func (m *ReportProjectModel) BeforeCreate(tx *gorm.DB) error {
	if m.ReportProjectID == uuid.Nil {
		m.ReportProjectID = uuid.New()
	}
	return nil
}

// ReportProjectActivityModel = kegiatan di bawah satu proyek.
type ReportProjectActivityModel struct {
	ProjectActivityID        uuid.UUID `gorm:"type:uuid;primaryKey;column:project_activity_id" json:"project_activity_id"`
	ProjectActivityProjectID uuid.UUID `gorm:"type:uuid;not null;column:project_activity_project_id;index" json:"project_activity_project_id"`

	ProjectActivityTitle      string     `gorm:"type:varchar(160);not null;column:project_activity_title" json:"project_activity_title"`
	ProjectActivityTargetDate *time.Time `gorm:"type:date;column:project_activity_target_date" json:"project_activity_target_date,omitempty"`
	ProjectActivityStatus     string     `gorm:"type:varchar(32);not null;default:'planned';column:project_activity_status" json:"project_activity_status"`

	ProjectActivityCreatedAt time.Time `gorm:"not null;autoCreateTime;column:project_activity_created_at" json:"project_activity_created_at"`
	ProjectActivityUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:project_activity_updated_at" json:"project_activity_updated_at"`
}

func (ReportProjectActivityModel) TableName() string { return "report_project_activities" }

func (m *ReportProjectActivityModel) BeforeCreate(tx *gorm.DB) error {
	if m.ProjectActivityID == uuid.Nil {
		m.ProjectActivityID = uuid.New()
	}
	return nil
}
