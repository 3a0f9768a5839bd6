// file: internals/features/school/reports/model/report_reference_models.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportTemplateModel = jenis laporan periodik (mis. laporan mutu triwulanan).
// Penghapusan template oleh admin meng-cascade submissions di bawahnya.
type ReportTemplateModel struct {
	ReportTemplateID uuid.UUID `gorm:"type:uuid;primaryKey;column:report_template_id" json:"report_template_id"`

	ReportTemplateCode   string `gorm:"type:varchar(32);not null;uniqueIndex;column:report_template_code" json:"report_template_code"`
	ReportTemplateName   string `gorm:"type:varchar(160);not null;column:report_template_name" json:"report_template_name"`
	ReportTemplateActive bool   `gorm:"not null;default:true;column:report_template_active" json:"report_template_active"`

	ReportTemplateCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:report_template_created_at" json:"report_template_created_at"`
	ReportTemplateUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:report_template_updated_at" json:"report_template_updated_at"`
	ReportTemplateDeletedAt gorm.DeletedAt `gorm:"column:report_template_deleted_at;index" json:"report_template_deleted_at,omitempty"`
}

func (ReportTemplateModel) TableName() string { return "report_templates" }

func (m *ReportTemplateModel) BeforeCreate(tx *gorm.DB) error {
	if m.ReportTemplateID == uuid.Nil {
		m.ReportTemplateID = uuid.New()
	}
	return nil
}

// ReportPeriodModel = periode pelaporan (tahun ajaran + triwulan).
type ReportPeriodModel struct {
	ReportPeriodID uuid.UUID `gorm:"type:uuid;primaryKey;column:report_period_id" json:"report_period_id"`

	ReportPeriodAcademicYear string `gorm:"type:varchar(9);not null;column:report_period_academic_year;uniqueIndex:uq_report_period" json:"report_period_academic_year"`
	ReportPeriodQuarter      int    `gorm:"not null;column:report_period_quarter;uniqueIndex:uq_report_period" json:"report_period_quarter"`
	ReportPeriodLabel        string `gorm:"type:varchar(64);not null;default:'';column:report_period_label" json:"report_period_label"`
	ReportPeriodOpen         bool   `gorm:"not null;default:true;column:report_period_open" json:"report_period_open"`

	ReportPeriodCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:report_period_created_at" json:"report_period_created_at"`
	ReportPeriodUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:report_period_updated_at" json:"report_period_updated_at"`
	ReportPeriodDeletedAt gorm.DeletedAt `gorm:"column:report_period_deleted_at;index" json:"report_period_deleted_at,omitempty"`
}

func (ReportPeriodModel) TableName() string { return "report_periods" }

func (m *ReportPeriodModel) BeforeCreate(tx *gorm.DB) error {
	if m.ReportPeriodID == uuid.Nil {
		m.ReportPeriodID = uuid.New()
	}
	return nil
}
