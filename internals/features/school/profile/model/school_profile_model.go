// file: internals/features/school/profile/model/school_profile_model.go
package model

import (
	"time"

	"gorm.io/datatypes"

	"github.com/google/uuid"
)

// SchoolProfileModel = profil konfigurasi satu sekolah: rentang kelas,
// peminatan yang dibuka, dan kontak notifikasi. Satu baris per sekolah
// (PK = school_id). Profil yang belum ada → resolver jatuh ke rentang legacy.
type SchoolProfileModel struct {
	SchoolProfileSchoolID uuid.UUID `gorm:"type:uuid;primaryKey;column:school_profile_school_id" json:"school_profile_school_id"`

	SchoolProfileName     string `gorm:"type:varchar(160);not null;column:school_profile_name" json:"school_profile_name"`
	SchoolProfileGradeMin int    `gorm:"not null;default:0;column:school_profile_grade_min" json:"school_profile_grade_min"`
	SchoolProfileGradeMax int    `gorm:"not null;default:0;column:school_profile_grade_max" json:"school_profile_grade_max"`

	// Daftar tag peminatan yang dibuka, array string JSONB (mis. ["MIPA","IPS"])
	SchoolProfileStrands datatypes.JSON `gorm:"column:school_profile_strands" json:"school_profile_strands,omitempty"`

	SchoolProfileContactName  string `gorm:"type:varchar(120);not null;default:'';column:school_profile_contact_name" json:"school_profile_contact_name"`
	SchoolProfileContactEmail string `gorm:"type:varchar(160);not null;default:'';column:school_profile_contact_email" json:"school_profile_contact_email"`

	SchoolProfileCreatedAt time.Time `gorm:"not null;autoCreateTime;column:school_profile_created_at" json:"school_profile_created_at"`
	SchoolProfileUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:school_profile_updated_at" json:"school_profile_updated_at"`
}

func (SchoolProfileModel) TableName() string { return "school_profiles" }
