// file: internals/features/school/profile/service/profile_provider.go
package service

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	profileModel "laporanku_backend/internals/features/school/profile/model"
	"laporanku_backend/internals/features/school/reports/schema"
)

// ResolveOwnerConfig membaca profil sekolah dan menurunkannya ke
// schema.OwnerConfig. Read-only; profil belum ada → rentang legacy
// tanpa peminatan. db boleh *gorm.DB biasa atau transaction (tx).
func ResolveOwnerConfig(db *gorm.DB, schoolID uuid.UUID) (schema.OwnerConfig, error) {
	var prof profileModel.SchoolProfileModel
	err := db.
		First(&prof, "school_profile_school_id = ?", schoolID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return schema.OwnerConfig{
				GradeMin: schema.LegacyGradeMin,
				GradeMax: schema.LegacyGradeMax,
			}, nil
		}
		return schema.OwnerConfig{}, err
	}

	cfg := schema.OwnerConfig{
		GradeMin: prof.SchoolProfileGradeMin,
		GradeMax: prof.SchoolProfileGradeMax,
	}
	if len(prof.SchoolProfileStrands) > 0 {
		var strands []string
		if err := json.Unmarshal(prof.SchoolProfileStrands, &strands); err == nil {
			cfg.Strands = strands
		}
	}
	return cfg.Normalize(), nil
}

// ContactForSchool mengambil kontak notifikasi sekolah.
// Kosong kalau profil belum diisi; pemanggil yang memutuskan skip kirim.
func ContactForSchool(db *gorm.DB, schoolID uuid.UUID) (name, email string) {
	var prof profileModel.SchoolProfileModel
	if err := db.First(&prof, "school_profile_school_id = ?", schoolID).Error; err != nil {
		return "", ""
	}
	return prof.SchoolProfileContactName, prof.SchoolProfileContactEmail
}
