// file: internals/features/school/reports/service/materializer.go
package service

import (
	"fmt"

	"gorm.io/gorm"

	"laporanku_backend/internals/features/school/reports/model"
	"laporanku_backend/internals/features/school/reports/schema"
)

// MaterializeResult merangkum perubahan satu kali rekonsiliasi.
// Run kedua berturut-turut harus menghasilkan result nol semua (idempoten).
type MaterializeResult struct {
	ProficiencyCreated   int `json:"proficiency_created"`
	ProficiencyDeleted   int `json:"proficiency_deleted"`
	ProficiencyUnflagged int `json:"proficiency_unflagged"`
	ReadingCreated       int `json:"reading_created"`
	ReadingDeleted       int `json:"reading_deleted"`
	IssueCreated         int `json:"issue_created"`
}

// Empty true kalau rekonsiliasi tidak mengubah apa pun.
func (r MaterializeResult) Empty() bool {
	return r == MaterializeResult{}
}

/*
MaterializeRows merekonsiliasi baris tersimpan terhadap kunci kanonik
dari resolver:

  - kunci kanonik yang belum ada   → buat baris bernilai nol
  - baris yang kuncinya keluar dari cakupan → hapus (sub-record analisis
    ikut lewat cascade)
  - baris yang cocok               → TIDAK disentuh

Lalu defaulting peminatan: baris milik peminatan yang TIDAK dibuka
di-set offered=false HANYA kalau barisnya masih kosong (semua count dan
total nol). Baris yang sudah diisi user tidak pernah di-unflag otomatis,
walau peminatannya sedang tidak dibuka.

Harus dipanggil SEBELUM targeted save apa pun dalam satu alur request,
supaya kunci target sudah ada.
*/
func MaterializeRows(db *gorm.DB, sub *model.ReportSubmissionModel, cfg schema.OwnerConfig) (MaterializeResult, error) {
	cfg = cfg.Normalize()
	var res MaterializeResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if err = materializeProficiency(tx, sub, cfg, &res); err != nil {
			return err
		}
		if err = materializeReading(tx, sub, cfg, &res); err != nil {
			return err
		}
		return materializeIssues(tx, sub, &res)
	})
	if err != nil {
		return MaterializeResult{}, err
	}
	return res, nil
}

func materializeProficiency(tx *gorm.DB, sub *model.ReportSubmissionModel, cfg schema.OwnerConfig, res *MaterializeResult) error {
	canonical := schema.ProficiencyKeys(cfg)
	wanted := make(map[schema.RowKey]bool, len(canonical))
	for _, k := range canonical {
		wanted[k] = true
	}

	var existing []model.ProficiencyRowModel
	if err := tx.
		Where("proficiency_row_submission_id = ?", sub.ReportSubmissionID).
		Find(&existing).Error; err != nil {
		return err
	}
	have := make(map[schema.RowKey]*model.ProficiencyRowModel, len(existing))
	for i := range existing {
		row := &existing[i]
		have[schema.RowKey{Grade: row.ProficiencyRowGrade, Subject: row.ProficiencyRowSubjectCode}] = row
	}

	// kunci kanonik yang hilang → baris nol; baris peminatan yang tidak
	// dibuka lahir langsung offered=false supaya run berikutnya no-op
	for _, k := range canonical {
		if _, ok := have[k]; ok {
			continue
		}
		strand := schema.StrandOfSubject(k.Grade, k.Subject)
		row := model.ProficiencyRowModel{
			ProficiencyRowSubmissionID: sub.ReportSubmissionID,
			ProficiencyRowGrade:        k.Grade,
			ProficiencyRowSubjectCode:  k.Subject,
			ProficiencyRowStrand:       strand,
			ProficiencyRowOffered:      strand == "" || schema.IsStrandDeclared(cfg, strand),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		res.ProficiencyCreated++
	}

	// baris yang keluar cakupan → hapus (analysis ikut cascade)
	for key, row := range have {
		if wanted[key] {
			continue
		}
		if err := tx.Where("proficiency_analysis_row_id = ?", row.ProficiencyRowID).
			Delete(&model.ProficiencyAnalysisModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(row).Error; err != nil {
			return err
		}
		res.ProficiencyDeleted++
	}

	// defaulting peminatan: unflag hanya baris KOSONG milik peminatan
	// yang tidak dibuka; baris berisi tidak pernah disembunyikan otomatis
	for key, row := range have {
		if !wanted[key] || !row.ProficiencyRowOffered {
			continue
		}
		strand := row.ProficiencyRowStrand
		if strand == "" {
			strand = schema.StrandOfSubject(key.Grade, key.Subject)
		}
		if strand == "" || schema.IsStrandDeclared(cfg, strand) {
			continue
		}
		if !row.Empty() {
			continue
		}
		if err := tx.Model(&model.ProficiencyRowModel{}).
			Where("proficiency_row_id = ?", row.ProficiencyRowID).
			Update("proficiency_row_offered", false).Error; err != nil {
			return err
		}
		res.ProficiencyUnflagged++
	}
	return nil
}

func materializeReading(tx *gorm.DB, sub *model.ReportSubmissionModel, cfg schema.OwnerConfig, res *MaterializeResult) error {
	grades := schema.ReadingGrades(cfg)
	wanted := make(map[int]bool, len(grades))
	for _, g := range grades {
		wanted[g] = true
	}

	var existing []model.ReadingRowModel
	if err := tx.
		Where("reading_row_submission_id = ?", sub.ReportSubmissionID).
		Find(&existing).Error; err != nil {
		return err
	}
	have := make(map[int]*model.ReadingRowModel, len(existing))
	for i := range existing {
		have[existing[i].ReadingRowGrade] = &existing[i]
	}

	for _, g := range grades {
		if _, ok := have[g]; ok {
			continue
		}
		row := model.ReadingRowModel{
			ReadingRowSubmissionID: sub.ReportSubmissionID,
			ReadingRowGrade:        g,
			ReadingRowOffered:      true,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		res.ReadingCreated++
	}

	for g, row := range have {
		if wanted[g] {
			continue
		}
		if err := tx.Delete(row).Error; err != nil {
			return err
		}
		res.ReadingDeleted++
	}
	return nil
}

func materializeIssues(tx *gorm.DB, sub *model.ReportSubmissionModel, res *MaterializeResult) error {
	var existing []model.PriorityIssueRowModel
	if err := tx.
		Where("priority_issue_submission_id = ?", sub.ReportSubmissionID).
		Find(&existing).Error; err != nil {
		return err
	}
	have := make(map[int]bool, len(existing))
	for _, row := range existing {
		have[row.PriorityIssuePosition] = true
	}

	// slot posisi-tetap: tidak pernah keluar cakupan, hanya bisa kurang
	for _, pos := range schema.IssuePositions() {
		if have[pos] {
			continue
		}
		row := model.PriorityIssueRowModel{
			PriorityIssueSubmissionID: sub.ReportSubmissionID,
			PriorityIssuePosition:     pos,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		res.IssueCreated++
	}
	return nil
}

// ProficiencyRowKeyLabel: label kunci konsisten untuk pesan error.
func ProficiencyRowKeyLabel(grade int, subject string) string {
	return fmt.Sprintf("kelas %d / %s", grade, subject)
}

// ReadingRowKeyLabel: label kunci baris literasi untuk pesan error.
func ReadingRowKeyLabel(grade int) string {
	return fmt.Sprintf("literasi kelas %d", grade)
}
