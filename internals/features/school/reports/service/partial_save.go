// file: internals/features/school/reports/service/partial_save.go
package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "laporanku_backend/internals/features/school/reports/dto"
	model "laporanku_backend/internals/features/school/reports/model"
)

/*
Targeted partial-save: menyimpan TEPAT SATU baris (plus sub-record
analisisnya) dari ratusan baris milik satu laporan, dialamatkan lewat
kunci eksplisit. Request tidak membawa data baris lain, dan protokol ini
tidak boleh menulis ke baris lain mana pun — hanya baris target, sub-record
analisisnya, dan metadata last-edited di submission.

Resolusi kunci: eksplisit dulu; fallback posisi ordinal HANYA kalau kunci
eksplisit tidak dikirim (jalur kompatibilitas lama, di-log WARN). Target
tidak ketemu → 404; protokol ini TIDAK pernah membuat baris baru —
pembuatan baris sepenuhnya urusan materializer.
*/

// guardEditable: semua jalur mutasi menolak laporan yang tidak editable.
func guardEditable(sub *model.ReportSubmissionModel) error {
	if !sub.Editable() {
		return fiber.NewError(fiber.StatusConflict,
			fmt.Sprintf("Laporan berstatus %s tidak bisa diedit", sub.ReportSubmissionStatus))
	}
	return nil
}

// touchLastEdited: metadata write, bukan transisi status.
func touchLastEdited(tx *gorm.DB, subID uuid.UUID, actorID uuid.UUID) error {
	now := time.Now()
	return tx.Model(&model.ReportSubmissionModel{}).
		Where("report_submission_id = ?", subID).
		Updates(map[string]any{
			"report_submission_last_edited_by": actorID,
			"report_submission_last_edited_at": now,
		}).Error
}

/* =========================
   Capaian (kelas × mapel)
========================= */

func resolveProficiencyTarget(db *gorm.DB, sub *model.ReportSubmissionModel, req *dto.SaveProficiencyRowRequest) (*model.ProficiencyRowModel, error) {
	if req.HasExplicitKey() {
		var row model.ProficiencyRowModel
		err := db.
			Where("proficiency_row_submission_id = ? AND proficiency_row_grade = ? AND proficiency_row_subject_code = ?",
				sub.ReportSubmissionID, *req.Grade, *req.SubjectCode).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fiber.NewError(fiber.StatusNotFound,
					fmt.Sprintf("Baris target %s tidak ditemukan", ProficiencyRowKeyLabel(*req.Grade, *req.SubjectCode)))
			}
			return nil, err
		}
		return &row, nil
	}

	if req.Position == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Kunci baris (grade + subject_code) wajib dikirim")
	}

	// Jalur kompatibilitas lama; rawan salah target kalau urutan baris bergeser.
	log.Printf("[WARN] partial-save capaian pakai fallback posisi %d (submission=%s)", *req.Position, sub.ReportSubmissionID)

	var rows []model.ProficiencyRowModel
	if err := db.
		Where("proficiency_row_submission_id = ?", sub.ReportSubmissionID).
		Order("proficiency_row_grade ASC, proficiency_row_subject_code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	idx := *req.Position - 1
	if idx < 0 || idx >= len(rows) {
		return nil, fiber.NewError(fiber.StatusNotFound,
			fmt.Sprintf("Baris target posisi %d tidak ditemukan", *req.Position))
	}
	return &rows[idx], nil
}

// applyProficiencyRequest menurunkan kandidat hasil merge untuk validasi
// (tanpa menulis apa pun).
func applyProficiencyRequest(row model.ProficiencyRowModel, req *dto.SaveProficiencyRowRequest) model.ProficiencyRowModel {
	if req.Offered != nil {
		row.ProficiencyRowOffered = *req.Offered
	}
	if req.EnrolledTotal != nil {
		row.ProficiencyRowEnrolledTotal = *req.EnrolledTotal
	}
	if req.CountBeginning != nil {
		row.ProficiencyRowCountBeginning = *req.CountBeginning
	}
	if req.CountDeveloping != nil {
		row.ProficiencyRowCountDeveloping = *req.CountDeveloping
	}
	if req.CountApproaching != nil {
		row.ProficiencyRowCountApproaching = *req.CountApproaching
	}
	if req.CountProficient != nil {
		row.ProficiencyRowCountProficient = *req.CountProficient
	}
	if req.CountAdvanced != nil {
		row.ProficiencyRowCountAdvanced = *req.CountAdvanced
	}
	if req.Intervention != nil {
		row.ProficiencyRowIntervention = *req.Intervention
	}
	return row
}

// validateProficiencyCandidate: profil autosave melewati invariant
// agregat; profil explicit-save menuntut jumlah kategori == total persis
// untuk baris offered dengan total > 0.
func validateProficiencyCandidate(cand *model.ProficiencyRowModel, autosave bool) RowValidationErrors {
	if autosave {
		return nil
	}
	if cand.ProficiencyRowOffered && cand.ProficiencyRowEnrolledTotal > 0 &&
		cand.CountSum() != cand.ProficiencyRowEnrolledTotal {
		return RowValidationErrors{{
			Key:   ProficiencyRowKeyLabel(cand.ProficiencyRowGrade, cand.ProficiencyRowSubjectCode),
			Sum:   cand.CountSum(),
			Total: cand.ProficiencyRowEnrolledTotal,
		}}
	}
	return nil
}

func upsertAnalysis(tx *gorm.DB, rowID uuid.UUID, payload *dto.AnalysisPayload) (*model.ProficiencyAnalysisModel, error) {
	var an model.ProficiencyAnalysisModel
	err := tx.Where("proficiency_analysis_row_id = ?", rowID).First(&an).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		an = model.ProficiencyAnalysisModel{ProficiencyAnalysisRowID: rowID}
		if payload.Text != nil {
			an.ProficiencyAnalysisText = *payload.Text
		}
		if payload.ActionPlan != nil {
			an.ProficiencyAnalysisActionPlan = *payload.ActionPlan
		}
		if err := tx.Create(&an).Error; err != nil {
			return nil, err
		}
		return &an, nil
	case err != nil:
		return nil, err
	}

	upd := map[string]any{}
	if payload.Text != nil {
		upd["proficiency_analysis_text"] = *payload.Text
	}
	if payload.ActionPlan != nil {
		upd["proficiency_analysis_action_plan"] = *payload.ActionPlan
	}
	if len(upd) > 0 {
		if err := tx.Model(&model.ProficiencyAnalysisModel{}).
			Where("proficiency_analysis_id = ?", an.ProficiencyAnalysisID).
			Updates(upd).Error; err != nil {
			return nil, err
		}
		if err := tx.Where("proficiency_analysis_id = ?", an.ProficiencyAnalysisID).First(&an).Error; err != nil {
			return nil, err
		}
	}
	return &an, nil
}

// SaveProficiencyRow menjalankan protokol targeted save untuk satu baris
// capaian. Semua check (editable, resolusi, validasi) jalan sebelum
// tulis pertama; gagal = tidak ada state parsial.
func SaveProficiencyRow(db *gorm.DB, sub *model.ReportSubmissionModel, req *dto.SaveProficiencyRowRequest, actorID uuid.UUID) (*model.ProficiencyRowModel, *model.ProficiencyAnalysisModel, error) {
	if err := guardEditable(sub); err != nil {
		return nil, nil, err
	}

	row, err := resolveProficiencyTarget(db, sub, req)
	if err != nil {
		return nil, nil, err
	}

	cand := applyProficiencyRequest(*row, req)
	if verrs := validateProficiencyCandidate(&cand, req.Autosave); len(verrs) > 0 {
		return nil, nil, verrs
	}

	var analysis *model.ProficiencyAnalysisModel
	err = db.Transaction(func(tx *gorm.DB) error {
		if upd := req.ToUpdates(); len(upd) > 0 {
			// update dikunci PK baris target — tidak ada jalan menyentuh baris lain
			if err := tx.Model(&model.ProficiencyRowModel{}).
				Where("proficiency_row_id = ?", row.ProficiencyRowID).
				Updates(upd).Error; err != nil {
				return err
			}
		}
		if req.Analysis != nil {
			var err error
			if analysis, err = upsertAnalysis(tx, row.ProficiencyRowID, req.Analysis); err != nil {
				return err
			}
		}
		return touchLastEdited(tx, sub.ReportSubmissionID, actorID)
	})
	if err != nil {
		return nil, nil, err
	}

	if err := db.Where("proficiency_row_id = ?", row.ProficiencyRowID).First(row).Error; err != nil {
		return nil, nil, err
	}
	return row, analysis, nil
}

// SaveAllProficiencyRows: full-form save seluruh koleksi baris capaian.
// Validasi dulu SEMUA baris (kumpulkan semua pelanggaran), baru tulis.
func SaveAllProficiencyRows(db *gorm.DB, sub *model.ReportSubmissionModel, req *dto.SaveAllProficiencyRowsRequest, actorID uuid.UUID) error {
	if err := guardEditable(sub); err != nil {
		return err
	}

	type pending struct {
		row *model.ProficiencyRowModel
		req *dto.SaveProficiencyRowRequest
	}
	resolved := make([]pending, 0, len(req.Rows))
	var verrs RowValidationErrors

	for i := range req.Rows {
		rr := &req.Rows[i]
		if !rr.HasExplicitKey() {
			return fiber.NewError(fiber.StatusBadRequest, "Full-form save wajib kunci eksplisit per baris")
		}
		row, err := resolveProficiencyTarget(db, sub, rr)
		if err != nil {
			return err
		}
		cand := applyProficiencyRequest(*row, rr)
		verrs = append(verrs, validateProficiencyCandidate(&cand, req.Autosave)...)
		resolved = append(resolved, pending{row: row, req: rr})
	}
	if len(verrs) > 0 {
		return verrs
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, p := range resolved {
			if upd := p.req.ToUpdates(); len(upd) > 0 {
				if err := tx.Model(&model.ProficiencyRowModel{}).
					Where("proficiency_row_id = ?", p.row.ProficiencyRowID).
					Updates(upd).Error; err != nil {
					return err
				}
			}
			if p.req.Analysis != nil {
				if _, err := upsertAnalysis(tx, p.row.ProficiencyRowID, p.req.Analysis); err != nil {
					return err
				}
			}
		}
		return touchLastEdited(tx, sub.ReportSubmissionID, actorID)
	})
}

/* =========================
   Literasi (per kelas)
========================= */

func resolveReadingTarget(db *gorm.DB, sub *model.ReportSubmissionModel, req *dto.SaveReadingRowRequest) (*model.ReadingRowModel, error) {
	if req.HasExplicitKey() {
		var row model.ReadingRowModel
		err := db.
			Where("reading_row_submission_id = ? AND reading_row_grade = ?", sub.ReportSubmissionID, *req.Grade).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fiber.NewError(fiber.StatusNotFound,
					fmt.Sprintf("Baris target %s tidak ditemukan", ReadingRowKeyLabel(*req.Grade)))
			}
			return nil, err
		}
		return &row, nil
	}

	if req.Position == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Kunci baris (grade) wajib dikirim")
	}

	log.Printf("[WARN] partial-save literasi pakai fallback posisi %d (submission=%s)", *req.Position, sub.ReportSubmissionID)

	var rows []model.ReadingRowModel
	if err := db.
		Where("reading_row_submission_id = ?", sub.ReportSubmissionID).
		Order("reading_row_grade ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	idx := *req.Position - 1
	if idx < 0 || idx >= len(rows) {
		return nil, fiber.NewError(fiber.StatusNotFound,
			fmt.Sprintf("Baris target posisi %d tidak ditemukan", *req.Position))
	}
	return &rows[idx], nil
}

func applyReadingRequest(row model.ReadingRowModel, req *dto.SaveReadingRowRequest) model.ReadingRowModel {
	if req.Offered != nil {
		row.ReadingRowOffered = *req.Offered
	}
	if req.AssessedTotal != nil {
		row.ReadingRowAssessedTotal = *req.AssessedTotal
	}
	if req.CountIndependent != nil {
		row.ReadingRowCountIndependent = *req.CountIndependent
	}
	if req.CountInstructional != nil {
		row.ReadingRowCountInstructional = *req.CountInstructional
	}
	if req.CountFrustration != nil {
		row.ReadingRowCountFrustration = *req.CountFrustration
	}
	if req.CountNonReader != nil {
		row.ReadingRowCountNonReader = *req.CountNonReader
	}
	if req.Intervention != nil {
		row.ReadingRowIntervention = *req.Intervention
	}
	return row
}

func validateReadingCandidate(cand *model.ReadingRowModel, autosave bool) RowValidationErrors {
	if autosave {
		return nil
	}
	if cand.ReadingRowOffered && cand.ReadingRowAssessedTotal > 0 &&
		cand.CountSum() != cand.ReadingRowAssessedTotal {
		return RowValidationErrors{{
			Key:   ReadingRowKeyLabel(cand.ReadingRowGrade),
			Sum:   cand.CountSum(),
			Total: cand.ReadingRowAssessedTotal,
		}}
	}
	return nil
}

// SaveReadingRow: targeted save satu baris literasi.
func SaveReadingRow(db *gorm.DB, sub *model.ReportSubmissionModel, req *dto.SaveReadingRowRequest, actorID uuid.UUID) (*model.ReadingRowModel, error) {
	if err := guardEditable(sub); err != nil {
		return nil, err
	}

	row, err := resolveReadingTarget(db, sub, req)
	if err != nil {
		return nil, err
	}

	cand := applyReadingRequest(*row, req)
	if verrs := validateReadingCandidate(&cand, req.Autosave); len(verrs) > 0 {
		return nil, verrs
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if upd := req.ToUpdates(); len(upd) > 0 {
			if err := tx.Model(&model.ReadingRowModel{}).
				Where("reading_row_id = ?", row.ReadingRowID).
				Updates(upd).Error; err != nil {
				return err
			}
		}
		return touchLastEdited(tx, sub.ReportSubmissionID, actorID)
	})
	if err != nil {
		return nil, err
	}

	if err := db.Where("reading_row_id = ?", row.ReadingRowID).First(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

/* =========================
   Isu prioritas (slot 1..5)
========================= */

// SaveIssueRow: targeted save satu slot isu. Posisi slot adalah kuncinya;
// tidak ada invariant agregat, jadi kedua profil validasi identik.
func SaveIssueRow(db *gorm.DB, sub *model.ReportSubmissionModel, req *dto.SaveIssueRowRequest, actorID uuid.UUID) (*model.PriorityIssueRowModel, error) {
	if err := guardEditable(sub); err != nil {
		return nil, err
	}
	if req.Position == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Posisi slot isu wajib disertakan")
	}

	var row model.PriorityIssueRowModel
	err := db.
		Where("priority_issue_submission_id = ? AND priority_issue_position = ?", sub.ReportSubmissionID, *req.Position).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound,
				fmt.Sprintf("Slot isu posisi %d tidak ditemukan", *req.Position))
		}
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if upd := req.ToUpdates(); len(upd) > 0 {
			if err := tx.Model(&model.PriorityIssueRowModel{}).
				Where("priority_issue_id = ?", row.PriorityIssueID).
				Updates(upd).Error; err != nil {
				return err
			}
		}
		return touchLastEdited(tx, sub.ReportSubmissionID, actorID)
	})
	if err != nil {
		return nil, err
	}

	if err := db.Where("priority_issue_id = ?", row.PriorityIssueID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
