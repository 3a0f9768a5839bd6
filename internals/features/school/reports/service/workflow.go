// file: internals/features/school/reports/service/workflow.go
package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	notifService "laporanku_backend/internals/features/notifications/service"
	model "laporanku_backend/internals/features/school/reports/model"
	profileService "laporanku_backend/internals/features/school/profile/service"
)

/*
State machine status laporan.

  draft | returned → submitted   (submit, wajib lolos readiness)
  submitted        → returned    (return, wajib remarks)
  submitted        → noted       (note, remarks opsional)
  *                → draft       (reset administratif)

Guard no-op: target == status sekarang → diam-diam tidak melakukan apa pun
(tanpa log, tanpa notifikasi) supaya save berulang tidak menduplikasi audit.

Setiap transisi yang benar-benar mengubah status: simpan submission +
append TEPAT SATU entri log dalam SATU transaksi (tidak boleh parsial).
Status ditulis compare-and-swap terhadap status TERSIMPAN, bukan snapshot
pemanggil: dua request dari snapshot yang sama hanya menghasilkan satu
pemenang (dan satu log); yang kalah jadi no-op atau konflik 409.
Notifikasi dikirim SETELAH commit, best-effort, error di-swallow.
*/

type Workflow struct {
	Notifier notifService.Dispatcher
}

func NewWorkflow(n notifService.Dispatcher) *Workflow {
	return &Workflow{Notifier: n}
}

func illegalTransition(from model.ReportStatus, action string, allowed string) error {
	return fiber.NewError(fiber.StatusConflict,
		fmt.Sprintf("Aksi %s tidak diizinkan dari status %s (hanya dari %s)", action, from, allowed))
}

// claimTransition menulis status secara compare-and-swap: update hanya
// mengenai baris yang statusnya MASIH `from`. RowsAffected 0 berarti kalah
// balapan dengan request lain; pemanggil membaca ulang untuk membedakan
// "sudah di target" dari konflik sungguhan.
func claimTransition(tx *gorm.DB, subID uuid.UUID, from model.ReportStatus, updates map[string]any) (bool, error) {
	res := tx.Model(&model.ReportSubmissionModel{}).
		Where("report_submission_id = ? AND report_submission_status = ?", subID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// resolveLostRace: snapshot pemanggil basi. Baca status tersimpan; kalau
// request lain sudah membawa laporan ke target, perlakukan sebagai no-op
// (log + notifikasi sudah ditulis pemenang), selain itu konflik.
func resolveLostRace(db *gorm.DB, sub *model.ReportSubmissionModel, target model.ReportStatus, action, allowed string) error {
	var cur model.ReportSubmissionModel
	if err := db.First(&cur, "report_submission_id = ?", sub.ReportSubmissionID).Error; err != nil {
		return err
	}
	*sub = cur
	if cur.ReportSubmissionStatus == target {
		return nil
	}
	return illegalTransition(cur.ReportSubmissionStatus, action, allowed)
}

func appendStatusLog(tx *gorm.DB, subID uuid.UUID, actorID *uuid.UUID, from, to model.ReportStatus, remarks string) error {
	entry := model.ReportStatusLogModel{
		ReportStatusLogSubmissionID: subID,
		ReportStatusLogActorID:      actorID,
		ReportStatusLogFromStatus:   from,
		ReportStatusLogToStatus:     to,
		ReportStatusLogRemarks:      remarks,
	}
	return tx.Create(&entry).Error
}

// notify: boundary side-effect — apa pun yang terjadi di dispatcher tidak
// boleh menggagalkan operasi utama.
func (w *Workflow) notify(db *gorm.DB, schoolID uuid.UUID, subject, body string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WARN] notifikasi panic di-swallow: %v", r)
		}
	}()
	if w.Notifier == nil {
		return
	}
	_, email := profileService.ContactForSchool(db, schoolID)
	if email == "" {
		return
	}
	if ok := w.Notifier.QueueOrSend(email, subject, body, ""); !ok {
		log.Printf("[WARN] notifikasi ke %s tidak terkirim (subject=%q)", email, subject)
	}
}

// OpenDraft mengembalikan submission yang sudah ada untuk
// (school, template, period), atau membuat draft baru + log pembuatan
// (from kosong) dalam satu transaksi.
func (w *Workflow) OpenDraft(db *gorm.DB, schoolID, templateID, periodID uuid.UUID, actorID uuid.UUID) (*model.ReportSubmissionModel, bool, error) {
	var sub model.ReportSubmissionModel
	err := db.
		Where("report_submission_school_id = ? AND report_submission_template_id = ? AND report_submission_period_id = ?",
			schoolID, templateID, periodID).
		First(&sub).Error
	if err == nil {
		return &sub, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	sub = model.ReportSubmissionModel{
		ReportSubmissionSchoolID:   schoolID,
		ReportSubmissionTemplateID: templateID,
		ReportSubmissionPeriodID:   periodID,
		ReportSubmissionStatus:     model.ReportStatusDraft,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}
		return appendStatusLog(tx, sub.ReportSubmissionID, &actorID, "", model.ReportStatusDraft, "")
	})
	if err != nil {
		le := strings.ToLower(err.Error())
		if strings.Contains(le, "duplicate key") || strings.Contains(le, "unique constraint") {
			// race dengan request lain: ambil yang sudah jadi
			if err2 := db.
				Where("report_submission_school_id = ? AND report_submission_template_id = ? AND report_submission_period_id = ?",
					schoolID, templateID, periodID).
				First(&sub).Error; err2 == nil {
				return &sub, false, nil
			}
		}
		return nil, false, err
	}
	return &sub, true, nil
}

// checkReadiness: minimal satu proyek, dan setiap proyek minimal satu
// kegiatan. Gagal → daftar SEMUA proyek bermasalah, bukan cuma pertama.
func checkReadiness(db *gorm.DB, subID uuid.UUID) error {
	var projects []model.ReportProjectModel
	if err := db.
		Where("report_project_submission_id = ?", subID).
		Find(&projects).Error; err != nil {
		return err
	}

	if len(projects) == 0 {
		return &ReadinessError{Problems: []ReadinessProblem{
			{Reason: "Tambahkan minimal satu proyek perbaikan sebelum mengirim laporan"},
		}}
	}

	var problems []ReadinessProblem
	for _, p := range projects {
		var n int64
		if err := db.Model(&model.ReportProjectActivityModel{}).
			Where("project_activity_project_id = ?", p.ReportProjectID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			problems = append(problems, ReadinessProblem{
				ProjectID: p.ReportProjectID.String(),
				Title:     p.ReportProjectTitle,
				Reason:    "Proyek belum punya kegiatan; tambahkan minimal satu kegiatan",
			})
		}
	}
	if len(problems) > 0 {
		return &ReadinessError{Problems: problems}
	}
	return nil
}

// Submit: draft|returned → submitted.
func (w *Workflow) Submit(db *gorm.DB, sub *model.ReportSubmissionModel, actorID uuid.UUID) error {
	from := sub.ReportSubmissionStatus
	if from == model.ReportStatusSubmitted {
		return nil // no-op guard
	}
	if from != model.ReportStatusDraft && from != model.ReportStatusReturned {
		return illegalTransition(from, "submit", "draft/returned")
	}

	if err := checkReadiness(db, sub.ReportSubmissionID); err != nil {
		return err
	}

	now := time.Now()
	// submit baru menghapus jejak return/note siklus sebelumnya
	updates := map[string]any{
		"report_submission_status":           model.ReportStatusSubmitted,
		"report_submission_submitted_at":     &now,
		"report_submission_submitted_by":     &actorID,
		"report_submission_returned_at":      nil,
		"report_submission_returned_by":      nil,
		"report_submission_returned_remarks": nil,
		"report_submission_noted_at":         nil,
		"report_submission_noted_by":         nil,
		"report_submission_noted_remarks":    nil,
	}
	won := false
	err := db.Transaction(func(tx *gorm.DB) error {
		ok, err := claimTransition(tx, sub.ReportSubmissionID, from, updates)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		won = true
		return appendStatusLog(tx, sub.ReportSubmissionID, &actorID, from, model.ReportStatusSubmitted, "")
	})
	if err != nil {
		return err
	}
	if !won {
		return resolveLostRace(db, sub, model.ReportStatusSubmitted, "submit", "draft/returned")
	}

	sub.ReportSubmissionStatus = model.ReportStatusSubmitted
	sub.ReportSubmissionSubmittedAt = &now
	sub.ReportSubmissionSubmittedBy = &actorID
	sub.ReportSubmissionReturnedAt = nil
	sub.ReportSubmissionReturnedBy = nil
	sub.ReportSubmissionReturnedRemarks = nil
	sub.ReportSubmissionNotedAt = nil
	sub.ReportSubmissionNotedBy = nil
	sub.ReportSubmissionNotedRemarks = nil

	w.notify(db, sub.ReportSubmissionSchoolID,
		"Laporan terkirim",
		"Laporan periodik sekolah Anda sudah terkirim dan menunggu review.")
	return nil
}

// Return: submitted → returned, remarks wajib.
func (w *Workflow) Return(db *gorm.DB, sub *model.ReportSubmissionModel, actorID uuid.UUID, remarks string) error {
	from := sub.ReportSubmissionStatus
	if from == model.ReportStatusReturned {
		return nil // no-op guard
	}
	if from != model.ReportStatusSubmitted {
		return illegalTransition(from, "return", "submitted")
	}
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Remarks wajib diisi saat mengembalikan laporan")
	}

	now := time.Now()
	updates := map[string]any{
		"report_submission_status":           model.ReportStatusReturned,
		"report_submission_returned_at":      &now,
		"report_submission_returned_by":      &actorID,
		"report_submission_returned_remarks": &remarks,
		"report_submission_noted_at":         nil,
		"report_submission_noted_by":         nil,
		"report_submission_noted_remarks":    nil,
	}
	won := false
	err := db.Transaction(func(tx *gorm.DB) error {
		ok, err := claimTransition(tx, sub.ReportSubmissionID, from, updates)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		won = true
		return appendStatusLog(tx, sub.ReportSubmissionID, &actorID, from, model.ReportStatusReturned, remarks)
	})
	if err != nil {
		return err
	}
	if !won {
		return resolveLostRace(db, sub, model.ReportStatusReturned, "return", "submitted")
	}

	sub.ReportSubmissionStatus = model.ReportStatusReturned
	sub.ReportSubmissionReturnedAt = &now
	sub.ReportSubmissionReturnedBy = &actorID
	sub.ReportSubmissionReturnedRemarks = &remarks
	sub.ReportSubmissionNotedAt = nil
	sub.ReportSubmissionNotedBy = nil
	sub.ReportSubmissionNotedRemarks = nil

	w.notify(db, sub.ReportSubmissionSchoolID,
		"Laporan dikembalikan",
		"Laporan Anda dikembalikan reviewer dengan catatan: "+remarks)
	return nil
}

// Note: submitted → noted, remarks opsional.
func (w *Workflow) Note(db *gorm.DB, sub *model.ReportSubmissionModel, actorID uuid.UUID, remarks string) error {
	from := sub.ReportSubmissionStatus
	if from == model.ReportStatusNoted {
		return nil // no-op guard
	}
	if from != model.ReportStatusSubmitted {
		return illegalTransition(from, "note", "submitted")
	}
	remarks = strings.TrimSpace(remarks)

	now := time.Now()
	var notedRemarks *string
	if remarks != "" {
		notedRemarks = &remarks
	}
	updates := map[string]any{
		"report_submission_status":           model.ReportStatusNoted,
		"report_submission_noted_at":         &now,
		"report_submission_noted_by":         &actorID,
		"report_submission_noted_remarks":    notedRemarks,
		"report_submission_returned_at":      nil,
		"report_submission_returned_by":      nil,
		"report_submission_returned_remarks": nil,
	}
	won := false
	err := db.Transaction(func(tx *gorm.DB) error {
		ok, err := claimTransition(tx, sub.ReportSubmissionID, from, updates)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		won = true
		return appendStatusLog(tx, sub.ReportSubmissionID, &actorID, from, model.ReportStatusNoted, remarks)
	})
	if err != nil {
		return err
	}
	if !won {
		return resolveLostRace(db, sub, model.ReportStatusNoted, "note", "submitted")
	}

	sub.ReportSubmissionStatus = model.ReportStatusNoted
	sub.ReportSubmissionNotedAt = &now
	sub.ReportSubmissionNotedBy = &actorID
	sub.ReportSubmissionNotedRemarks = notedRemarks
	sub.ReportSubmissionReturnedAt = nil
	sub.ReportSubmissionReturnedBy = nil
	sub.ReportSubmissionReturnedRemarks = nil

	w.notify(db, sub.ReportSubmissionSchoolID,
		"Laporan diterima",
		"Laporan periodik Anda sudah diperiksa dan dicatat reviewer.")
	return nil
}

// ResetToDraft: reset administratif dari status mana pun.
// actorID nil = dijalankan sistem.
func (w *Workflow) ResetToDraft(db *gorm.DB, sub *model.ReportSubmissionModel, actorID *uuid.UUID) error {
	from := sub.ReportSubmissionStatus
	if from == model.ReportStatusDraft {
		return nil // no-op guard (idempoten)
	}

	won := false
	err := db.Transaction(func(tx *gorm.DB) error {
		ok, err := claimTransition(tx, sub.ReportSubmissionID, from, map[string]any{
			"report_submission_status": model.ReportStatusDraft,
		})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		won = true
		return appendStatusLog(tx, sub.ReportSubmissionID, actorID, from, model.ReportStatusDraft, "reset administratif")
	})
	if err != nil {
		return err
	}
	if !won {
		// snapshot basi: status sudah bergeser. Kalau sudah draft, request
		// lain yang me-reset; selain itu minta pemanggil mengulang dari
		// status terbaru.
		return resolveLostRace(db, sub, model.ReportStatusDraft, "reset", "status terbaru yang dibaca ulang")
	}
	sub.ReportSubmissionStatus = model.ReportStatusDraft
	return nil
}
