// file: internals/features/school/reports/controller/report_workflow_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "laporanku_backend/internals/features/school/reports/dto"
	service "laporanku_backend/internals/features/school/reports/service"
	helper "laporanku_backend/internals/helpers"
)

/*
Controller transisi status. Submit milik sekolah; return/note milik
reviewer; reset-draft milik admin. Aturan legalitas transisi dan
append log audit semuanya di service.Workflow.
*/

type ReportWorkflowController struct {
	DB       *gorm.DB
	Workflow *service.Workflow
}

func NewReportWorkflowController(db *gorm.DB, w *service.Workflow) *ReportWorkflowController {
	return &ReportWorkflowController{DB: db, Workflow: w}
}

// Submit: POST /api/u/report-submissions/:id/submit
func (ctl *ReportWorkflowController) Submit(c *fiber.Ctx) error {
	sub, err := loadOwnedSubmission(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := ctl.Workflow.Submit(ctl.DB, sub, actorID); err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Laporan terkirim", dto.FromSubmissionModel(sub))
}

// Return: POST /api/a/report-submissions/:id/return
// Reviewer mengembalikan laporan untuk revisi; remarks wajib.
func (ctl *ReportWorkflowController) Return(c *fiber.Ctx) error {
	sub, err := loadSubmissionForReview(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.RemarksRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	if err := ctl.Workflow.Return(ctl.DB, sub, actorID, req.Remarks); err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Laporan dikembalikan ke sekolah", dto.FromSubmissionModel(sub))
}

// Note: POST /api/a/report-submissions/:id/note
// Reviewer menandai laporan sudah diperiksa; remarks opsional.
func (ctl *ReportWorkflowController) Note(c *fiber.Ctx) error {
	sub, err := loadSubmissionForReview(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.RemarksRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	if err := ctl.Workflow.Note(ctl.DB, sub, actorID, req.Remarks); err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Laporan dicatat", dto.FromSubmissionModel(sub))
}

// ResetToDraft: POST /api/a/report-submissions/:id/reset-draft
// Reset administratif (salah kirim, migrasi periode, dsb).
func (ctl *ReportWorkflowController) ResetToDraft(c *fiber.Ctx) error {
	sub, err := loadSubmissionForReview(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := ctl.Workflow.ResetToDraft(ctl.DB, sub, &actorID); err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Laporan dikembalikan ke draft", dto.FromSubmissionModel(sub))
}
