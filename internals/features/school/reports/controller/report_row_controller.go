// file: internals/features/school/reports/controller/report_row_controller.go
package controller

import (
	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "laporanku_backend/internals/features/school/reports/dto"
	service "laporanku_backend/internals/features/school/reports/service"
	helper "laporanku_backend/internals/helpers"
)

/*
Controller baris laporan: endpoint targeted partial-save per row-group.
Satu request = satu baris; kebenaran protokol (resolusi kunci, profil
validasi autosave vs explicit, isolasi baris lain) ada di service —
controller hanya parse, guard auth scope, dan format response.
*/

type ReportRowController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewReportRowController(db *gorm.DB) *ReportRowController {
	return &ReportRowController{
		DB:        db,
		Validator: validator.New(),
	}
}

// SaveProficiencyRow: PATCH /api/u/report-submissions/:id/proficiency-rows
func (ctl *ReportRowController) SaveProficiencyRow(c *fiber.Ctx) error {
	sub, err := loadOwnedSubmission(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.SaveProficiencyRowRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	row, analysis, err := service.SaveProficiencyRow(ctl.DB, sub, &req, actorID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Baris capaian tersimpan", dto.FromProficiencyRow(row, analysis))
}

// SaveAllProficiencyRows: PUT /api/u/report-submissions/:id/proficiency-rows
// Full-form save: seluruh koleksi sekali kirim, semua pelanggaran
// dikumpulkan dulu sebelum ada tulis.
func (ctl *ReportRowController) SaveAllProficiencyRows(c *fiber.Ctx) error {
	sub, err := loadOwnedSubmission(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.SaveAllProficiencyRowsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := service.SaveAllProficiencyRows(ctl.DB, sub, &req, actorID); err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Semua baris capaian tersimpan", fiber.Map{
		"saved_rows": len(req.Rows),
	})
}

// SaveReadingRow: PATCH /api/u/report-submissions/:id/reading-rows
func (ctl *ReportRowController) SaveReadingRow(c *fiber.Ctx) error {
	sub, err := loadOwnedSubmission(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.SaveReadingRowRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	row, err := service.SaveReadingRow(ctl.DB, sub, &req, actorID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Baris literasi tersimpan", row)
}

// SaveIssueRow: PATCH /api/u/report-submissions/:id/priority-issues
func (ctl *ReportRowController) SaveIssueRow(c *fiber.Ctx) error {
	sub, err := loadOwnedSubmission(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.SaveIssueRowRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	row, err := service.SaveIssueRow(ctl.DB, sub, &req, actorID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Slot isu tersimpan", row)
}

// GetProgress: GET /api/u/report-submissions/:id/progress
// Progres dihitung ulang saat diminta, tidak pernah dipersist.
func (ctl *ReportRowController) GetProgress(c *fiber.Ctx) error {
	sub, err := loadOwnedSubmission(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	progress, err := service.ComputeProgress(ctl.DB, sub)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", progress)
}
