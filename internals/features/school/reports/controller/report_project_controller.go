// file: internals/features/school/reports/controller/report_project_controller.go
package controller

import (
	"errors"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "laporanku_backend/internals/features/school/reports/dto"
	model "laporanku_backend/internals/features/school/reports/model"
	helper "laporanku_backend/internals/helpers"
)

/*
Controller proyek perbaikan + kegiatannya. Proyek dibuat user (bukan
materializer) dan menjadi syarat readiness submit: minimal satu proyek,
tiap proyek minimal satu kegiatan.
*/

type ReportProjectController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewReportProjectController(db *gorm.DB) *ReportProjectController {
	return &ReportProjectController{
		DB:        db,
		Validator: validator.New(),
	}
}

// loadOwnedProject: proyek :project_id harus milik submission :id yang
// sudah lolos scope check sekolah.
func (ctl *ReportProjectController) loadOwnedProject(c *fiber.Ctx, sub *model.ReportSubmissionModel) (*model.ReportProjectModel, error) {
	projectID, err := parseUUIDParam(c, "project_id")
	if err != nil {
		return nil, err
	}
	var proj model.ReportProjectModel
	err = ctl.DB.
		Where("report_project_id = ? AND report_project_submission_id = ?", projectID, sub.ReportSubmissionID).
		First(&proj).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Proyek tidak ditemukan")
		}
		return nil, err
	}
	return &proj, nil
}

func guardEditableSubmission(c *fiber.Ctx, sub *model.ReportSubmissionModel) error {
	if !sub.Editable() {
		return helper.JsonError(c, fiber.StatusConflict,
			"Laporan berstatus "+string(sub.ReportSubmissionStatus)+" tidak bisa diedit")
	}
	return nil
}

// Create: POST /api/u/report-submissions/:id/projects
func (ctl *ReportProjectController) Create(c *fiber.Ctx) error {
	sub, err := loadOwnedSubmission(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := guardEditableSubmission(c, sub); err != nil {
		return err
	}

	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	proj := req.ToModel()
	proj.ReportProjectSubmissionID = sub.ReportSubmissionID
	if err := ctl.DB.Create(&proj).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Proyek ditambahkan", proj)
}

// List: GET /api/u/report-submissions/:id/projects
func (ctl *ReportProjectController) List(c *fiber.Ctx) error {
	sub, err := loadOwnedSubmission(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var projects []model.ReportProjectModel
	if err := ctl.DB.
		Where("report_project_submission_id = ?", sub.ReportSubmissionID).
		Order("report_project_created_at ASC").
		Preload("Activities").
		Find(&projects).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", projects)
}

// Patch: PATCH /api/u/report-submissions/:id/projects/:project_id
func (ctl *ReportProjectController) Patch(c *fiber.Ctx) error {
	sub, err := loadOwnedSubmission(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := guardEditableSubmission(c, sub); err != nil {
		return err
	}
	proj, err := ctl.loadOwnedProject(c, sub)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.PatchProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	// title/objective NOT NULL: null literal ditolak di sini
	if req.Title != nil && req.Title.IsNull() {
		return helper.JsonError(c, fiber.StatusBadRequest, "title tidak boleh null")
	}
	if req.Objective != nil && req.Objective.IsNull() {
		return helper.JsonError(c, fiber.StatusBadRequest, "objective tidak boleh null")
	}

	upd := req.ToUpdates()
	if len(upd) == 0 {
		return helper.JsonOK(c, "Tidak ada perubahan", proj)
	}
	if err := ctl.DB.Model(proj).Updates(upd).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := ctl.DB.First(proj, "report_project_id = ?", proj.ReportProjectID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Proyek diperbarui", proj)
}

// Delete: DELETE /api/u/report-submissions/:id/projects/:project_id
// Kegiatan di bawahnya ikut terhapus.
func (ctl *ReportProjectController) Delete(c *fiber.Ctx) error {
	sub, err := loadOwnedSubmission(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := guardEditableSubmission(c, sub); err != nil {
		return err
	}
	proj, err := ctl.loadOwnedProject(c, sub)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("project_activity_project_id = ?", proj.ReportProjectID).
			Delete(&model.ReportProjectActivityModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(proj).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "Proyek dihapus", fiber.Map{"report_project_id": proj.ReportProjectID})
}

// AddActivity: POST /api/u/report-submissions/:id/projects/:project_id/activities
func (ctl *ReportProjectController) AddActivity(c *fiber.Ctx) error {
	sub, err := loadOwnedSubmission(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := guardEditableSubmission(c, sub); err != nil {
		return err
	}
	proj, err := ctl.loadOwnedProject(c, sub)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.CreateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	act := req.ToModel()
	act.ProjectActivityProjectID = proj.ReportProjectID
	if err := ctl.DB.Create(&act).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Kegiatan ditambahkan", act)
}

// DeleteActivity: DELETE /api/u/report-submissions/:id/projects/:project_id/activities/:activity_id
func (ctl *ReportProjectController) DeleteActivity(c *fiber.Ctx) error {
	sub, err := loadOwnedSubmission(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := guardEditableSubmission(c, sub); err != nil {
		return err
	}
	proj, err := ctl.loadOwnedProject(c, sub)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	activityID, err := parseUUIDParam(c, "activity_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res := ctl.DB.
		Where("project_activity_id = ? AND project_activity_project_id = ?", activityID, proj.ReportProjectID).
		Delete(&model.ReportProjectActivityModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Kegiatan tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Kegiatan dihapus", fiber.Map{"project_activity_id": activityID})
}
