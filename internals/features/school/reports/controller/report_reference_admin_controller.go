// file: internals/features/school/reports/controller/report_reference_admin_controller.go
package controller

import (
	"errors"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	model "laporanku_backend/internals/features/school/reports/model"
	helper "laporanku_backend/internals/helpers"
)

// Controller referensi admin: template laporan dan periode pelaporan.
type ReportReferenceAdminController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewReportReferenceAdminController(db *gorm.DB) *ReportReferenceAdminController {
	return &ReportReferenceAdminController{
		DB:        db,
		Validator: validator.New(),
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "sqlstate 23505") ||
		strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint")
}

/* ==============================
   Templates
============================== */

type createTemplateRequest struct {
	Code   string `json:"code" validate:"required,max=32"`
	Name   string `json:"name" validate:"required,max=160"`
	Active *bool  `json:"active,omitempty"`
}

// CreateTemplate: POST /api/a/report-templates
func (ctl *ReportReferenceAdminController) CreateTemplate(c *fiber.Ctx) error {
	var req createTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	tpl := model.ReportTemplateModel{
		ReportTemplateCode:   strings.ToUpper(strings.TrimSpace(req.Code)),
		ReportTemplateName:   strings.TrimSpace(req.Name),
		ReportTemplateActive: true,
	}
	if req.Active != nil {
		tpl.ReportTemplateActive = *req.Active
	}
	if err := ctl.DB.Create(&tpl).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Kode template sudah dipakai")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Template dibuat", tpl)
}

// ListTemplates: GET /api/a/report-templates (sekolah juga boleh baca
// lewat rute user untuk memilih template aktif).
func (ctl *ReportReferenceAdminController) ListTemplates(c *fiber.Ctx) error {
	q := ctl.DB.Model(&model.ReportTemplateModel{})
	if strings.EqualFold(strings.TrimSpace(c.Query("active")), "true") {
		q = q.Where("report_template_active = ?", true)
	}
	var list []model.ReportTemplateModel
	if err := q.Order("report_template_code ASC").Find(&list).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", list)
}

type patchTemplateRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,max=160"`
	Active *bool   `json:"active,omitempty"`
}

// PatchTemplate: PATCH /api/a/report-templates/:id
func (ctl *ReportReferenceAdminController) PatchTemplate(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var tpl model.ReportTemplateModel
	if err := ctl.DB.First(&tpl, "report_template_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Template tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var req patchTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	upd := map[string]any{}
	if req.Name != nil {
		upd["report_template_name"] = strings.TrimSpace(*req.Name)
	}
	if req.Active != nil {
		upd["report_template_active"] = *req.Active
	}
	if len(upd) == 0 {
		return helper.JsonOK(c, "Tidak ada perubahan", tpl)
	}
	if err := ctl.DB.Model(&tpl).Updates(upd).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Template diperbarui", tpl)
}

// DeleteTemplate: DELETE /api/a/report-templates/:id (soft delete)
func (ctl *ReportReferenceAdminController) DeleteTemplate(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res := ctl.DB.Delete(&model.ReportTemplateModel{}, "report_template_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Template tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Template dihapus", fiber.Map{"report_template_id": id})
}

/* ==============================
   Periods
============================== */

type createPeriodRequest struct {
	AcademicYear string  `json:"academic_year" validate:"required,max=9"`
	Quarter      int     `json:"quarter" validate:"required,min=1,max=4"`
	Label        *string `json:"label,omitempty" validate:"omitempty,max=64"`
	Open         *bool   `json:"open,omitempty"`
}

// CreatePeriod: POST /api/a/report-periods
func (ctl *ReportReferenceAdminController) CreatePeriod(c *fiber.Ctx) error {
	var req createPeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	period := model.ReportPeriodModel{
		ReportPeriodAcademicYear: strings.TrimSpace(req.AcademicYear),
		ReportPeriodQuarter:      req.Quarter,
		ReportPeriodOpen:         true,
	}
	if req.Label != nil {
		period.ReportPeriodLabel = strings.TrimSpace(*req.Label)
	}
	if req.Open != nil {
		period.ReportPeriodOpen = *req.Open
	}
	if err := ctl.DB.Create(&period).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Periode untuk tahun ajaran + triwulan itu sudah ada")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Periode dibuat", period)
}

// ListPeriods: GET /api/a/report-periods
func (ctl *ReportReferenceAdminController) ListPeriods(c *fiber.Ctx) error {
	q := ctl.DB.Model(&model.ReportPeriodModel{})
	if strings.EqualFold(strings.TrimSpace(c.Query("open")), "true") {
		q = q.Where("report_period_open = ?", true)
	}
	var list []model.ReportPeriodModel
	if err := q.
		Order("report_period_academic_year DESC, report_period_quarter DESC").
		Find(&list).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", list)
}

type patchPeriodRequest struct {
	Label *string `json:"label,omitempty" validate:"omitempty,max=64"`
	Open  *bool   `json:"open,omitempty"`
}

// PatchPeriod: PATCH /api/a/report-periods/:id (buka/tutup periode)
func (ctl *ReportReferenceAdminController) PatchPeriod(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var period model.ReportPeriodModel
	if err := ctl.DB.First(&period, "report_period_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Periode tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var req patchPeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	upd := map[string]any{}
	if req.Label != nil {
		upd["report_period_label"] = strings.TrimSpace(*req.Label)
	}
	if req.Open != nil {
		upd["report_period_open"] = *req.Open
	}
	if len(upd) == 0 {
		return helper.JsonOK(c, "Tidak ada perubahan", period)
	}
	if err := ctl.DB.Model(&period).Updates(upd).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Periode diperbarui", period)
}

// DeletePeriod: DELETE /api/a/report-periods/:id (soft delete)
func (ctl *ReportReferenceAdminController) DeletePeriod(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res := ctl.DB.Delete(&model.ReportPeriodModel{}, "report_period_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Periode tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Periode dihapus", fiber.Map{"report_period_id": id})
}
