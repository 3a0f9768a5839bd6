// file: internals/features/school/reports/controller/report_submission_controller.go
package controller

import (
	"errors"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	profileService "laporanku_backend/internals/features/school/profile/service"
	dto "laporanku_backend/internals/features/school/reports/dto"
	model "laporanku_backend/internals/features/school/reports/model"
	service "laporanku_backend/internals/features/school/reports/service"
	helper "laporanku_backend/internals/helpers"
	helperAuth "laporanku_backend/internals/helpers/auth"
)

/* ==============================
   Controller
============================== */

type ReportSubmissionController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Workflow  *service.Workflow
}

func NewReportSubmissionController(db *gorm.DB, w *service.Workflow) *ReportSubmissionController {
	return &ReportSubmissionController{
		DB:        db,
		Validator: validator.New(),
		Workflow:  w,
	}
}

/* ==============================
   Small helpers
============================== */

// writeServiceError memetakan error service ke envelope JSON:
// error validasi per-baris / readiness → 422 dengan map errors,
// *fiber.Error → status aslinya, sisanya → 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	var verrs service.RowValidationErrors
	if errors.As(err, &verrs) {
		return helper.JsonValidationError(c, "Ada baris yang belum konsisten", verrs.FieldErrors())
	}
	var rerr *service.ReadinessError
	if errors.As(err, &rerr) {
		return helper.JsonValidationError(c, "Laporan belum siap dikirim", rerr.FieldErrors())
	}
	return helper.FromFiberError(c, err)
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "ID pada path tidak valid")
	}
	return id, nil
}

// loadOwnedSubmission: ambil submission :id dan pastikan miliknya sekolah
// pada token. Lintas sekolah → 404 (bukan 403) supaya ID tidak bocor.
func loadOwnedSubmission(c *fiber.Ctx, db *gorm.DB) (*model.ReportSubmissionModel, error) {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return nil, err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	var sub model.ReportSubmissionModel
	err = db.
		Where("report_submission_id = ? AND report_submission_school_id = ?", id, schoolID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Laporan tidak ditemukan")
		}
		return nil, err
	}
	return &sub, nil
}

// loadSubmissionForReview: reviewer/admin boleh akses lintas sekolah.
func loadSubmissionForReview(c *fiber.Ctx, db *gorm.DB) (*model.ReportSubmissionModel, error) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var sub model.ReportSubmissionModel
	if err := db.First(&sub, "report_submission_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Laporan tidak ditemukan")
		}
		return nil, err
	}
	return &sub, nil
}

/* ==============================
   Handlers — sekolah
============================== */

// CreateOrOpen: POST /api/u/report-submissions
// Buka draft untuk (sekolah token × template × periode); kalau sudah ada,
// kembalikan yang lama. Baris selalu direkonsiliasi sebelum dikembalikan
// supaya perubahan profil sekolah langsung kelihatan.
func (ctl *ReportSubmissionController) CreateOrOpen(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.CreateOrOpenReportRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	sub, created, err := ctl.Workflow.OpenDraft(ctl.DB, schoolID, req.ReportTemplateID, req.ReportPeriodID, actorID)
	if err != nil {
		return writeServiceError(c, err)
	}

	cfg, err := profileService.ResolveOwnerConfig(ctl.DB, schoolID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if sub.Editable() {
		if _, err := service.MaterializeRows(ctl.DB, sub, cfg); err != nil {
			return writeServiceError(c, err)
		}
	}

	progress, err := service.ComputeProgress(ctl.DB, sub)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	payload := fiber.Map{
		"submission": dto.FromSubmissionModel(sub),
		"progress":   progress,
	}
	if created {
		return helper.JsonCreated(c, "Draft laporan dibuat", payload)
	}
	return helper.JsonOK(c, "Laporan dibuka", payload)
}

// GetDetail: GET /api/u/report-submissions/:id
// Detail laporan + seluruh baris + progres. Selama masih bisa diedit,
// baris direkonsiliasi dulu supaya profil sekolah terbaru ikut terbaca.
func (ctl *ReportSubmissionController) GetDetail(c *fiber.Ctx) error {
	sub, err := loadOwnedSubmission(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if sub.Editable() {
		cfg, err := profileService.ResolveOwnerConfig(ctl.DB, sub.ReportSubmissionSchoolID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		if _, err := service.MaterializeRows(ctl.DB, sub, cfg); err != nil {
			return writeServiceError(c, err)
		}
	}
	return ctl.writeDetail(c, sub)
}

// GetDetailForReview: GET /api/a/report-submissions/:id
func (ctl *ReportSubmissionController) GetDetailForReview(c *fiber.Ctx) error {
	sub, err := loadSubmissionForReview(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ctl.writeDetail(c, sub)
}

func (ctl *ReportSubmissionController) writeDetail(c *fiber.Ctx, sub *model.ReportSubmissionModel) error {
	var profRows []model.ProficiencyRowModel
	if err := ctl.DB.
		Where("proficiency_row_submission_id = ?", sub.ReportSubmissionID).
		Order("proficiency_row_grade ASC, proficiency_row_subject_code ASC").
		Preload("Analysis").
		Find(&profRows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var readRows []model.ReadingRowModel
	if err := ctl.DB.
		Where("reading_row_submission_id = ?", sub.ReportSubmissionID).
		Order("reading_row_grade ASC").
		Find(&readRows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var issues []model.PriorityIssueRowModel
	if err := ctl.DB.
		Where("priority_issue_submission_id = ?", sub.ReportSubmissionID).
		Order("priority_issue_position ASC").
		Find(&issues).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var projects []model.ReportProjectModel
	if err := ctl.DB.
		Where("report_project_submission_id = ?", sub.ReportSubmissionID).
		Order("report_project_created_at ASC").
		Preload("Activities").
		Find(&projects).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	progress, err := service.ComputeProgress(ctl.DB, sub)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "ok", fiber.Map{
		"submission":       dto.FromSubmissionModel(sub),
		"proficiency_rows": profRows,
		"reading_rows":     readRows,
		"priority_issues":  issues,
		"projects":         projects,
		"progress":         progress,
	})
}

// GetStatusLogs: GET /api/u/report-submissions/:id/status-logs
// Timeline audit, terbaru dulu.
func (ctl *ReportSubmissionController) GetStatusLogs(c *fiber.Ctx) error {
	sub, err := loadOwnedSubmission(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ctl.writeStatusLogs(c, sub)
}

// GetStatusLogsForReview: GET /api/a/report-submissions/:id/status-logs
func (ctl *ReportSubmissionController) GetStatusLogsForReview(c *fiber.Ctx) error {
	sub, err := loadSubmissionForReview(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ctl.writeStatusLogs(c, sub)
}

func (ctl *ReportSubmissionController) writeStatusLogs(c *fiber.Ctx, sub *model.ReportSubmissionModel) error {
	var logs []model.ReportStatusLogModel
	if err := ctl.DB.
		Where("report_status_log_submission_id = ?", sub.ReportSubmissionID).
		Order("report_status_log_created_at DESC, report_status_log_id DESC").
		Find(&logs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", dto.FromStatusLogModels(logs))
}

// PatchExtras: PATCH /api/u/report-submissions/:id/extras
// Merge field lepas (catatan kepala sekolah dsb) ke extras bag.
func (ctl *ReportSubmissionController) PatchExtras(c *fiber.Ctx) error {
	sub, err := loadOwnedSubmission(c, ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !sub.Editable() {
		return helper.JsonError(c, fiber.StatusConflict, "Laporan berstatus "+string(sub.ReportSubmissionStatus)+" tidak bisa diedit")
	}

	var req dto.PatchExtrasRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if sub.ReportSubmissionExtras == nil {
		sub.ReportSubmissionExtras = map[string]any{}
	}
	for k, v := range req.Extras {
		if v == nil {
			delete(sub.ReportSubmissionExtras, k)
			continue
		}
		sub.ReportSubmissionExtras[k] = v
	}
	if err := ctl.DB.Model(sub).
		Update("report_submission_extras", sub.ReportSubmissionExtras).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Extras diperbarui", dto.FromSubmissionModel(sub))
}

// GetMine: GET /api/u/report-submissions
// Daftar laporan milik sekolah token.
func (ctl *ReportSubmissionController) GetMine(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.ReportSubmissionModel{}).
		Where("report_submission_school_id = ?", schoolID)
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		q = q.Where("report_submission_status = ?", s)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var list []model.ReportSubmissionModel
	if err := q.
		Order("report_submission_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&list).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.ReportSubmissionResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.FromSubmissionModel(&list[i]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

/* ==============================
   Handlers — reviewer/admin
============================== */

// List: GET /api/a/report-submissions
// Listing lintas sekolah dengan filter school/template/period/status.
func (ctl *ReportSubmissionController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.ReportSubmissionModel{})
	if s := strings.TrimSpace(c.Query("school_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "school_id tidak valid")
		}
		q = q.Where("report_submission_school_id = ?", id)
	}
	if s := strings.TrimSpace(c.Query("template_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "template_id tidak valid")
		}
		q = q.Where("report_submission_template_id = ?", id)
	}
	if s := strings.TrimSpace(c.Query("period_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "period_id tidak valid")
		}
		q = q.Where("report_submission_period_id = ?", id)
	}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		st := model.ReportStatus(strings.ToLower(s))
		if !st.Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "status tidak dikenal")
		}
		q = q.Where("report_submission_status = ?", st)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var list []model.ReportSubmissionModel
	if err := q.
		Order("report_submission_submitted_at DESC NULLS LAST, report_submission_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&list).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.ReportSubmissionResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.FromSubmissionModel(&list[i]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}
