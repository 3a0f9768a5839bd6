// file: internals/features/school/reports/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reportCtl "laporanku_backend/internals/features/school/reports/controller"
	service "laporanku_backend/internals/features/school/reports/service"
)

/*
Rute SEKOLAH (role school). Mount di bawah group yang sudah lewat
AuthJWT + RequireRoles("school"), contoh: ReportUserRoutes(app.Group("/api/u"), db, w)
*/
func ReportUserRoutes(r fiber.Router, db *gorm.DB, w *service.Workflow) {
	subCtl := reportCtl.NewReportSubmissionController(db, w)
	rowCtl := reportCtl.NewReportRowController(db)
	wfCtl := reportCtl.NewReportWorkflowController(db, w)
	projCtl := reportCtl.NewReportProjectController(db)
	refCtl := reportCtl.NewReportReferenceAdminController(db)

	subs := r.Group("/report-submissions")
	subs.Post("/", subCtl.CreateOrOpen)             // buka/buat draft
	subs.Get("/", subCtl.GetMine)                   // daftar laporan sekolah
	subs.Get("/:id", subCtl.GetDetail)              // detail + rows + progres
	subs.Get("/:id/status-logs", subCtl.GetStatusLogs)
	subs.Get("/:id/progress", rowCtl.GetProgress)
	subs.Patch("/:id/extras", subCtl.PatchExtras)

	// targeted partial-save per row-group
	subs.Patch("/:id/proficiency-rows", rowCtl.SaveProficiencyRow)
	subs.Put("/:id/proficiency-rows", rowCtl.SaveAllProficiencyRows)
	subs.Patch("/:id/reading-rows", rowCtl.SaveReadingRow)
	subs.Patch("/:id/priority-issues", rowCtl.SaveIssueRow)

	// workflow milik sekolah
	subs.Post("/:id/submit", wfCtl.Submit)

	// proyek perbaikan + kegiatan
	subs.Post("/:id/projects", projCtl.Create)
	subs.Get("/:id/projects", projCtl.List)
	subs.Patch("/:id/projects/:project_id", projCtl.Patch)
	subs.Delete("/:id/projects/:project_id", projCtl.Delete)
	subs.Post("/:id/projects/:project_id/activities", projCtl.AddActivity)
	subs.Delete("/:id/projects/:project_id/activities/:activity_id", projCtl.DeleteActivity)

	// referensi read-only untuk memilih template/periode saat membuka laporan
	r.Get("/report-templates", refCtl.ListTemplates)
	r.Get("/report-periods", refCtl.ListPeriods)
}
