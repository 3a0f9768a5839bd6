// file: internals/features/school/reports/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reportCtl "laporanku_backend/internals/features/school/reports/controller"
	service "laporanku_backend/internals/features/school/reports/service"
)

/*
Rute REVIEWER/ADMIN. Mount di bawah group AuthJWT +
RequireRoles("reviewer", "admin"), contoh: ReportAdminRoutes(app.Group("/api/a"), db, w)
*/
func ReportAdminRoutes(r fiber.Router, db *gorm.DB, w *service.Workflow) {
	subCtl := reportCtl.NewReportSubmissionController(db, w)
	wfCtl := reportCtl.NewReportWorkflowController(db, w)
	refCtl := reportCtl.NewReportReferenceAdminController(db)

	subs := r.Group("/report-submissions")
	subs.Get("/", subCtl.List) // listing lintas sekolah + filter
	subs.Get("/:id", subCtl.GetDetailForReview)
	subs.Get("/:id/status-logs", subCtl.GetStatusLogsForReview)

	// aksi reviewer
	subs.Post("/:id/return", wfCtl.Return)
	subs.Post("/:id/note", wfCtl.Note)
	subs.Post("/:id/reset-draft", wfCtl.ResetToDraft)

	// referensi: template laporan
	tpl := r.Group("/report-templates")
	tpl.Post("/", refCtl.CreateTemplate)
	tpl.Get("/", refCtl.ListTemplates)
	tpl.Patch("/:id", refCtl.PatchTemplate)
	tpl.Delete("/:id", refCtl.DeleteTemplate)

	// referensi: periode pelaporan
	per := r.Group("/report-periods")
	per.Post("/", refCtl.CreatePeriod)
	per.Get("/", refCtl.ListPeriods)
	per.Patch("/:id", refCtl.PatchPeriod)
	per.Delete("/:id", refCtl.DeletePeriod)
}
