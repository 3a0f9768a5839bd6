// file: internals/features/school/profile/route/profile_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	profileCtl "laporanku_backend/internals/features/school/profile/controller"
)

// Rute sekolah: kelola profil sendiri (school_id dari token).
func ProfileUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := profileCtl.NewSchoolProfileController(db)

	prof := r.Group("/school-profile")
	prof.Get("/", ctl.GetMine)
	prof.Put("/", ctl.UpsertMine)
}

// Rute admin: kelola profil atas nama sekolah mana pun.
func ProfileAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := profileCtl.NewSchoolProfileController(db)

	prof := r.Group("/school-profiles")
	prof.Get("/:school_id", ctl.GetForSchool)
	prof.Put("/:school_id", ctl.UpsertForSchool)
}
