// file: internals/route/index.go
package route

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	configs "laporanku_backend/internals/configs"
	databases "laporanku_backend/internals/databases"
	notifService "laporanku_backend/internals/features/notifications/service"
	profileRoute "laporanku_backend/internals/features/school/profile/route"
	reportRoute "laporanku_backend/internals/features/school/reports/route"
	reportService "laporanku_backend/internals/features/school/reports/service"
	authMiddleware "laporanku_backend/internals/middlewares/auth_school"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// dispatcher notifikasi: backend email belum ada → tulis ke log apps
	workflow := reportService.NewWorkflow(notifService.NewLogDispatcher())

	// ===================== BASE =====================
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Laporanku backend connected successfully 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := databases.DB.DB()
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    os.Getenv("RAILWAY_ENVIRONMENT"),
		})
	})

	// ===================== USER (SEKOLAH) =====================
	log.Println("[INFO] Setting up SCHOOL group (/api/u)...")
	user := app.Group("/api/u",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
		authMiddleware.RequireRoles("school"),
	)
	profileRoute.ProfileUserRoutes(user, db)
	reportRoute.ReportUserRoutes(user, db, workflow)

	// ===================== REVIEWER / ADMIN =====================
	log.Println("[INFO] Setting up REVIEWER/ADMIN group (/api/a)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret: configs.JWTSecret,
		}),
		authMiddleware.RequireRoles("reviewer", "admin"),
	)
	profileRoute.ProfileAdminRoutes(admin, db)
	reportRoute.ReportAdminRoutes(admin, db, workflow)
}
