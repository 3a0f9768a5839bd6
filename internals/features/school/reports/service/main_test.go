package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	profileModel "laporanku_backend/internals/features/school/profile/model"
	model "laporanku_backend/internals/features/school/reports/model"
	"laporanku_backend/internals/features/school/reports/schema"
)

// newTestDB membuka sqlite in-memory + migrate semua model laporan.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&profileModel.SchoolProfileModel{},
		&model.ReportTemplateModel{},
		&model.ReportPeriodModel{},
		&model.ReportSubmissionModel{},
		&model.ProficiencyRowModel{},
		&model.ProficiencyAnalysisModel{},
		&model.ReadingRowModel{},
		&model.PriorityIssueRowModel{},
		&model.ReportProjectModel{},
		&model.ReportProjectActivityModel{},
		&model.ReportStatusLogModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newTestSubmission membuat satu draft submission langsung di DB.
func newTestSubmission(t *testing.T, db *gorm.DB) *model.ReportSubmissionModel {
	t.Helper()
	sub := &model.ReportSubmissionModel{
		ReportSubmissionSchoolID:   uuid.New(),
		ReportSubmissionTemplateID: uuid.New(),
		ReportSubmissionPeriodID:   uuid.New(),
		ReportSubmissionStatus:     model.ReportStatusDraft,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("create submission: %v", err)
	}
	return sub
}

// materialize menjalankan materializer dan gagal-cepat kalau error.
func materialize(t *testing.T, db *gorm.DB, sub *model.ReportSubmissionModel, cfg schema.OwnerConfig) MaterializeResult {
	t.Helper()
	res, err := MaterializeRows(db, sub, cfg)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	return res
}

func countRows(t *testing.T, db *gorm.DB, m any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(m).Where(where, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func intp(v int) *int { return &v }

func strp(v string) *string { return &v }

func boolp(v bool) *bool { return &v }
