package service

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"laporanku_backend/internals/features/school/reports/dto"
	"laporanku_backend/internals/features/school/reports/model"
	"laporanku_backend/internals/features/school/reports/schema"
)

// snapshotRows: potret JSON semua baris satu submission, urut deterministik.
// Dipakai untuk membuktikan isolasi scope byte-for-byte.
func snapshotRows(t *testing.T, db *gorm.DB, subID uuid.UUID) map[string]string {
	t.Helper()
	out := map[string]string{}

	var profs []model.ProficiencyRowModel
	if err := db.Where("proficiency_row_submission_id = ?", subID).
		Order("proficiency_row_grade ASC, proficiency_row_subject_code ASC").
		Find(&profs).Error; err != nil {
		t.Fatal(err)
	}
	for _, r := range profs {
		b, err := json.Marshal(r)
		if err != nil {
			t.Fatal(err)
		}
		out["prof:"+ProficiencyRowKeyLabel(r.ProficiencyRowGrade, r.ProficiencyRowSubjectCode)] = string(b)
	}

	var reads []model.ReadingRowModel
	if err := db.Where("reading_row_submission_id = ?", subID).
		Order("reading_row_grade ASC").
		Find(&reads).Error; err != nil {
		t.Fatal(err)
	}
	for _, r := range reads {
		b, err := json.Marshal(r)
		if err != nil {
			t.Fatal(err)
		}
		out["read:"+ReadingRowKeyLabel(r.ReadingRowGrade)] = string(b)
	}

	var issues []model.PriorityIssueRowModel
	if err := db.Where("priority_issue_submission_id = ?", subID).
		Order("priority_issue_position ASC").
		Find(&issues).Error; err != nil {
		t.Fatal(err)
	}
	for _, r := range issues {
		b, err := json.Marshal(r)
		if err != nil {
			t.Fatal(err)
		}
		out["issue:"+strconv.Itoa(r.PriorityIssuePosition)] = string(b)
	}
	return out
}

func wantFiberCode(t *testing.T, err error, code int) {
	t.Helper()
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		t.Fatalf("mau *fiber.Error %d, dapat %T: %v", code, err, err)
	}
	if fe.Code != code {
		t.Fatalf("mau kode %d, dapat %d (%s)", code, fe.Code, fe.Message)
	}
}

func TestSaveProficiencyRowExplicitKey(t *testing.T) {
	db := newTestDB(t)
	sub := newTestSubmission(t, db)
	materialize(t, db, sub, schema.OwnerConfig{GradeMin: 1, GradeMax: 2})
	actor := uuid.New()

	req := &dto.SaveProficiencyRowRequest{
		Grade:           intp(2),
		SubjectCode:     strp("MTK"),
		EnrolledTotal:   intp(30),
		CountBeginning:  intp(3),
		CountDeveloping: intp(7),
		CountProficient: intp(20),
		Intervention:    strp("les tambahan sore"),
		Analysis: &dto.AnalysisPayload{
			Text:       strp("mayoritas sudah mahir"),
			ActionPlan: strp("fokus ke 10 siswa tertinggal"),
		},
	}
	row, analysis, err := SaveProficiencyRow(db, sub, req, actor)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if row.ProficiencyRowEnrolledTotal != 30 || row.CountSum() != 30 {
		t.Errorf("nilai baris tidak tersimpan: total=%d sum=%d", row.ProficiencyRowEnrolledTotal, row.CountSum())
	}
	if row.ProficiencyRowIntervention != "les tambahan sore" {
		t.Errorf("intervention = %q", row.ProficiencyRowIntervention)
	}
	if analysis == nil || analysis.ProficiencyAnalysisText != "mayoritas sudah mahir" {
		t.Errorf("analisis tidak ter-upsert: %+v", analysis)
	}

	var fresh model.ReportSubmissionModel
	if err := db.First(&fresh, "report_submission_id = ?", sub.ReportSubmissionID).Error; err != nil {
		t.Fatal(err)
	}
	if fresh.ReportSubmissionLastEditedBy == nil || *fresh.ReportSubmissionLastEditedBy != actor {
		t.Error("last_edited_by tidak ter-set")
	}
	if fresh.ReportSubmissionLastEditedAt == nil {
		t.Error("last_edited_at tidak ter-set")
	}
	if fresh.ReportSubmissionStatus != model.ReportStatusDraft {
		t.Error("partial save tidak boleh mengubah status")
	}
}

func TestSaveProficiencyRowAnalysisUpdateExisting(t *testing.T) {
	db := newTestDB(t)
	sub := newTestSubmission(t, db)
	materialize(t, db, sub, schema.OwnerConfig{GradeMin: 1, GradeMax: 1})
	actor := uuid.New()

	first := &dto.SaveProficiencyRowRequest{
		Grade: intp(1), SubjectCode: strp("MTK"), Autosave: true,
		Analysis: &dto.AnalysisPayload{Text: strp("draft awal")},
	}
	if _, _, err := SaveProficiencyRow(db, sub, first, actor); err != nil {
		t.Fatal(err)
	}

	// update kedua hanya kirim action_plan; text lama harus bertahan
	second := &dto.SaveProficiencyRowRequest{
		Grade: intp(1), SubjectCode: strp("MTK"), Autosave: true,
		Analysis: &dto.AnalysisPayload{ActionPlan: strp("susun modul remedial")},
	}
	_, an, err := SaveProficiencyRow(db, sub, second, actor)
	if err != nil {
		t.Fatal(err)
	}
	if an.ProficiencyAnalysisText != "draft awal" {
		t.Errorf("text hilang saat update parsial: %q", an.ProficiencyAnalysisText)
	}
	if an.ProficiencyAnalysisActionPlan != "susun modul remedial" {
		t.Errorf("action_plan = %q", an.ProficiencyAnalysisActionPlan)
	}
	if n := countRows(t, db, &model.ProficiencyAnalysisModel{}, "proficiency_analysis_row_id IS NOT NULL"); n != 1 {
		t.Errorf("analisis terduplikasi: %d baris", n)
	}
}

func TestSaveProficiencyRowScopeIsolation(t *testing.T) {
	db := newTestDB(t)
	sub := newTestSubmission(t, db)
	materialize(t, db, sub, schema.OwnerConfig{GradeMin: 1, GradeMax: 2})
	actor := uuid.New()

	before := snapshotRows(t, db, sub.ReportSubmissionID)

	targetKey := "prof:" + ProficiencyRowKeyLabel(1, "BIND")
	req := &dto.SaveProficiencyRowRequest{
		Grade: intp(1), SubjectCode: strp("BIND"), Autosave: true,
		EnrolledTotal: intp(28), CountAdvanced: intp(5),
	}
	if _, _, err := SaveProficiencyRow(db, sub, req, actor); err != nil {
		t.Fatal(err)
	}

	after := snapshotRows(t, db, sub.ReportSubmissionID)
	if before[targetKey] == after[targetKey] {
		t.Error("baris target seharusnya berubah")
	}
	for key := range before {
		if key == targetKey {
			continue
		}
		if before[key] != after[key] {
			t.Errorf("baris %s ikut berubah padahal bukan target", key)
		}
	}
}

func TestSaveProficiencyRowTargetNotFound(t *testing.T) {
	db := newTestDB(t)
	sub := newTestSubmission(t, db)
	materialize(t, db, sub, schema.OwnerConfig{GradeMin: 1, GradeMax: 2})

	before := snapshotRows(t, db, sub.ReportSubmissionID)

	// kunci valid secara bentuk tapi di luar koleksi → fail closed, bukan create
	req := &dto.SaveProficiencyRowRequest{
		Grade: intp(9), SubjectCode: strp("MTK"), EnrolledTotal: intp(10), Autosave: true,
	}
	_, _, err := SaveProficiencyRow(db, sub, req, uuid.New())
	wantFiberCode(t, err, fiber.StatusNotFound)

	after := snapshotRows(t, db, sub.ReportSubmissionID)
	if len(after) != len(before) {
		t.Fatal("target tidak ketemu tidak boleh membuat baris baru")
	}
	for key := range before {
		if before[key] != after[key] {
			t.Errorf("baris %s berubah padahal save gagal", key)
		}
	}
}

func TestSaveProficiencyRowKeyRequired(t *testing.T) {
	db := newTestDB(t)
	sub := newTestSubmission(t, db)
	materialize(t, db, sub, schema.OwnerConfig{GradeMin: 1, GradeMax: 1})

	// tanpa kunci eksplisit dan tanpa posisi fallback
	req := &dto.SaveProficiencyRowRequest{EnrolledTotal: intp(10), Autosave: true}
	_, _, err := SaveProficiencyRow(db, sub, req, uuid.New())
	wantFiberCode(t, err, fiber.StatusBadRequest)
}

func TestSaveProficiencyRowPositionFallback(t *testing.T) {
	db := newTestDB(t)
	sub := newTestSubmission(t, db)
	materialize(t, db, sub, schema.OwnerConfig{GradeMin: 1, GradeMax: 1})

	// urutan fallback: kelas naik lalu kode mapel naik → posisi 1 = BIND, 2 = MTK
	req := &dto.SaveProficiencyRowRequest{
		Position: intp(2), Autosave: true, EnrolledTotal: intp(19),
	}
	row, _, err := SaveProficiencyRow(db, sub, req, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if row.ProficiencyRowSubjectCode != "MTK" {
		t.Fatalf("posisi 2 resolve ke %s, mau MTK", row.ProficiencyRowSubjectCode)
	}
	if row.ProficiencyRowEnrolledTotal != 19 {
		t.Fatal("nilai tidak tersimpan lewat jalur fallback")
	}

	outOfRange := &dto.SaveProficiencyRowRequest{Position: intp(99), Autosave: true}
	_, _, err = SaveProficiencyRow(db, sub, outOfRange, uuid.New())
	wantFiberCode(t, err, fiber.StatusNotFound)
}

func TestSaveProficiencyRowValidationProfiles(t *testing.T) {
	tests := []struct {
		name     string
		autosave bool
		wantErr  bool
	}{
		{"autosave melewati invariant agregat", true, false},
		{"explicit save menolak jumlah tidak konsisten", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			sub := newTestSubmission(t, db)
			materialize(t, db, sub, schema.OwnerConfig{GradeMin: 1, GradeMax: 1})

			req := &dto.SaveProficiencyRowRequest{
				Grade: intp(1), SubjectCode: strp("MTK"), Autosave: tt.autosave,
				EnrolledTotal: intp(30), CountProficient: intp(12), // 12 != 30
			}
			row, _, err := SaveProficiencyRow(db, sub, req, uuid.New())

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("autosave harus menyimpan state belum konsisten: %v", err)
				}
				if row.ProficiencyRowEnrolledTotal != 30 || row.CountSum() != 12 {
					t.Fatal("state in-progress tidak tersimpan")
				}
				return
			}

			var verrs RowValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("mau RowValidationErrors, dapat %T: %v", err, err)
			}
			if len(verrs) != 1 {
				t.Fatalf("jumlah pelanggaran = %d, mau 1", len(verrs))
			}
			v := verrs[0]
			if v.Key != ProficiencyRowKeyLabel(1, "MTK") || v.Sum != 12 || v.Total != 30 {
				t.Errorf("pelanggaran tidak menyebut kunci+angka: %+v", v)
			}

			// gagal validasi → tidak ada tulis sama sekali
			var fresh model.ProficiencyRowModel
			if err := db.First(&fresh,
				"proficiency_row_submission_id = ? AND proficiency_row_grade = ? AND proficiency_row_subject_code = ?",
				sub.ReportSubmissionID, 1, "MTK").Error; err != nil {
				t.Fatal(err)
			}
			if fresh.ProficiencyRowEnrolledTotal != 0 || fresh.CountSum() != 0 {
				t.Error("baris berubah padahal validasi gagal")
			}
		})
	}
}

func TestSaveProficiencyRowRejectsNonEditable(t *testing.T) {
	db := newTestDB(t)
	sub := newTestSubmission(t, db)
	materialize(t, db, sub, schema.OwnerConfig{GradeMin: 1, GradeMax: 1})

	for _, status := range []model.ReportStatus{model.ReportStatusSubmitted, model.ReportStatusNoted} {
		sub.ReportSubmissionStatus = status
		req := &dto.SaveProficiencyRowRequest{Grade: intp(1), SubjectCode: strp("MTK"), Autosave: true}
		_, _, err := SaveProficiencyRow(db, sub, req, uuid.New())
		wantFiberCode(t, err, fiber.StatusConflict)
	}

	// returned masih editable
	sub.ReportSubmissionStatus = model.ReportStatusReturned
	req := &dto.SaveProficiencyRowRequest{Grade: intp(1), SubjectCode: strp("MTK"), Autosave: true, EnrolledTotal: intp(5)}
	if _, _, err := SaveProficiencyRow(db, sub, req, uuid.New()); err != nil {
		t.Fatalf("status returned harus tetap bisa diedit: %v", err)
	}
}

func TestSaveAllProficiencyRowsCollectsEveryViolation(t *testing.T) {
	db := newTestDB(t)
	sub := newTestSubmission(t, db)
	materialize(t, db, sub, schema.OwnerConfig{GradeMin: 1, GradeMax: 1})

	req := &dto.SaveAllProficiencyRowsRequest{
		Rows: []dto.SaveProficiencyRowRequest{
			{Grade: intp(1), SubjectCode: strp("MTK"), EnrolledTotal: intp(30), CountProficient: intp(10)},
			{Grade: intp(1), SubjectCode: strp("BIND"), EnrolledTotal: intp(25), CountAdvanced: intp(40)},
		},
	}
	err := SaveAllProficiencyRows(db, sub, req, uuid.New())

	var verrs RowValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("mau RowValidationErrors, dapat %T: %v", err, err)
	}
	if len(verrs) != 2 {
		t.Fatalf("jumlah pelanggaran = %d, mau 2 (semua dikumpulkan)", len(verrs))
	}
	if !strings.Contains(err.Error(), "MTK") || !strings.Contains(err.Error(), "BIND") {
		t.Errorf("pesan harus menyebut kedua baris: %s", err.Error())
	}

	// satu pun tidak boleh tertulis
	if n := countRows(t, db, &model.ProficiencyRowModel{},
		"proficiency_row_submission_id = ? AND proficiency_row_enrolled_total > 0", sub.ReportSubmissionID); n != 0 {
		t.Error("sebagian baris tertulis padahal batch gagal validasi")
	}
}

func TestSaveAllProficiencyRowsHappyPath(t *testing.T) {
	db := newTestDB(t)
	sub := newTestSubmission(t, db)
	materialize(t, db, sub, schema.OwnerConfig{GradeMin: 1, GradeMax: 1})

	req := &dto.SaveAllProficiencyRowsRequest{
		Rows: []dto.SaveProficiencyRowRequest{
			{Grade: intp(1), SubjectCode: strp("MTK"), EnrolledTotal: intp(10), CountProficient: intp(10)},
			{Grade: intp(1), SubjectCode: strp("BIND"), EnrolledTotal: intp(10), CountDeveloping: intp(4), CountAdvanced: intp(6)},
		},
	}
	if err := SaveAllProficiencyRows(db, sub, req, uuid.New()); err != nil {
		t.Fatalf("batch valid harus sukses: %v", err)
	}
	if n := countRows(t, db, &model.ProficiencyRowModel{},
		"proficiency_row_submission_id = ? AND proficiency_row_enrolled_total = 10", sub.ReportSubmissionID); n != 2 {
		t.Fatalf("baris tersimpan = %d, mau 2", n)
	}
}

func TestSaveAllProficiencyRowsRequiresExplicitKeys(t *testing.T) {
	db := newTestDB(t)
	sub := newTestSubmission(t, db)
	materialize(t, db, sub, schema.OwnerConfig{GradeMin: 1, GradeMax: 1})

	req := &dto.SaveAllProficiencyRowsRequest{
		Rows: []dto.SaveProficiencyRowRequest{{Position: intp(1), EnrolledTotal: intp(5)}},
	}
	err := SaveAllProficiencyRows(db, sub, req, uuid.New())
	wantFiberCode(t, err, fiber.StatusBadRequest)
}

func TestSaveReadingRow(t *testing.T) {
	db := newTestDB(t)
	sub := newTestSubmission(t, db)
	materialize(t, db, sub, schema.OwnerConfig{GradeMin: 1, GradeMax: 3})
	actor := uuid.New()

	req := &dto.SaveReadingRowRequest{
		Grade:              intp(2),
		AssessedTotal:      intp(24),
		CountIndependent:   intp(10),
		CountInstructional: intp(8),
		CountFrustration:   intp(4),
		CountNonReader:     intp(2),
		Intervention:       strp("program membaca pagi"),
	}
	row, err := SaveReadingRow(db, sub, req, actor)
	if err != nil {
		t.Fatal(err)
	}
	if row.ReadingRowAssessedTotal != 24 || row.CountSum() != 24 {
		t.Errorf("nilai literasi tidak tersimpan: total=%d sum=%d", row.ReadingRowAssessedTotal, row.CountSum())
	}

	// explicit save dengan jumlah band tidak konsisten → ditolak
	bad := &dto.SaveReadingRowRequest{
		Grade: intp(3), AssessedTotal: intp(20), CountIndependent: intp(3),
	}
	_, err = SaveReadingRow(db, sub, bad, actor)
	var verrs RowValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("mau RowValidationErrors, dapat %T: %v", err, err)
	}
	if verrs[0].Key != ReadingRowKeyLabel(3) {
		t.Errorf("key = %q", verrs[0].Key)
	}

	// kelas di luar rentang → 404
	missing := &dto.SaveReadingRowRequest{Grade: intp(8), Autosave: true}
	_, err = SaveReadingRow(db, sub, missing, actor)
	wantFiberCode(t, err, fiber.StatusNotFound)
}

func TestSaveIssueRow(t *testing.T) {
	db := newTestDB(t)
	sub := newTestSubmission(t, db)
	materialize(t, db, sub, schema.OwnerConfig{GradeMin: 1, GradeMax: 1})
	actor := uuid.New()

	req := &dto.SaveIssueRowRequest{
		Position:       intp(3),
		Description:    strp("angka putus sekolah naik"),
		RootCause:      strp("ekonomi keluarga"),
		Recommendation: strp("beasiswa internal"),
	}
	row, err := SaveIssueRow(db, sub, req, actor)
	if err != nil {
		t.Fatal(err)
	}
	if row.PriorityIssuePosition != 3 || row.PriorityIssueDescription != "angka putus sekolah naik" {
		t.Errorf("slot tidak tersimpan: %+v", row)
	}

	// slot lain tidak tersentuh
	if n := countRows(t, db, &model.PriorityIssueRowModel{},
		"priority_issue_submission_id = ? AND priority_issue_description = ''", sub.ReportSubmissionID); n != 4 {
		t.Errorf("slot kosong tersisa = %d, mau 4", n)
	}

	// slot yang tidak ada → 404, bukan create
	if err := db.
		Where("priority_issue_submission_id = ? AND priority_issue_position = ?", sub.ReportSubmissionID, 5).
		Delete(&model.PriorityIssueRowModel{}).Error; err != nil {
		t.Fatal(err)
	}
	_, err = SaveIssueRow(db, sub, &dto.SaveIssueRowRequest{Position: intp(5), Description: strp("x")}, actor)
	wantFiberCode(t, err, fiber.StatusNotFound)

	// posisi tidak disertakan → 400, bukan panic
	_, err = SaveIssueRow(db, sub, &dto.SaveIssueRowRequest{Description: strp("x")}, actor)
	wantFiberCode(t, err, fiber.StatusBadRequest)
}
