package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	profileModel "laporanku_backend/internals/features/school/profile/model"
	profileService "laporanku_backend/internals/features/school/profile/service"
	"laporanku_backend/internals/features/school/reports/dto"
	"laporanku_backend/internals/features/school/reports/model"
)

// Alur lengkap satu sekolah kecil mengisi laporan dari nol sampai dicatat
// reviewer, persis urutan yang dijalani controller.
func TestReportLifecycleEndToEnd(t *testing.T) {
	db := newTestDB(t)
	disp := &recordingDispatcher{}
	w := NewWorkflow(disp)

	schoolID := uuid.New()
	operator := uuid.New()
	reviewer := uuid.New()

	// profil sekolah: SD kecil kelas 1-3, tanpa peminatan
	prof := profileModel.SchoolProfileModel{
		SchoolProfileSchoolID:     schoolID,
		SchoolProfileName:         "SD Cendana",
		SchoolProfileGradeMin:     1,
		SchoolProfileGradeMax:     3,
		SchoolProfileStrands:      datatypes.JSON([]byte(`[]`)),
		SchoolProfileContactEmail: "kepala@sdcendana.sch.id",
	}
	if err := db.Create(&prof).Error; err != nil {
		t.Fatal(err)
	}

	// buka draft + materialisasi baris
	sub, created, err := w.OpenDraft(db, schoolID, uuid.New(), uuid.New(), operator)
	if err != nil || !created {
		t.Fatalf("open draft: created=%v err=%v", created, err)
	}
	cfg, err := profileService.ResolveOwnerConfig(db, schoolID)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GradeMin != 1 || cfg.GradeMax != 3 {
		t.Fatalf("config dari profil salah: %+v", cfg)
	}
	res := materialize(t, db, sub, cfg)
	if res.ProficiencyCreated != 7 || res.ReadingCreated != 3 || res.IssueCreated != 5 {
		t.Fatalf("materialisasi awal: %+v", res)
	}

	// operator mengetik: autosave state setengah jadi dulu, lalu dirapikan
	half := &dto.SaveProficiencyRowRequest{
		Grade: intp(1), SubjectCode: strp("MTK"), Autosave: true,
		EnrolledTotal: intp(22), CountProficient: intp(9),
	}
	if _, _, err := SaveProficiencyRow(db, sub, half, operator); err != nil {
		t.Fatalf("autosave: %v", err)
	}
	final := &dto.SaveProficiencyRowRequest{
		Grade: intp(1), SubjectCode: strp("MTK"),
		CountBeginning: intp(4), CountDeveloping: intp(9), CountProficient: intp(9),
		Intervention: strp("kelas tambahan berhitung"),
	}
	if _, _, err := SaveProficiencyRow(db, sub, final, operator); err != nil {
		t.Fatalf("explicit save: %v", err)
	}

	// submit pertama ditolak: belum ada proyek
	err = w.Submit(db, sub, operator)
	var rerr *ReadinessError
	if !errors.As(err, &rerr) {
		t.Fatalf("submit tanpa proyek harus *ReadinessError, dapat %T", err)
	}

	// lengkapi proyek + kegiatan, submit ulang sukses
	proj := model.ReportProjectModel{ReportProjectSubmissionID: sub.ReportSubmissionID, ReportProjectTitle: "Gerakan Literasi"}
	if err := db.Create(&proj).Error; err != nil {
		t.Fatal(err)
	}
	act := model.ReportProjectActivityModel{ProjectActivityProjectID: proj.ReportProjectID, ProjectActivityTitle: "Membaca 15 menit"}
	if err := db.Create(&act).Error; err != nil {
		t.Fatal(err)
	}
	if err := w.Submit(db, sub, operator); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// reviewer mengembalikan, operator revisi lalu kirim lagi, reviewer mencatat
	if err := w.Return(db, sub, reviewer, "lengkapi baris literasi"); err != nil {
		t.Fatal(err)
	}
	read := &dto.SaveReadingRowRequest{
		Grade: intp(1), AssessedTotal: intp(22),
		CountIndependent: intp(12), CountInstructional: intp(10),
		Intervention: strp("jadwal baca terbimbing"),
	}
	if _, err := SaveReadingRow(db, sub, read, operator); err != nil {
		t.Fatalf("revisi saat returned: %v", err)
	}
	if err := w.Submit(db, sub, operator); err != nil {
		t.Fatal(err)
	}
	if err := w.Note(db, sub, reviewer, "diterima dengan catatan kecil"); err != nil {
		t.Fatal(err)
	}

	// setelah noted: laporan terkunci
	locked := &dto.SaveIssueRowRequest{Position: intp(1), Description: strp("terlambat")}
	if _, err := SaveIssueRow(db, sub, locked, operator); err == nil {
		t.Fatal("laporan noted masih bisa diedit")
	}

	// jejak audit penuh, urut dan menyambung
	logs := statusLogs(t, db, sub.ReportSubmissionID)
	wantTo := []model.ReportStatus{
		model.ReportStatusDraft, // pembuatan
		model.ReportStatusSubmitted,
		model.ReportStatusReturned,
		model.ReportStatusSubmitted,
		model.ReportStatusNoted,
	}
	if len(logs) != len(wantTo) {
		t.Fatalf("jumlah log = %d, mau %d", len(logs), len(wantTo))
	}
	for i, want := range wantTo {
		if logs[i].ReportStatusLogToStatus != want {
			t.Errorf("log %d: to=%s, mau %s", i, logs[i].ReportStatusLogToStatus, want)
		}
	}

	// notifikasi: submit ×2 + return + note
	if len(disp.sent) != 4 {
		t.Errorf("jumlah notifikasi = %d (%v), mau 4", len(disp.sent), disp.sent)
	}

	// progres akhir tetap bisa dihitung untuk laporan terkunci
	prog, err := ComputeProgress(db, sub)
	if err != nil {
		t.Fatal(err)
	}
	if len(prog.Sections) != 4 {
		t.Fatalf("seksi = %d", len(prog.Sections))
	}
}
