package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	profileModel "laporanku_backend/internals/features/school/profile/model"
	"laporanku_backend/internals/features/school/reports/model"
)

// recordingDispatcher merekam notifikasi yang dikirim workflow.
type recordingDispatcher struct {
	sent  []string // subject
	fail  bool
	panic bool
}

func (d *recordingDispatcher) QueueOrSend(recipient, subject, textBody, htmlBody string) bool {
	if d.panic {
		panic("smtp down")
	}
	if d.fail {
		return false
	}
	d.sent = append(d.sent, subject)
	return true
}

func seedProfile(t *testing.T, db *gorm.DB, schoolID uuid.UUID, email string) {
	t.Helper()
	prof := profileModel.SchoolProfileModel{
		SchoolProfileSchoolID:     schoolID,
		SchoolProfileName:         "SMA Harapan",
		SchoolProfileContactEmail: email,
	}
	if err := db.Create(&prof).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

// seedReadySubmission melengkapi syarat readiness: satu proyek + satu kegiatan.
func seedReadySubmission(t *testing.T, db *gorm.DB, sub *model.ReportSubmissionModel) {
	t.Helper()
	proj := model.ReportProjectModel{
		ReportProjectSubmissionID: sub.ReportSubmissionID,
		ReportProjectTitle:        "Pojok Baca",
	}
	if err := db.Create(&proj).Error; err != nil {
		t.Fatal(err)
	}
	act := model.ReportProjectActivityModel{
		ProjectActivityProjectID: proj.ReportProjectID,
		ProjectActivityTitle:     "Pengadaan rak buku",
	}
	if err := db.Create(&act).Error; err != nil {
		t.Fatal(err)
	}
}

func statusLogs(t *testing.T, db *gorm.DB, subID uuid.UUID) []model.ReportStatusLogModel {
	t.Helper()
	var logs []model.ReportStatusLogModel
	if err := db.
		Where("report_status_log_submission_id = ?", subID).
		Order("report_status_log_created_at ASC, report_status_log_id ASC").
		Find(&logs).Error; err != nil {
		t.Fatal(err)
	}
	return logs
}

func TestOpenDraftFindOrCreate(t *testing.T) {
	db := newTestDB(t)
	w := NewWorkflow(nil)
	schoolID, templateID, periodID := uuid.New(), uuid.New(), uuid.New()
	actor := uuid.New()

	sub, created, err := w.OpenDraft(db, schoolID, templateID, periodID, actor)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("pembukaan pertama harus membuat draft baru")
	}
	if sub.ReportSubmissionStatus != model.ReportStatusDraft {
		t.Fatalf("status = %s, mau draft", sub.ReportSubmissionStatus)
	}

	logs := statusLogs(t, db, sub.ReportSubmissionID)
	if len(logs) != 1 {
		t.Fatalf("jumlah log = %d, mau 1 (log pembuatan)", len(logs))
	}
	if logs[0].ReportStatusLogFromStatus != "" || logs[0].ReportStatusLogToStatus != model.ReportStatusDraft {
		t.Errorf("log pembuatan salah: from=%q to=%q", logs[0].ReportStatusLogFromStatus, logs[0].ReportStatusLogToStatus)
	}

	// pembukaan kedua: entitas yang sama, tanpa log baru
	again, created, err := w.OpenDraft(db, schoolID, templateID, periodID, actor)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Fatal("scope yang sama tidak boleh membuat submission kedua")
	}
	if again.ReportSubmissionID != sub.ReportSubmissionID {
		t.Fatal("ID berbeda untuk scope yang sama")
	}
	if n := len(statusLogs(t, db, sub.ReportSubmissionID)); n != 1 {
		t.Fatalf("jumlah log = %d, pembukaan ulang tidak boleh menambah log", n)
	}

	// periode lain → submission terpisah
	other, created, err := w.OpenDraft(db, schoolID, templateID, uuid.New(), actor)
	if err != nil {
		t.Fatal(err)
	}
	if !created || other.ReportSubmissionID == sub.ReportSubmissionID {
		t.Fatal("periode berbeda harus dapat submission baru")
	}
}

func TestSubmitRejectsWithoutProjects(t *testing.T) {
	db := newTestDB(t)
	w := NewWorkflow(nil)
	sub := newTestSubmission(t, db)

	err := w.Submit(db, sub, uuid.New())
	var rerr *ReadinessError
	if !errors.As(err, &rerr) {
		t.Fatalf("mau *ReadinessError, dapat %T: %v", err, err)
	}
	if len(rerr.Problems) != 1 || !strings.Contains(rerr.Problems[0].Reason, "minimal satu proyek") {
		t.Errorf("problems = %+v", rerr.Problems)
	}

	var fresh model.ReportSubmissionModel
	if err := db.First(&fresh, "report_submission_id = ?", sub.ReportSubmissionID).Error; err != nil {
		t.Fatal(err)
	}
	if fresh.ReportSubmissionStatus != model.ReportStatusDraft {
		t.Error("submit gagal tidak boleh mengubah status")
	}
	if n := len(statusLogs(t, db, sub.ReportSubmissionID)); n != 0 {
		t.Errorf("submit gagal tidak boleh menulis log, ada %d", n)
	}
}

func TestSubmitListsEveryProjectWithoutActivity(t *testing.T) {
	db := newTestDB(t)
	w := NewWorkflow(nil)
	sub := newTestSubmission(t, db)

	// dua proyek tanpa kegiatan + satu proyek lengkap
	for _, title := range []string{"Proyek A", "Proyek B"} {
		p := model.ReportProjectModel{ReportProjectSubmissionID: sub.ReportSubmissionID, ReportProjectTitle: title}
		if err := db.Create(&p).Error; err != nil {
			t.Fatal(err)
		}
	}
	seedReadySubmission(t, db, sub)

	err := w.Submit(db, sub, uuid.New())
	var rerr *ReadinessError
	if !errors.As(err, &rerr) {
		t.Fatalf("mau *ReadinessError, dapat %T: %v", err, err)
	}
	if len(rerr.Problems) != 2 {
		t.Fatalf("problems = %d, mau 2 (SEMUA proyek bermasalah disebut)", len(rerr.Problems))
	}
	titles := rerr.Problems[0].Title + "|" + rerr.Problems[1].Title
	if !strings.Contains(titles, "Proyek A") || !strings.Contains(titles, "Proyek B") {
		t.Errorf("kedua proyek harus disebut: %s", titles)
	}
}

func TestSubmitHappyPathAndNoOp(t *testing.T) {
	db := newTestDB(t)
	disp := &recordingDispatcher{}
	w := NewWorkflow(disp)
	sub := newTestSubmission(t, db)
	seedReadySubmission(t, db, sub)
	seedProfile(t, db, sub.ReportSubmissionSchoolID, "ops@sekolah.sch.id")
	actor := uuid.New()

	if err := w.Submit(db, sub, actor); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.ReportSubmissionStatus != model.ReportStatusSubmitted {
		t.Fatalf("status = %s", sub.ReportSubmissionStatus)
	}
	if sub.ReportSubmissionSubmittedAt == nil || sub.ReportSubmissionSubmittedBy == nil || *sub.ReportSubmissionSubmittedBy != actor {
		t.Error("submitted_at/by tidak ter-set")
	}

	logs := statusLogs(t, db, sub.ReportSubmissionID)
	if len(logs) != 1 {
		t.Fatalf("jumlah log = %d, mau 1", len(logs))
	}
	if logs[0].ReportStatusLogFromStatus != model.ReportStatusDraft || logs[0].ReportStatusLogToStatus != model.ReportStatusSubmitted {
		t.Errorf("log transisi salah: %+v", logs[0])
	}
	if len(disp.sent) != 1 || disp.sent[0] != "Laporan terkirim" {
		t.Errorf("notifikasi = %v", disp.sent)
	}

	// submit ulang: no-op diam, tanpa log & notifikasi baru
	if err := w.Submit(db, sub, actor); err != nil {
		t.Fatalf("submit ulang harus no-op: %v", err)
	}
	if n := len(statusLogs(t, db, sub.ReportSubmissionID)); n != 1 {
		t.Fatalf("no-op menambah log: %d", n)
	}
	if len(disp.sent) != 1 {
		t.Errorf("no-op mengirim notifikasi lagi: %v", disp.sent)
	}
}

func TestTransitionLegality(t *testing.T) {
	tests := []struct {
		name     string
		from     model.ReportStatus
		action   string
		wantCode int  // 0 = tanpa error
		wantNoop bool // true = sukses tapi tidak ada log
	}{
		{"submit dari draft sah", model.ReportStatusDraft, "submit", 0, false},
		{"submit dari returned sah", model.ReportStatusReturned, "submit", 0, false},
		{"submit dari noted ditolak", model.ReportStatusNoted, "submit", fiber.StatusConflict, false},
		{"submit dari submitted no-op", model.ReportStatusSubmitted, "submit", 0, true},
		{"return dari submitted sah", model.ReportStatusSubmitted, "return", 0, false},
		{"return dari draft ditolak", model.ReportStatusDraft, "return", fiber.StatusConflict, false},
		{"return dari noted ditolak", model.ReportStatusNoted, "return", fiber.StatusConflict, false},
		{"return dari returned no-op", model.ReportStatusReturned, "return", 0, true},
		{"note dari submitted sah", model.ReportStatusSubmitted, "note", 0, false},
		{"note dari draft ditolak", model.ReportStatusDraft, "note", fiber.StatusConflict, false},
		{"note dari returned ditolak", model.ReportStatusReturned, "note", fiber.StatusConflict, false},
		{"note dari noted no-op", model.ReportStatusNoted, "note", 0, true},
		{"reset dari submitted sah", model.ReportStatusSubmitted, "reset", 0, false},
		{"reset dari noted sah", model.ReportStatusNoted, "reset", 0, false},
		{"reset dari draft no-op", model.ReportStatusDraft, "reset", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			w := NewWorkflow(nil)
			sub := newTestSubmission(t, db)
			seedReadySubmission(t, db, sub)
			sub.ReportSubmissionStatus = tt.from
			if err := db.Save(sub).Error; err != nil {
				t.Fatal(err)
			}
			actor := uuid.New()

			var err error
			switch tt.action {
			case "submit":
				err = w.Submit(db, sub, actor)
			case "return":
				err = w.Return(db, sub, actor, "perbaiki data capaian")
			case "note":
				err = w.Note(db, sub, actor, "")
			case "reset":
				err = w.ResetToDraft(db, sub, &actor)
			}

			if tt.wantCode != 0 {
				wantFiberCode(t, err, tt.wantCode)
				if n := len(statusLogs(t, db, sub.ReportSubmissionID)); n != 0 {
					t.Errorf("transisi ilegal menulis log: %d", n)
				}
				return
			}
			if err != nil {
				t.Fatalf("transisi sah gagal: %v", err)
			}
			wantLogs := 1
			if tt.wantNoop {
				wantLogs = 0
			}
			if n := len(statusLogs(t, db, sub.ReportSubmissionID)); n != wantLogs {
				t.Errorf("jumlah log = %d, mau %d", n, wantLogs)
			}
		})
	}
}

func TestReturnRequiresRemarks(t *testing.T) {
	db := newTestDB(t)
	w := NewWorkflow(nil)
	sub := newTestSubmission(t, db)
	sub.ReportSubmissionStatus = model.ReportStatusSubmitted
	if err := db.Save(sub).Error; err != nil {
		t.Fatal(err)
	}

	err := w.Return(db, sub, uuid.New(), "   ")
	wantFiberCode(t, err, fiber.StatusBadRequest)
	if sub.ReportSubmissionStatus != model.ReportStatusSubmitted {
		t.Error("return gagal tidak boleh mengubah status")
	}

	reviewer := uuid.New()
	if err := w.Return(db, sub, reviewer, "lengkapi data literasi kelas 3"); err != nil {
		t.Fatal(err)
	}
	if sub.ReportSubmissionStatus != model.ReportStatusReturned {
		t.Fatalf("status = %s", sub.ReportSubmissionStatus)
	}
	if sub.ReportSubmissionReturnedRemarks == nil || *sub.ReportSubmissionReturnedRemarks != "lengkapi data literasi kelas 3" {
		t.Error("remarks tidak tersimpan di submission")
	}

	logs := statusLogs(t, db, sub.ReportSubmissionID)
	if len(logs) != 1 || logs[0].ReportStatusLogRemarks != "lengkapi data literasi kelas 3" {
		t.Errorf("remarks tidak masuk log audit: %+v", logs)
	}
	if logs[0].ReportStatusLogActorID == nil || *logs[0].ReportStatusLogActorID != reviewer {
		t.Error("actor reviewer tidak tercatat di log")
	}
}

func TestNoteRemarksOptionalAndClearsReturnTrail(t *testing.T) {
	db := newTestDB(t)
	w := NewWorkflow(nil)
	sub := newTestSubmission(t, db)
	seedReadySubmission(t, db, sub)
	actor := uuid.New()

	// siklus penuh: submit → return → submit → note
	if err := w.Submit(db, sub, actor); err != nil {
		t.Fatal(err)
	}
	if err := w.Return(db, sub, actor, "revisi dulu"); err != nil {
		t.Fatal(err)
	}
	if err := w.Submit(db, sub, actor); err != nil {
		t.Fatal(err)
	}
	if sub.ReportSubmissionReturnedRemarks != nil {
		t.Error("submit ulang harus menghapus jejak return siklus sebelumnya")
	}
	if err := w.Note(db, sub, actor, ""); err != nil {
		t.Fatal(err)
	}
	if sub.ReportSubmissionStatus != model.ReportStatusNoted {
		t.Fatalf("status = %s", sub.ReportSubmissionStatus)
	}
	if sub.ReportSubmissionNotedRemarks != nil {
		t.Error("remarks kosong harus tersimpan NULL")
	}
	if sub.ReportSubmissionNotedAt == nil || sub.ReportSubmissionNotedBy == nil {
		t.Error("noted_at/by tidak ter-set")
	}

	// jejak audit lengkap: draft→submitted→returned→submitted→noted
	logs := statusLogs(t, db, sub.ReportSubmissionID)
	if len(logs) != 4 {
		t.Fatalf("jumlah log = %d, mau 4", len(logs))
	}
	wantTo := []model.ReportStatus{
		model.ReportStatusSubmitted,
		model.ReportStatusReturned,
		model.ReportStatusSubmitted,
		model.ReportStatusNoted,
	}
	for i, want := range wantTo {
		if logs[i].ReportStatusLogToStatus != want {
			t.Errorf("log %d: to=%s, mau %s", i, logs[i].ReportStatusLogToStatus, want)
		}
	}
	for i := 1; i < len(logs); i++ {
		if logs[i].ReportStatusLogFromStatus != logs[i-1].ReportStatusLogToStatus {
			t.Errorf("rantai log putus di indeks %d", i)
		}
	}
}

func TestResetToDraftBySystem(t *testing.T) {
	db := newTestDB(t)
	w := NewWorkflow(nil)
	sub := newTestSubmission(t, db)
	sub.ReportSubmissionStatus = model.ReportStatusNoted
	if err := db.Save(sub).Error; err != nil {
		t.Fatal(err)
	}

	if err := w.ResetToDraft(db, sub, nil); err != nil {
		t.Fatal(err)
	}
	if sub.ReportSubmissionStatus != model.ReportStatusDraft {
		t.Fatalf("status = %s", sub.ReportSubmissionStatus)
	}
	logs := statusLogs(t, db, sub.ReportSubmissionID)
	if len(logs) != 1 {
		t.Fatalf("jumlah log = %d", len(logs))
	}
	if logs[0].ReportStatusLogActorID != nil {
		t.Error("reset sistem harus tercatat tanpa actor")
	}
	if logs[0].ReportStatusLogRemarks != "reset administratif" {
		t.Errorf("remarks = %q", logs[0].ReportStatusLogRemarks)
	}
}

// Dua request yang sama-sama membaca status submitted: hanya satu yang
// boleh menang; snapshot basi tidak boleh menambah log kedua.
func TestStaleSnapshotTransitionsSingleWinner(t *testing.T) {
	db := newTestDB(t)
	disp := &recordingDispatcher{}
	w := NewWorkflow(disp)
	sub := newTestSubmission(t, db)
	seedReadySubmission(t, db, sub)
	seedProfile(t, db, sub.ReportSubmissionSchoolID, "ops@sekolah.sch.id")
	reviewer := uuid.New()

	if err := w.Submit(db, sub, uuid.New()); err != nil {
		t.Fatal(err)
	}
	staleSame := *sub // keduanya memegang snapshot submitted yang sama
	staleOther := *sub

	if err := w.Return(db, sub, reviewer, "lengkapi data"); err != nil {
		t.Fatalf("return pemenang: %v", err)
	}
	// aksi sama dari snapshot basi: laporan sudah di target → no-op diam
	if err := w.Return(db, &staleSame, reviewer, "catatan lain"); err != nil {
		t.Fatalf("return dari snapshot basi harus jadi no-op: %v", err)
	}

	logs := statusLogs(t, db, sub.ReportSubmissionID)
	returned := 0
	for _, l := range logs {
		if l.ReportStatusLogToStatus == model.ReportStatusReturned {
			returned++
		}
	}
	if returned != 1 {
		t.Fatalf("entri log returned = %d, mau 1", returned)
	}
	if len(logs) != 2 { // submit + return
		t.Fatalf("jumlah log = %d, mau 2", len(logs))
	}

	// snapshot basi di-refresh ke keadaan tersimpan, remarks milik pemenang
	if staleSame.ReportSubmissionStatus != model.ReportStatusReturned {
		t.Fatalf("status snapshot basi = %s", staleSame.ReportSubmissionStatus)
	}
	if staleSame.ReportSubmissionReturnedRemarks == nil || *staleSame.ReportSubmissionReturnedRemarks != "lengkapi data" {
		t.Error("remarks pemenang harus yang tersimpan")
	}
	if len(disp.sent) != 2 { // submit + return pemenang saja
		t.Errorf("notifikasi = %v", disp.sent)
	}

	// aksi BERBEDA dari snapshot basi (masih mengira submitted) → konflik
	err := w.Note(db, &staleOther, reviewer, "")
	wantFiberCode(t, err, fiber.StatusConflict)
	for _, l := range statusLogs(t, db, sub.ReportSubmissionID) {
		if l.ReportStatusLogToStatus == model.ReportStatusNoted {
			t.Fatal("kalah balapan tidak boleh menulis log noted")
		}
	}
}

func TestNotificationFailureNeverFailsTransition(t *testing.T) {
	tests := []struct {
		name string
		disp *recordingDispatcher
	}{
		{"dispatcher gagal kirim", &recordingDispatcher{fail: true}},
		{"dispatcher panic", &recordingDispatcher{panic: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			w := NewWorkflow(tt.disp)
			sub := newTestSubmission(t, db)
			seedReadySubmission(t, db, sub)
			seedProfile(t, db, sub.ReportSubmissionSchoolID, "ops@sekolah.sch.id")

			if err := w.Submit(db, sub, uuid.New()); err != nil {
				t.Fatalf("kegagalan notifikasi bocor ke operasi utama: %v", err)
			}
			var fresh model.ReportSubmissionModel
			if err := db.First(&fresh, "report_submission_id = ?", sub.ReportSubmissionID).Error; err != nil {
				t.Fatal(err)
			}
			if fresh.ReportSubmissionStatus != model.ReportStatusSubmitted {
				t.Error("transisi harus tetap ter-commit")
			}
		})
	}
}

func TestNotifySkippedWithoutContact(t *testing.T) {
	db := newTestDB(t)
	disp := &recordingDispatcher{}
	w := NewWorkflow(disp)
	sub := newTestSubmission(t, db)
	seedReadySubmission(t, db, sub)
	// tanpa profil sekolah → tanpa email kontak

	if err := w.Submit(db, sub, uuid.New()); err != nil {
		t.Fatal(err)
	}
	if len(disp.sent) != 0 {
		t.Errorf("tanpa kontak tidak boleh ada kiriman: %v", disp.sent)
	}
}
