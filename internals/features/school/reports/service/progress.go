// file: internals/features/school/reports/service/progress.go
package service

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	model "laporanku_backend/internals/features/school/reports/model"
)

/*
Kalkulator kelengkapan seksi: VIEW MURNI atas baris-baris tersimpan,
dihitung ulang setiap diminta, tidak pernah dipersist.

Aturan baris "lengkap" (capaian & literasi):
  offered == true, jumlah kategori konsisten dengan total, dan minimal
  satu field naratif terisi. Baris non-offered keluar dari penyebut
  sama sekali (tidak membantu, tidak merugikan).

Progres keseluruhan = rata-rata tak berbobot persen per seksi,
dibulatkan ke bawah.
*/

type SectionStatus string

const (
	SectionNotStarted SectionStatus = "not_started"
	SectionInProgress SectionStatus = "in_progress"
	SectionComplete   SectionStatus = "complete"
)

type SectionProgress struct {
	Section string        `json:"section"`
	Status  SectionStatus `json:"status"`
	Detail  string        `json:"detail"`
	Percent int           `json:"percent"`
}

type ReportProgress struct {
	Sections []SectionProgress `json:"sections"`
	Overall  int               `json:"overall"`
}

func sectionFromCounts(name string, done, total int) SectionProgress {
	sp := SectionProgress{
		Section: name,
		Detail:  fmt.Sprintf("%d/%d baris lengkap", done, total),
	}
	switch {
	case total == 0:
		// tidak ada baris yang dihitung → seksi dianggap selesai
		sp.Status = SectionComplete
		sp.Percent = 100
		sp.Detail = "tidak ada baris yang perlu diisi"
	case done == 0:
		sp.Status = SectionNotStarted
	case done == total:
		sp.Status = SectionComplete
		sp.Percent = 100
	default:
		sp.Status = SectionInProgress
		sp.Percent = done * 100 / total
	}
	return sp
}

func proficiencyRowComplete(row *model.ProficiencyRowModel, analysisByRow map[string]*model.ProficiencyAnalysisModel) bool {
	if row.ProficiencyRowEnrolledTotal <= 0 {
		return false
	}
	if row.CountSum() != row.ProficiencyRowEnrolledTotal {
		return false
	}
	if strings.TrimSpace(row.ProficiencyRowIntervention) != "" {
		return true
	}
	if an := analysisByRow[row.ProficiencyRowID.String()]; an != nil {
		return strings.TrimSpace(an.ProficiencyAnalysisText) != "" ||
			strings.TrimSpace(an.ProficiencyAnalysisActionPlan) != ""
	}
	return false
}

func readingRowComplete(row *model.ReadingRowModel) bool {
	if row.ReadingRowAssessedTotal <= 0 {
		return false
	}
	if row.CountSum() != row.ReadingRowAssessedTotal {
		return false
	}
	return strings.TrimSpace(row.ReadingRowIntervention) != ""
}

// ComputeProgress menghitung kelengkapan per seksi + progres keseluruhan.
// Nilai ini tidak mem-block save draft; readiness submit membaca data
// yang sama lewat jalurnya sendiri.
func ComputeProgress(db *gorm.DB, sub *model.ReportSubmissionModel) (ReportProgress, error) {
	var out ReportProgress

	// ---- seksi capaian mapel ----
	var profRows []model.ProficiencyRowModel
	if err := db.
		Where("proficiency_row_submission_id = ?", sub.ReportSubmissionID).
		Find(&profRows).Error; err != nil {
		return out, err
	}

	rowIDs := make([]string, 0, len(profRows))
	for _, r := range profRows {
		rowIDs = append(rowIDs, r.ProficiencyRowID.String())
	}
	analysisByRow := map[string]*model.ProficiencyAnalysisModel{}
	if len(rowIDs) > 0 {
		var analyses []model.ProficiencyAnalysisModel
		if err := db.
			Where("proficiency_analysis_row_id IN ?", rowIDs).
			Find(&analyses).Error; err != nil {
			return out, err
		}
		for i := range analyses {
			analysisByRow[analyses[i].ProficiencyAnalysisRowID.String()] = &analyses[i]
		}
	}

	profDone, profTotal := 0, 0
	for i := range profRows {
		row := &profRows[i]
		if !row.ProficiencyRowOffered {
			continue // keluar dari penyebut
		}
		profTotal++
		if proficiencyRowComplete(row, analysisByRow) {
			profDone++
		}
	}
	out.Sections = append(out.Sections, sectionFromCounts("capaian_mapel", profDone, profTotal))

	// ---- seksi literasi ----
	var readRows []model.ReadingRowModel
	if err := db.
		Where("reading_row_submission_id = ?", sub.ReportSubmissionID).
		Find(&readRows).Error; err != nil {
		return out, err
	}
	readDone, readTotal := 0, 0
	for i := range readRows {
		row := &readRows[i]
		if !row.ReadingRowOffered {
			continue
		}
		readTotal++
		if readingRowComplete(row) {
			readDone++
		}
	}
	out.Sections = append(out.Sections, sectionFromCounts("literasi", readDone, readTotal))

	// ---- seksi isu prioritas ----
	var issues []model.PriorityIssueRowModel
	if err := db.
		Where("priority_issue_submission_id = ?", sub.ReportSubmissionID).
		Find(&issues).Error; err != nil {
		return out, err
	}
	issueDone := 0
	for _, row := range issues {
		if strings.TrimSpace(row.PriorityIssueDescription) != "" {
			issueDone++
		}
	}
	out.Sections = append(out.Sections, sectionFromCounts("isu_prioritas", issueDone, len(issues)))

	// ---- seksi proyek ----
	var projects []model.ReportProjectModel
	if err := db.
		Where("report_project_submission_id = ?", sub.ReportSubmissionID).
		Find(&projects).Error; err != nil {
		return out, err
	}
	projSection := SectionProgress{Section: "proyek"}
	switch {
	case len(projects) == 0:
		projSection.Status = SectionNotStarted
		projSection.Detail = "belum ada proyek"
	default:
		withAct := 0
		for _, p := range projects {
			var n int64
			if err := db.Model(&model.ReportProjectActivityModel{}).
				Where("project_activity_project_id = ?", p.ReportProjectID).
				Count(&n).Error; err != nil {
				return out, err
			}
			if n > 0 {
				withAct++
			}
		}
		projSection.Detail = fmt.Sprintf("%d/%d proyek punya kegiatan", withAct, len(projects))
		if withAct == len(projects) {
			projSection.Status = SectionComplete
			projSection.Percent = 100
		} else {
			projSection.Status = SectionInProgress
			projSection.Percent = withAct * 100 / len(projects)
		}
	}
	out.Sections = append(out.Sections, projSection)

	// rata-rata tak berbobot, floor
	sum := 0
	for _, s := range out.Sections {
		sum += s.Percent
	}
	out.Overall = sum / len(out.Sections)
	return out, nil
}
