// file: internals/features/school/reports/dto/report_row_dto.go
package dto

import (
	model "laporanku_backend/internals/features/school/reports/model"
)

/*
Request targeted partial-save: SATU baris per request, dialamatkan lewat
kunci eksplisit. Field nilai pakai pointer: nil = tidak dikirim = tidak
diubah (kolom baris semuanya NOT NULL, jadi null literal tidak valid).

`autosave=true` memilih profil validasi longgar (invariant jumlah
kategori = total dilewati) untuk background save saat user masih mengetik.
*/

// AnalysisPayload = narasi 1:1 yang ikut baris capaian.
type AnalysisPayload struct {
	Text       *string `json:"text,omitempty"`
	ActionPlan *string `json:"action_plan,omitempty"`
}

type SaveProficiencyRowRequest struct {
	// Kunci eksplisit (utama)
	Grade       *int    `json:"grade,omitempty" validate:"omitempty,min=1"`
	SubjectCode *string `json:"subject_code,omitempty"`

	// Fallback kompatibilitas: posisi ordinal 1-based, HANYA dipakai
	// kalau kunci eksplisit tidak dikirim. Jalur deprecated.
	Position *int `json:"position,omitempty" validate:"omitempty,min=1"`

	Autosave bool `json:"autosave"`

	Offered          *bool   `json:"offered,omitempty"`
	EnrolledTotal    *int    `json:"enrolled_total,omitempty" validate:"omitempty,min=0"`
	CountBeginning   *int    `json:"count_beginning,omitempty" validate:"omitempty,min=0"`
	CountDeveloping  *int    `json:"count_developing,omitempty" validate:"omitempty,min=0"`
	CountApproaching *int    `json:"count_approaching,omitempty" validate:"omitempty,min=0"`
	CountProficient  *int    `json:"count_proficient,omitempty" validate:"omitempty,min=0"`
	CountAdvanced    *int    `json:"count_advanced,omitempty" validate:"omitempty,min=0"`
	Intervention     *string `json:"intervention,omitempty"`

	Analysis *AnalysisPayload `json:"analysis,omitempty"`
}

func (r *SaveProficiencyRowRequest) HasExplicitKey() bool {
	return r.Grade != nil && r.SubjectCode != nil
}

// ToUpdates: hanya field yang dikirim yang masuk map update.
func (r *SaveProficiencyRowRequest) ToUpdates() map[string]any {
	upd := map[string]any{}
	if r.Offered != nil {
		upd["proficiency_row_offered"] = *r.Offered
	}
	if r.EnrolledTotal != nil {
		upd["proficiency_row_enrolled_total"] = *r.EnrolledTotal
	}
	if r.CountBeginning != nil {
		upd["proficiency_row_count_beginning"] = *r.CountBeginning
	}
	if r.CountDeveloping != nil {
		upd["proficiency_row_count_developing"] = *r.CountDeveloping
	}
	if r.CountApproaching != nil {
		upd["proficiency_row_count_approaching"] = *r.CountApproaching
	}
	if r.CountProficient != nil {
		upd["proficiency_row_count_proficient"] = *r.CountProficient
	}
	if r.CountAdvanced != nil {
		upd["proficiency_row_count_advanced"] = *r.CountAdvanced
	}
	if r.Intervention != nil {
		upd["proficiency_row_intervention"] = *r.Intervention
	}
	return upd
}

type SaveReadingRowRequest struct {
	// Kunci eksplisit (utama)
	Grade *int `json:"grade,omitempty" validate:"omitempty,min=1"`

	// Fallback ordinal, deprecated
	Position *int `json:"position,omitempty" validate:"omitempty,min=1"`

	Autosave bool `json:"autosave"`

	Offered            *bool   `json:"offered,omitempty"`
	AssessedTotal      *int    `json:"assessed_total,omitempty" validate:"omitempty,min=0"`
	CountIndependent   *int    `json:"count_independent,omitempty" validate:"omitempty,min=0"`
	CountInstructional *int    `json:"count_instructional,omitempty" validate:"omitempty,min=0"`
	CountFrustration   *int    `json:"count_frustration,omitempty" validate:"omitempty,min=0"`
	CountNonReader     *int    `json:"count_non_reader,omitempty" validate:"omitempty,min=0"`
	Intervention       *string `json:"intervention,omitempty"`
}

func (r *SaveReadingRowRequest) HasExplicitKey() bool { return r.Grade != nil }

func (r *SaveReadingRowRequest) ToUpdates() map[string]any {
	upd := map[string]any{}
	if r.Offered != nil {
		upd["reading_row_offered"] = *r.Offered
	}
	if r.AssessedTotal != nil {
		upd["reading_row_assessed_total"] = *r.AssessedTotal
	}
	if r.CountIndependent != nil {
		upd["reading_row_count_independent"] = *r.CountIndependent
	}
	if r.CountInstructional != nil {
		upd["reading_row_count_instructional"] = *r.CountInstructional
	}
	if r.CountFrustration != nil {
		upd["reading_row_count_frustration"] = *r.CountFrustration
	}
	if r.CountNonReader != nil {
		upd["reading_row_count_non_reader"] = *r.CountNonReader
	}
	if r.Intervention != nil {
		upd["reading_row_intervention"] = *r.Intervention
	}
	return upd
}

type SaveIssueRowRequest struct {
	// Posisi slot adalah kunci-nya sendiri (1..5)
	Position *int `json:"position" validate:"required,min=1,max=5"`

	Autosave bool `json:"autosave"`

	Description    *string `json:"description,omitempty"`
	RootCause      *string `json:"root_cause,omitempty"`
	Recommendation *string `json:"recommendation,omitempty"`
}

func (r *SaveIssueRowRequest) ToUpdates() map[string]any {
	upd := map[string]any{}
	if r.Description != nil {
		upd["priority_issue_description"] = *r.Description
	}
	if r.RootCause != nil {
		upd["priority_issue_root_cause"] = *r.RootCause
	}
	if r.Recommendation != nil {
		upd["priority_issue_recommendation"] = *r.Recommendation
	}
	return upd
}

// Full-form save: seluruh koleksi baris capaian satu request.
type SaveAllProficiencyRowsRequest struct {
	Autosave bool                        `json:"autosave"`
	Rows     []SaveProficiencyRowRequest `json:"rows" validate:"required,min=1,dive"`
}

/* =========================
   Responses
========================= */

type ProficiencyRowResponse struct {
	ProficiencyRow model.ProficiencyRowModel       `json:"row"`
	Analysis       *model.ProficiencyAnalysisModel `json:"analysis,omitempty"`
}

func FromProficiencyRow(row *model.ProficiencyRowModel, analysis *model.ProficiencyAnalysisModel) ProficiencyRowResponse {
	return ProficiencyRowResponse{ProficiencyRow: *row, Analysis: analysis}
}
