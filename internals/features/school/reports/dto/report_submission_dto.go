// file: internals/features/school/reports/dto/report_submission_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "laporanku_backend/internals/features/school/reports/model"
)

/* =========================
   Requests
========================= */

// CreateOrOpenReportRequest: sekolah membuka (atau membuat draft) laporan
// untuk satu template × periode. School ID dipaksa dari token.
type CreateOrOpenReportRequest struct {
	ReportTemplateID uuid.UUID `json:"report_template_id" validate:"required"`
	ReportPeriodID   uuid.UUID `json:"report_period_id" validate:"required"`
}

// RemarksRequest dipakai aksi reviewer (return wajib remarks, note opsional).
type RemarksRequest struct {
	Remarks string `json:"remarks"`
}

// PatchExtrasRequest: update field lepas (extras bag) saat masih editable.
type PatchExtrasRequest struct {
	Extras map[string]any `json:"extras" validate:"required"`
}

/* =========================
   Responses
========================= */

type ReportSubmissionResponse struct {
	ReportSubmissionID         uuid.UUID          `json:"report_submission_id"`
	ReportSubmissionSchoolID   uuid.UUID          `json:"report_submission_school_id"`
	ReportSubmissionTemplateID uuid.UUID          `json:"report_submission_template_id"`
	ReportSubmissionPeriodID   uuid.UUID          `json:"report_submission_period_id"`
	ReportSubmissionStatus     model.ReportStatus `json:"report_submission_status"`
	ReportSubmissionEditable   bool               `json:"report_submission_editable"`

	ReportSubmissionSubmittedAt *time.Time `json:"report_submission_submitted_at,omitempty"`
	ReportSubmissionSubmittedBy *uuid.UUID `json:"report_submission_submitted_by,omitempty"`

	ReportSubmissionReturnedAt      *time.Time `json:"report_submission_returned_at,omitempty"`
	ReportSubmissionReturnedBy      *uuid.UUID `json:"report_submission_returned_by,omitempty"`
	ReportSubmissionReturnedRemarks *string    `json:"report_submission_returned_remarks,omitempty"`

	ReportSubmissionNotedAt      *time.Time `json:"report_submission_noted_at,omitempty"`
	ReportSubmissionNotedBy      *uuid.UUID `json:"report_submission_noted_by,omitempty"`
	ReportSubmissionNotedRemarks *string    `json:"report_submission_noted_remarks,omitempty"`

	ReportSubmissionLastEditedBy *uuid.UUID `json:"report_submission_last_edited_by,omitempty"`
	ReportSubmissionLastEditedAt *time.Time `json:"report_submission_last_edited_at,omitempty"`

	ReportSubmissionExtras map[string]any `json:"report_submission_extras,omitempty"`

	ReportSubmissionCreatedAt time.Time `json:"report_submission_created_at"`
	ReportSubmissionUpdatedAt time.Time `json:"report_submission_updated_at"`
}

func FromSubmissionModel(m *model.ReportSubmissionModel) ReportSubmissionResponse {
	return ReportSubmissionResponse{
		ReportSubmissionID:         m.ReportSubmissionID,
		ReportSubmissionSchoolID:   m.ReportSubmissionSchoolID,
		ReportSubmissionTemplateID: m.ReportSubmissionTemplateID,
		ReportSubmissionPeriodID:   m.ReportSubmissionPeriodID,
		ReportSubmissionStatus:     m.ReportSubmissionStatus,
		ReportSubmissionEditable:   m.Editable(),

		ReportSubmissionSubmittedAt: m.ReportSubmissionSubmittedAt,
		ReportSubmissionSubmittedBy: m.ReportSubmissionSubmittedBy,

		ReportSubmissionReturnedAt:      m.ReportSubmissionReturnedAt,
		ReportSubmissionReturnedBy:      m.ReportSubmissionReturnedBy,
		ReportSubmissionReturnedRemarks: m.ReportSubmissionReturnedRemarks,

		ReportSubmissionNotedAt:      m.ReportSubmissionNotedAt,
		ReportSubmissionNotedBy:      m.ReportSubmissionNotedBy,
		ReportSubmissionNotedRemarks: m.ReportSubmissionNotedRemarks,

		ReportSubmissionLastEditedBy: m.ReportSubmissionLastEditedBy,
		ReportSubmissionLastEditedAt: m.ReportSubmissionLastEditedAt,

		ReportSubmissionExtras: m.ReportSubmissionExtras,

		ReportSubmissionCreatedAt: m.ReportSubmissionCreatedAt,
		ReportSubmissionUpdatedAt: m.ReportSubmissionUpdatedAt,
	}
}

type ReportStatusLogResponse struct {
	ReportStatusLogID         uuid.UUID          `json:"report_status_log_id"`
	ReportStatusLogActorID    *uuid.UUID         `json:"report_status_log_actor_id,omitempty"`
	ReportStatusLogFromStatus model.ReportStatus `json:"report_status_log_from_status"`
	ReportStatusLogToStatus   model.ReportStatus `json:"report_status_log_to_status"`
	ReportStatusLogRemarks    string             `json:"report_status_log_remarks"`
	ReportStatusLogCreatedAt  time.Time          `json:"report_status_log_created_at"`
}

func FromStatusLogModel(m *model.ReportStatusLogModel) ReportStatusLogResponse {
	return ReportStatusLogResponse{
		ReportStatusLogID:         m.ReportStatusLogID,
		ReportStatusLogActorID:    m.ReportStatusLogActorID,
		ReportStatusLogFromStatus: m.ReportStatusLogFromStatus,
		ReportStatusLogToStatus:   m.ReportStatusLogToStatus,
		ReportStatusLogRemarks:    m.ReportStatusLogRemarks,
		ReportStatusLogCreatedAt:  m.ReportStatusLogCreatedAt,
	}
}

func FromStatusLogModels(list []model.ReportStatusLogModel) []ReportStatusLogResponse {
	out := make([]ReportStatusLogResponse, 0, len(list))
	for i := range list {
		out = append(out, FromStatusLogModel(&list[i]))
	}
	return out
}
