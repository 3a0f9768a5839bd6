// file: internals/features/school/reports/dto/report_project_dto.go
package dto

import (
	"time"

	model "laporanku_backend/internals/features/school/reports/model"
)

type CreateProjectRequest struct {
	Title     string   `json:"title" validate:"required,max=160"`
	Objective string   `json:"objective"`
	Budget    *float64 `json:"budget,omitempty" validate:"omitempty,min=0"`
}

func (r CreateProjectRequest) ToModel() model.ReportProjectModel {
	return model.ReportProjectModel{
		ReportProjectTitle:     r.Title,
		ReportProjectObjective: r.Objective,
		ReportProjectBudget:    r.Budget,
	}
}

type PatchProjectRequest struct {
	Title     *PatchField[string]  `json:"title,omitempty"`
	Objective *PatchField[string]  `json:"objective,omitempty"`
	Budget    *PatchField[float64] `json:"budget,omitempty"` // nullable, boleh null
}

// ToUpdates: field tidak dikirim di-skip; null hanya valid untuk budget.
func (p *PatchProjectRequest) ToUpdates() map[string]any {
	upd := map[string]any{}
	if p.Title != nil && p.Title.ShouldUpdate() && !p.Title.IsNull() {
		upd["report_project_title"] = *p.Title.Value
	}
	if p.Objective != nil && p.Objective.ShouldUpdate() && !p.Objective.IsNull() {
		upd["report_project_objective"] = *p.Objective.Value
	}
	if p.Budget != nil && p.Budget.ShouldUpdate() {
		if p.Budget.IsNull() {
			upd["report_project_budget"] = nil
		} else {
			upd["report_project_budget"] = *p.Budget.Value
		}
	}
	return upd
}

type CreateActivityRequest struct {
	Title      string     `json:"title" validate:"required,max=160"`
	TargetDate *time.Time `json:"target_date,omitempty"`
	Status     *string    `json:"status,omitempty" validate:"omitempty,oneof=planned ongoing done"`
}

func (r CreateActivityRequest) ToModel() model.ReportProjectActivityModel {
	m := model.ReportProjectActivityModel{
		ProjectActivityTitle:      r.Title,
		ProjectActivityTargetDate: r.TargetDate,
		ProjectActivityStatus:     "planned",
	}
	if r.Status != nil {
		m.ProjectActivityStatus = *r.Status
	}
	return m
}
