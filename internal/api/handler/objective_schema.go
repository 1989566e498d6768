package handler

import (
	"time"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

type createObjectiveRequest struct {
	Title          string `json:"title" validate:"required,min=3"`
	Description    string `json:"description" validate:"required"`
	Category       string `json:"category" validate:"required,oneof='Learning and Certification' 'Demo & Assets' 'Impact Outside of Pod'"`
	Link           string `json:"link,omitempty" validate:"omitempty,url"`
	ProgressStatus string `json:"progress_status,omitempty"`
}

type updateObjectiveRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty" validate:"omitempty,oneof='Learning and Certification' 'Demo & Assets' 'Impact Outside of Pod'"`
	// Absent leaves the link unchanged; an empty string clears it.
	Link           *string    `json:"link,omitempty" validate:"omitempty,url"`
	ProgressStatus string     `json:"progress_status,omitempty"`
	ApprovalStatus string     `json:"approval_status,omitempty" validate:"omitempty,oneof='Pending Approval' Approved Rejected"`
	Points         *int       `json:"points,omitempty" validate:"omitempty,gte=0"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}

type reviewObjectiveRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Points   *int   `json:"points,omitempty" validate:"omitempty,gte=0"`
}

type objectiveResponse struct {
	*domain.Objective
	EmployeeName string `json:"employee_name,omitempty"`
	Region       string `json:"region,omitempty"`
}

type createObjectiveResponse struct {
	Objective *domain.Objective `json:"objective"`
	Warning   string            `json:"warning,omitempty"`
}

type listMineResponse struct {
	Pending  []*domain.Objective `json:"pending"`
	Approved []*domain.Objective `json:"approved"`
	Rejected []*domain.Objective `json:"rejected"`
	Quarter  int                 `json:"quarter"`
	Year     int                 `json:"fiscal_year"`
	Label    string              `json:"quarter_label"`
}

type listTeamResponse struct {
	Items      []objectiveResponse `json:"items"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
	Quarter    int                 `json:"quarter"`
	Year       int                 `json:"fiscal_year"`
}

func teamItems(items []ports.TeamObjective) []objectiveResponse {
	out := make([]objectiveResponse, 0, len(items))
	for _, item := range items {
		out = append(out, objectiveResponse{
			Objective:    item.Objective,
			EmployeeName: item.EmployeeName,
			Region:       item.Region,
		})
	}
	return out
}
