package ports

import (
	"context"
	"time"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
)

// CreateObjectiveInput carries all data needed to submit a new objective.
// The creator comes from the authenticated context, never the payload.
type CreateObjectiveInput struct {
	Title          string
	Description    string
	Category       string
	Link           string
	ProgressStatus string
	UserID         string
}

// CreateObjectiveResult is returned after a successful submission.
// CapWarning is non-empty when the new objective pushes the creator past
// the category's recommended or maximum points for the quarter; it is
// advisory only and never blocks the write.
type CreateObjectiveResult struct {
	Objective  *domain.Objective
	CapWarning string
}

// UpdateObjectiveInput carries an edit. Approval status, points, and the
// creation timestamp are honoured only when the actor is a manager. Nil
// pointer fields leave the stored value unchanged; an empty string in
// Link clears it.
type UpdateObjectiveInput struct {
	ID             string
	ActorID        string
	Title          string
	Description    string
	Category       string
	Link           *string
	ProgressStatus string
	ApprovalStatus string     // manager only
	Points         *int       // manager only; nil leaves unchanged
	CreatedAt      *time.Time // manager only: move to another quarter
}

// ReviewObjectiveInput approves or rejects a pending objective.
type ReviewObjectiveInput struct {
	ID      string
	ActorID string
	Approve bool
	Points  *int // optional, applied on approve
}

// ListMineInput selects the caller's objectives for one fiscal quarter.
// Quarter/Year of zero default to the quarter containing "now".
type ListMineInput struct {
	UserID  string
	Quarter int
	Year    int
	SortBy  string
	SortDir string
}

// ListMineResult groups the quarter's objectives by approval status.
type ListMineResult struct {
	Pending  []*domain.Objective
	Approved []*domain.Objective
	Rejected []*domain.Objective
	Window   domain.QuarterWindow
}

// ListTeamInput carries the team view filters. Only approved objectives
// are listed.
type ListTeamInput struct {
	Quarter    int
	Year       int
	Category   string
	Region     string
	EmployeeID string
	Search     string
	SortBy     string
	SortDir    string
	Page       int
	Limit      int
}

// TeamObjective decorates an objective with its creator for list rendering.
type TeamObjective struct {
	Objective    *domain.Objective
	EmployeeName string
	Region       string
}

// ListTeamResult is a page of the team view.
type ListTeamResult struct {
	Items      []TeamObjective
	Total      int64
	Page       int
	Limit      int
	TotalPages int
	Window     domain.QuarterWindow
}

// ObjectiveService defines the use-case operations on objectives.
type ObjectiveService interface {
	Create(ctx context.Context, input CreateObjectiveInput) (*CreateObjectiveResult, error)
	Update(ctx context.Context, input UpdateObjectiveInput) (*domain.Objective, error)
	Review(ctx context.Context, input ReviewObjectiveInput) (*domain.Objective, error)
	Delete(ctx context.Context, id, actorID string) error
	Get(ctx context.Context, id string) (*domain.Objective, error)
	ListMine(ctx context.Context, input ListMineInput) (*ListMineResult, error)
	ListTeam(ctx context.Context, input ListTeamInput) (*ListTeamResult, error)
	ListPending(ctx context.Context, actorID string) ([]*domain.Objective, error)
}
