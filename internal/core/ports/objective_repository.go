package ports

import (
	"context"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
)

// ObjectiveFilter carries all query parameters for listing objectives.
// UserIDs is resolved by the service layer (e.g. from a region filter);
// an empty slice means no creator restriction.
type ObjectiveFilter struct {
	UserIDs      []string
	Category     string                // optional: exact category match
	Search       string                // optional: case-insensitive title substring
	ApprovedOnly bool                  // restrict to Approved objectives
	Window       *domain.QuarterWindow // optional: created_at within the window
	SortBy       string                // created_at (default), title, category, progress, points
	SortDir      string                // asc or desc (default)
	Page         int                   // 1-based; 0 disables pagination
	Limit        int
}

// ObjectiveRepository defines persistence operations for objectives.
type ObjectiveRepository interface {
	Create(ctx context.Context, o *domain.Objective) (*domain.Objective, error)
	FindByID(ctx context.Context, id string) (*domain.Objective, error)
	Update(ctx context.Context, o *domain.Objective) error
	Delete(ctx context.Context, id string) error
	// DeleteByUser removes every objective created by userID and returns
	// the number removed. Used by the cascading user delete.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	// List returns a page of objectives matching filter and the total count.
	List(ctx context.Context, filter ObjectiveFilter) ([]*domain.Objective, int64, error)
	// ListPending returns all objectives awaiting approval, newest first.
	ListPending(ctx context.Context) ([]*domain.Objective, error)
}
