package ports

import (
	"context"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
)

// CreateUserInput is the manager-side "add user" operation.
type CreateUserInput struct {
	ActorID   string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Position  string
	Role      string
	Region    string
	ManagerID string
}

// UpdateUserInput edits a profile. Users may edit themselves; managers may
// edit anyone including role and manager assignment.
type UpdateUserInput struct {
	ActorID   string
	UserID    string
	FirstName string
	LastName  string
	Position  string
	Region    string
	ManagerID string
	Role      string // manager only
	Password  string // optional: reset
}

// UserService defines user administration operations.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, input UpdateUserInput) (*domain.User, error)
	// Delete removes a user and cascades deletion of their objectives.
	// Manager only; self-deletion is forbidden.
	Delete(ctx context.Context, userID, actorID string) error
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	// SetEmailNotifications flips the persisted notification preference.
	SetEmailNotifications(ctx context.Context, userID string, enabled bool) error
}
