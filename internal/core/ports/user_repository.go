package ports

import (
	"context"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
)

// UserFilter narrows user listings. Empty fields are not applied.
type UserFilter struct {
	Region string // "" or "ALL" = every region
	Role   string // optional: "Employee" or "Manager"
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
}
