package ports

import (
	"context"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
)

// RegisterInput carries a signup request. Role defaults to Employee.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Region    string
	ManagerID string
}

// AuthService implements signup and login with JWT issuance.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
