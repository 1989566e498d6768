package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

// UserService implements user administration. Deleting a user cascades to
// their objectives so no orphaned rows survive.
type UserService struct {
	users      ports.UserRepository
	objectives ports.ObjectiveRepository
	log        zerolog.Logger
}

func NewUserService(users ports.UserRepository, objectives ports.ObjectiveRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, objectives: objectives, log: log}
}

var _ ports.UserService = (*UserService)(nil)

// Create adds a user. Manager only. The email must be unused and a user
// can never be assigned as their own manager.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	actor, err := s.users.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsManager() {
		return nil, domain.ErrForbidden
	}

	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	}

	role := input.Role
	if role == "" {
		role = domain.RoleEmployee
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, input.Role)
	}
	if input.Region != "" && !domain.ValidRegion(input.Region) {
		return nil, fmt.Errorf("%w: unknown region %q", domain.ErrInvalidInput, input.Region)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:              email,
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Position:           input.Position,
		Role:               role,
		Region:             input.Region,
		ManagerID:          input.ManagerID,
		PasswordHash:       string(hash),
		EmailNotifications: true,
		CreatedAt:          time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	if created.ManagerID == created.ID {
		// The self-link can only be detected after the id is assigned.
		created.ManagerID = ""
		if err := s.users.Update(ctx, created); err != nil {
			return nil, err
		}
	}
	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Str("role", created.Role).Msg("user created")
	return created, nil
}

// Update edits a profile. Users may edit their own name, position, and
// region; managers may edit anyone and additionally change role and
// manager assignment.
func (s *UserService) Update(ctx context.Context, input ports.UpdateUserInput) (*domain.User, error) {
	actor, err := s.users.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}
	if actor.ID != input.UserID && !actor.IsManager() {
		return nil, domain.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Position != "" {
		user.Position = input.Position
	}
	if input.Region != "" {
		if !domain.ValidRegion(input.Region) {
			return nil, fmt.Errorf("%w: unknown region %q", domain.ErrInvalidInput, input.Region)
		}
		user.Region = input.Region
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if actor.IsManager() {
		if input.Role != "" {
			if !domain.ValidRole(input.Role) {
				return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, input.Role)
			}
			user.Role = input.Role
		}
		if input.ManagerID != "" {
			if input.ManagerID == user.ID {
				return nil, domain.ErrSelfManager
			}
			if _, err := s.users.FindByID(ctx, input.ManagerID); err != nil {
				return nil, fmt.Errorf("manager: %w", err)
			}
			user.ManagerID = input.ManagerID
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Str("actor_id", actor.ID).Msg("user updated")
	return user, nil
}

// Delete removes a user and all of their objectives. Manager only, and
// managers cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, userID, actorID string) error {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.IsManager() {
		return domain.ErrForbidden
	}
	if userID == actorID {
		return fmt.Errorf("%w: cannot delete own account", domain.ErrForbidden)
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}

	removed, err := s.objectives.DeleteByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("cascade objectives: %w", err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info().
		Str("user_id", userID).
		Str("actor_id", actorID).
		Int64("objectives_removed", removed).
		Msg("user deleted")
	return nil
}

// Get retrieves one user by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// List returns users matching the filter.
func (s *UserService) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	return s.users.List(ctx, filter)
}

// SetEmailNotifications persists the user's own email opt-in preference.
// It gates the email channel only; chat notices are unaffected.
func (s *UserService) SetEmailNotifications(ctx context.Context, userID string, enabled bool) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	user.EmailNotifications = enabled
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Bool("enabled", enabled).Msg("email notification preference updated")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
