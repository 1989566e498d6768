package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

// AuthService implements signup and login with HS256 JWT issuance.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

var _ ports.AuthService = (*AuthService)(nil)

// Register creates a self-service account with the employee role. Email
// notifications default to on; the preference can be changed later.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if input.Region != "" && !domain.ValidRegion(input.Region) {
		return nil, fmt.Errorf("%w: unknown region %q", domain.ErrInvalidInput, input.Region)
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if input.ManagerID != "" {
		if _, err := s.users.FindByID(ctx, input.ManagerID); err != nil {
			return nil, fmt.Errorf("manager: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:              email,
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Role:               domain.RoleEmployee,
		Region:             input.Region,
		ManagerID:          input.ManagerID,
		PasswordHash:       string(hash),
		EmailNotifications: true,
		CreatedAt:          time.Now().UTC(),
	}

	return s.users.Create(ctx, user)
}

// Login verifies the password and returns a signed token with the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
