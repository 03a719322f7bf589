package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"travelapi/internal/auth"
	"travelapi/internal/model"
	"travelapi/internal/repository"
)

// RegisterInput carries a sign-up request. Name defaults to Username.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Name     string
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// TokenIssuer signs bearer tokens for a user.
type TokenIssuer interface {
	Issue(u *model.User) (string, error)
}

// AuthService registers and authenticates users.
type AuthService interface {
	// Register creates a user and returns it with a fresh token.
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	// Login checks credentials and returns the user with a fresh token.
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	// dummyHash keeps the cost of a login for an unknown email close to a real one.
	dummyHash string
}

func NewAuthService(users repository.UserRepository, tokens TokenIssuer) AuthService {
	dummy, _ := auth.HashPassword(uuid.NewString())
	return &authService{users: users, tokens: tokens, dummyHash: dummy}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = in.Username
	}

	// The repository re-checks uniqueness, which settles concurrent sign-ups.
	user, err := s.users.Create(ctx, &model.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Name:         name,
	})
	if err != nil {
		return nil, translate(err)
	}

	return s.result(user)
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			auth.CheckPassword(s.dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.result(user)
}

func (s *authService) result(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}
