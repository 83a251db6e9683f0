package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/msomdec/game-list/internal/domain"
)

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthService handles user registration, login, and identity resolution for
// authenticated requests.
type AuthService struct {
	users  domain.UserRepository
	tokens *TokenService
	hasher *PasswordHasher

	// dummyHash is compared against when the email is unknown so that a miss
	// costs one bcrypt comparison, the same as a wrong password.
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, tokens *TokenService, hasher *PasswordHasher) *AuthService {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		slog.Warn("could not precompute dummy password hash", "error", err)
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		dummyHash: dummy,
	}
}

// Register creates a new account and returns it with a freshly issued token.
func (s *AuthService) Register(ctx context.Context, in domain.RegisterInput) (*AuthResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	// Early exit before paying for a hash; the UNIQUE constraint still decides races.
	_, err := s.users.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, domain.ErrDuplicateEmail
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	slog.Info("user registered", "user_id", user.ID)

	return s.issue(user)
}

// Login verifies credentials and returns the user with a signed token. An
// unknown email and a wrong password produce the same ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, in domain.LoginInput) (*AuthResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.Verify(s.dummyHash, in.Password)
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, in.Password) {
		return nil, domain.ErrUnauthorized
	}

	return s.issue(user)
}

// VerifyToken checks a bearer token and returns its claims.
func (s *AuthService) VerifyToken(token string) (Claims, error) {
	return s.tokens.Verify(token)
}

// ValidateUser resolves the user behind a verified token. A user that no longer
// exists is ErrUnauthorized.
func (s *AuthService) ValidateUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(Claims{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
