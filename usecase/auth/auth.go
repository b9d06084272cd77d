package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/internal/token"
	"github.com/taskdeck/backend/repository"
)

const bcryptCost = 10

// UseCase owns registration, login, profile lookup and logout.
type UseCase struct {
	users   repository.UserRepository
	revoked repository.TokenStore
	tokens  *token.Manager
	logger  *zap.Logger
}

func New(users repository.UserRepository, revoked repository.TokenStore, tokens *token.Manager, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:   users,
		revoked: revoked,
		tokens:  tokens,
		logger:  logger,
	}
}

// Register hashes the password and persists a new account. A taken email
// is a conflict; no token is issued, the caller must log in separately.
func (uc *UseCase) Register(ctx context.Context, name, email, password string) error {
	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return domain.Internal(err, "Failed to register user")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return domain.Internal(err, "Failed to register user")
	}

	user := &domain.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	if _, err := uc.users.Create(ctx, user); err != nil {
		return domain.Internal(err, "Failed to register user")
	}

	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return nil
}

// Login verifies the credentials and issues a signed token. Unknown
// email and wrong password produce the same message so callers cannot
// probe which emails exist.
func (uc *UseCase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", domain.Internal(err, "Failed to login")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", domain.ErrInvalidCredentials
		}
		return "", domain.Internal(err, "Failed to login")
	}

	signed, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return "", domain.Internal(err, "Failed to login")
	}

	uc.logger.Info("user logged in", zap.String("user_id", user.ID))
	return signed, nil
}

// GetUser resolves the authenticated user's profile.
func (uc *UseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, err
		}
		return nil, domain.Internal(err, "Failed to get user")
	}
	return user, nil
}

// Logout shadows the presented token in the revocation store until its
// natural expiry.
func (uc *UseCase) Logout(ctx context.Context, claims *token.Claims) error {
	if claims == nil {
		return nil
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}

	if err := uc.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return domain.Internal(err, "Failed to logout")
	}
	return nil
}
