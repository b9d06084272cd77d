package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/internal/token"
)

type userRepoMock struct {
	mock.Mock
}

func (m *userRepoMock) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	var user *domain.User
	if value := args.Get(0); value != nil {
		user = value.(*domain.User)
	}
	return user, args.Error(1)
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if value := args.Get(0); value != nil {
		user = value.(*domain.User)
	}
	return user, args.Error(1)
}

func (m *userRepoMock) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	var created *domain.User
	if value := args.Get(0); value != nil {
		created = value.(*domain.User)
	}
	return created, args.Error(1)
}

func (m *userRepoMock) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type tokenStoreMock struct {
	mock.Mock
}

func (m *tokenStoreMock) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}

func (m *tokenStoreMock) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func newTestUseCase(users *userRepoMock, revoked *tokenStoreMock) *UseCase {
	return New(users, revoked, token.NewManager("test-secret", "taskdeck", 10*time.Minute), nil)
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	users := new(userRepoMock)
	users.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrUserNotFound).Once()
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		if u.Name != "Ann" || u.Email != "a@x.com" {
			return false
		}
		// Stored credential must be a hash of the submitted password.
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret1")) == nil
	})).Return(&domain.User{ID: "u1"}, nil).Once()

	uc := newTestUseCase(users, new(tokenStoreMock))
	require.NoError(t, uc.Register(context.Background(), "Ann", "a@x.com", "secret1"))
	users.AssertExpectations(t)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	t.Parallel()

	users := new(userRepoMock)
	users.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{ID: "u1", Email: "a@x.com"}, nil).Once()

	uc := newTestUseCase(users, new(tokenStoreMock))
	err := uc.Register(context.Background(), "Ann", "a@x.com", "secret1")
	require.Error(t, err)
	require.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
	require.EqualError(t, err, "Email already in use")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(userRepoMock)
	users.On("GetByEmail", mock.Anything, "a@x.com").
		Return(&domain.User{ID: "u1", Email: "a@x.com", Password: string(hashed)}, nil).Once()

	uc := newTestUseCase(users, new(tokenStoreMock))
	signed, err := uc.Login(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := token.NewManager("test-secret", "taskdeck", 10*time.Minute).Verify(signed)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
}

func TestLogin_FailureModesShareOneMessage(t *testing.T) {
	t.Parallel()

	hashed, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(userRepoMock)
	users.On("GetByEmail", mock.Anything, "known@x.com").
		Return(&domain.User{ID: "u1", Password: string(hashed)}, nil).Once()
	users.On("GetByEmail", mock.Anything, "unknown@x.com").
		Return(nil, domain.ErrUserNotFound).Once()

	uc := newTestUseCase(users, new(tokenStoreMock))

	_, wrongPassword := uc.Login(context.Background(), "known@x.com", "wrong")
	_, unknownEmail := uc.Login(context.Background(), "unknown@x.com", "whatever")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	require.EqualError(t, wrongPassword, unknownEmail.Error())
	require.True(t, domain.IsDomainError(wrongPassword, domain.ErrCodeUnauthorized))
	require.True(t, domain.IsDomainError(unknownEmail, domain.ErrCodeUnauthorized))
}

func TestGetUser_NotFound(t *testing.T) {
	t.Parallel()

	users := new(userRepoMock)
	users.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrUserNotFound).Once()

	uc := newTestUseCase(users, new(tokenStoreMock))
	_, err := uc.GetUser(context.Background(), "missing")
	require.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestLogout_RevokesUntilExpiry(t *testing.T) {
	t.Parallel()

	revoked := new(tokenStoreMock)
	revoked.On("Revoke", mock.Anything, "jti-1", mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 0 && ttl <= 10*time.Minute
	})).Return(nil).Once()

	uc := newTestUseCase(new(userRepoMock), revoked)

	manager := token.NewManager("test-secret", "taskdeck", 10*time.Minute)
	signed, err := manager.Issue("u1")
	require.NoError(t, err)
	claims, err := manager.Verify(signed)
	require.NoError(t, err)
	claims.ID = "jti-1"

	require.NoError(t, uc.Logout(context.Background(), claims))
	revoked.AssertExpectations(t)
}
