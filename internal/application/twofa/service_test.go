package twofa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-api-sql/internal/domain"
	"github.com/go-api-sql/internal/infrastructure/totp"
	pqtotp "github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) SetTOTPSecret(ctx context.Context, email string, secret *string) error {
	return m.Called(ctx, email, secret).Error(0)
}

func enrolledUser(secret string) *domain.User {
	return &domain.User{UserID: "u1", Email: "alice@example.com", TOTPSecret: &secret}
}

// --- tests ---

func TestGenerate_StoresSecretAndReturnsQR(t *testing.T) {
	repo := &mockUserStore{}
	var stored *string
	repo.On("SetTOTPSecret", mock.Anything, "alice@example.com", mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(2).(*string) }).
		Return(nil)

	svc := NewService(repo, totp.NewManager("ViBa"))
	qr, err := svc.Generate(context.Background(), "alice@example.com")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))
	require.NotNil(t, stored)
	assert.NotEmpty(t, *stored)
}

func TestGenerate_UnknownEmail(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("SetTOTPSecret", mock.Anything, "nobody@example.com", mock.Anything).
		Return(domain.ErrNotFound)

	svc := NewService(repo, totp.NewManager("ViBa"))
	_, err := svc.Generate(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerify_ValidCode(t *testing.T) {
	manager := totp.NewManager("ViBa")
	e, err := manager.Generate("alice@example.com")
	require.NoError(t, err)

	repo := &mockUserStore{}
	repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(enrolledUser(e.Secret), nil)

	code, err := pqtotp.GenerateCode(e.Secret, time.Now().UTC())
	require.NoError(t, err)

	svc := NewService(repo, manager)
	assert.NoError(t, svc.Verify(context.Background(), "alice@example.com", code))
}

func TestVerify_WrongCode(t *testing.T) {
	manager := totp.NewManager("ViBa")
	e, err := manager.Generate("alice@example.com")
	require.NoError(t, err)

	repo := &mockUserStore{}
	repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(enrolledUser(e.Secret), nil)

	svc := NewService(repo, manager)
	err = svc.Verify(context.Background(), "alice@example.com", wrongCode(t, e.Secret))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// wrongCode returns a 6-digit code that is not valid for the secret in any
// time step near now, so the test cannot flake on a step boundary.
func wrongCode(t *testing.T, secret string) string {
	t.Helper()
	now := time.Now().UTC()
	valid := map[string]bool{}
	for step := -2; step <= 2; step++ {
		code, err := pqtotp.GenerateCode(secret, now.Add(time.Duration(step*totp.Period)*time.Second))
		require.NoError(t, err)
		valid[code] = true
	}
	for i := 0; ; i++ {
		candidate := fmt.Sprintf("%06d", i)
		if !valid[candidate] {
			return candidate
		}
	}
}

func TestVerify_NotEnrolled(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(&domain.User{UserID: "u1", Email: "alice@example.com"}, nil)

	svc := NewService(repo, totp.NewManager("ViBa"))
	err := svc.Verify(context.Background(), "alice@example.com", "123456")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestVerify_StoreFailure_IsNotBadRequest(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(nil, errors.New("connection refused"))

	svc := NewService(repo, totp.NewManager("ViBa"))
	err := svc.Verify(context.Background(), "alice@example.com", "123456")
	require.Error(t, err)
	// A storage outage is an internal failure, not an enrollment problem.
	assert.NotErrorIs(t, err, domain.ErrBadRequest)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerify_UnknownUser(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, domain.ErrNotFound)

	svc := NewService(repo, totp.NewManager("ViBa"))
	err := svc.Verify(context.Background(), "nobody@example.com", "123456")
	// Missing user reads as "not enrolled" on verification, same as the
	// empty-secret case.
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestStatus_Enrolled(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(enrolledUser("SECRET"), nil)

	svc := NewService(repo, totp.NewManager("ViBa"))
	enabled, err := svc.Status(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestStatus_NotEnrolled(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(&domain.User{UserID: "u1", Email: "alice@example.com"}, nil)

	svc := NewService(repo, totp.NewManager("ViBa"))
	enabled, err := svc.Status(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestStatus_UnknownUser_IsNotFoundNotDisabled(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, domain.ErrNotFound)

	svc := NewService(repo, totp.NewManager("ViBa"))
	_, err := svc.Status(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDisable_ClearsSecret(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(enrolledUser("SECRET"), nil)
	repo.On("SetTOTPSecret", mock.Anything, "alice@example.com", (*string)(nil)).Return(nil)

	svc := NewService(repo, totp.NewManager("ViBa"))
	require.NoError(t, svc.Disable(context.Background(), "alice@example.com"))
	repo.AssertExpectations(t)
}

func TestDisable_NotEnrolled(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(&domain.User{UserID: "u1", Email: "alice@example.com"}, nil)

	svc := NewService(repo, totp.NewManager("ViBa"))
	err := svc.Disable(context.Background(), "alice@example.com")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}
