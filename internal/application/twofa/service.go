package twofa

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-api-sql/internal/domain"
	"github.com/go-api-sql/internal/infrastructure/totp"
)

const qrSize = 256

type Service interface {
	// Generate creates and stores a fresh TOTP secret for the user and
	// returns the provisioning QR code as a PNG data URI.
	Generate(ctx context.Context, email string) (qrDataURI string, err error)
	// Verify checks a submitted one-time code against the stored secret.
	Verify(ctx context.Context, email, code string) error
	// Status reports whether 2FA is enrolled. A missing user is ErrNotFound,
	// distinct from an existing user with no secret.
	Status(ctx context.Context, email string) (enabled bool, err error)
	// Disable clears the stored secret.
	Disable(ctx context.Context, email string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetTOTPSecret(ctx context.Context, email string, secret *string) error
}

type service struct {
	userRepo userStore
	totp     *totp.Manager
}

func NewService(userRepo userStore, manager *totp.Manager) Service {
	return &service{userRepo: userRepo, totp: manager}
}

func (s *service) Generate(ctx context.Context, email string) (string, error) {
	// Regeneration overwrites any previous secret; two concurrent calls are
	// last-write-wins on the UPDATE.
	enrollment, err := s.totp.Generate(email)
	if err != nil {
		return "", err
	}
	if err := s.userRepo.SetTOTPSecret(ctx, email, &enrollment.Secret); err != nil {
		return "", err
	}
	return enrollment.QRDataURI(qrSize)
}

func (s *service) Verify(ctx context.Context, email, code string) error {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Only a missing user reads as "not enrolled"; storage failures
		// propagate untouched.
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("2fa not enrolled: %w", domain.ErrBadRequest)
		}
		return err
	}
	if !u.TwoFAEnabled() {
		return fmt.Errorf("2fa not enrolled: %w", domain.ErrBadRequest)
	}
	if !s.totp.Verify(*u.TOTPSecret, code) {
		return fmt.Errorf("incorrect code: %w", domain.ErrUnauthorized)
	}
	return nil
}

func (s *service) Status(ctx context.Context, email string) (bool, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return u.TwoFAEnabled(), nil
}

func (s *service) Disable(ctx context.Context, email string) error {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !u.TwoFAEnabled() {
		return fmt.Errorf("2fa not enrolled: %w", domain.ErrBadRequest)
	}
	return s.userRepo.SetTOTPSecret(ctx, email, nil)
}
