package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-api-sql/internal/domain"
	"github.com/go-api-sql/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string
	User  *domain.User
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type tokenSigner interface {
	Sign(userID, email string) (string, error)
}

type service struct {
	userRepo userStore
	signer   tokenSigner
}

func NewService(userRepo userStore, signer tokenSigner) Service {
	return &service{userRepo: userRepo, signer: signer}
}

// Login verifies the credentials and issues a session token. An unknown email
// and a wrong password both return the same unauthorized error so callers
// cannot probe which emails are registered.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Only a missing user maps to the uniform unauthorized error;
		// storage failures propagate untouched.
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	token, err := s.signer.Sign(u.UserID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{Token: token, User: u}, nil
}
