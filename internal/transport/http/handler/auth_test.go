package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-api-sql/internal/application/auth"
	"github.com/go-api-sql/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*auth.LoginResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- tests ---

func TestLogin_Success(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, auth.LoginRequest{Email: "alice@example.com", Password: "hunter2hunter2"}).
		Return(&auth.LoginResult{
			Token: "signed-token",
			User:  &domain.User{UserID: "u1", Email: "alice@example.com"},
		}, nil)

	h := NewAuthHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/v1/login",
		strings.NewReader(`{"email":"alice@example.com","password":"hunter2hunter2"}`))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var envelope AuthEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	assert.Equal(t, "signed-token", envelope.Token)
	assert.Equal(t, "u1", envelope.User.UserID)
}

func TestLogin_InvalidCredentials_Uniform401(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized))

	h := NewAuthHandler(svc)

	// Wrong password and unknown email produce byte-identical responses.
	var bodies []string
	for _, payload := range []string{
		`{"email":"alice@example.com","password":"wrong-password"}`,
		`{"email":"nobody@example.com","password":"hunter2hunter2"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(payload))
		rr := httptest.NewRecorder()
		h.Login(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		bodies = append(bodies, rr.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1])
}

func TestLogin_BadBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthSvc{})
	req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(`{not json`))
	rr := httptest.NewRecorder()
	h.Login(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin_InternalErrorNotLeaked(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("pg: connection refused"))

	h := NewAuthHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/v1/login",
		strings.NewReader(`{"email":"alice@example.com","password":"hunter2hunter2"}`))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "connection refused")
}
