package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-api-sql/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps login responses.
type AuthEnvelope struct {
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token,omitempty"`
	User    *domain.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// PaginatedUsersEnvelope wraps paginated user list responses.
type PaginatedUsersEnvelope struct {
	MaxPage    int           `json:"max_page"`
	ActualPage int           `json:"actual_page"`
	PerPage    int           `json:"per_page"`
	Data       []domain.User `json:"data"`
	Error      string        `json:"error,omitempty"`
}

// TwoFAGenerateEnvelope wraps 2FA enrollment responses.
type TwoFAGenerateEnvelope struct {
	QR    string `json:"qr,omitempty"`
	Error string `json:"error,omitempty"`
}

// TwoFAVerifyEnvelope wraps 2FA verification responses.
type TwoFAVerifyEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TwoFAStatusEnvelope wraps 2FA status responses.
type TwoFAStatusEnvelope struct {
	Enabled bool `json:"twofa_enabled"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// statusFromErr maps domain sentinel errors to HTTP status codes. Anything
// unrecognised is an internal error and its detail is not leaked.
func statusFromErr(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	status, msg := statusFromErr(err)
	writeError(w, status, msg)
}
