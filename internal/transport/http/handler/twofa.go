package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-api-sql/internal/application/twofa"
)

// TwoFAHandler handles TOTP enrollment, verification and status endpoints.
type TwoFAHandler struct {
	svc twofa.Service
}

func NewTwoFAHandler(svc twofa.Service) *TwoFAHandler { return &TwoFAHandler{svc: svc} }

type twoFARequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func decodeTwoFA(w http.ResponseWriter, r *http.Request) (*twoFARequest, bool) {
	var req twoFARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return nil, false
	}
	return &req, true
}

func (h *TwoFAHandler) Generate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTwoFA(w, r)
	if !ok {
		return
	}
	qr, err := h.svc.Generate(r.Context(), req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TwoFAGenerateEnvelope{QR: qr})
}

func (h *TwoFAHandler) Verify(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTwoFA(w, r)
	if !ok {
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code required")
		return
	}
	if err := h.svc.Verify(r.Context(), req.Email, req.Code); err != nil {
		status, msg := statusFromErr(err)
		writeJSON(w, status, TwoFAVerifyEnvelope{Success: false, Message: msg})
		return
	}
	writeJSON(w, http.StatusOK, TwoFAVerifyEnvelope{Success: true})
}

func (h *TwoFAHandler) Status(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTwoFA(w, r)
	if !ok {
		return
	}
	enabled, err := h.svc.Status(r.Context(), req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TwoFAStatusEnvelope{Enabled: enabled})
}

func (h *TwoFAHandler) Disable(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTwoFA(w, r)
	if !ok {
		return
	}
	if err := h.svc.Disable(r.Context(), req.Email); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "2fa disabled"})
}
