package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	otpapp "github.com/harshpatel9469/medoh-v2-sub002/internal/application/otp"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/domain"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/transport/http/middleware"
)

// OTPHandler handles the OTP challenge endpoints. Field names in the
// request bodies match what the portal client has always sent.
type OTPHandler struct {
	svc          otpapp.Service
	cookieMaxAge time.Duration
}

func NewOTPHandler(svc otpapp.Service, cookieMaxAge time.Duration) *OTPHandler {
	return &OTPHandler{svc: svc, cookieMaxAge: cookieMaxAge}
}

// Send issues a fresh code for the phone number and texts it out.
// Repeat calls re-send and invalidate earlier codes.
func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.Issue(r.Context(), body.PhoneNumber); err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to send OTP", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to send OTP")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent successfully"})
}

// Verify checks the submitted code and, on success, sets the
// otp-verified cookie the Guard reads. A wrong code and a never-issued
// code both answer 400 with the same body.
func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PhoneNumber string `json:"phoneNumber"`
		Code        string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, VerifyEnvelope{Success: false, Message: "invalid request body"})
		return
	}

	if err := h.svc.Verify(r.Context(), body.PhoneNumber, body.Code); err != nil {
		writeJSON(w, http.StatusBadRequest, VerifyEnvelope{Success: false, Message: "Invalid OTP"})
		return
	}

	// Not HttpOnly: the hydrated client reads the flag to drive its own
	// post-verification redirect.
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.OTPVerifiedCookie,
		Value:    "true",
		Path:     "/",
		MaxAge:   int(h.cookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, VerifyEnvelope{Success: true})
}
