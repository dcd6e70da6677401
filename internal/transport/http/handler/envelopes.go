package handler

import (
	"encoding/json"
	"net/http"

	"github.com/harshpatel9469/medoh-v2-sub002/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// VerifyEnvelope wraps OTP verification responses.
type VerifyEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// PageEnvelope wraps single-page responses.
type PageEnvelope struct {
	Page  *domain.PrivatePage `json:"page,omitempty"`
	Error string              `json:"error,omitempty"`
}

// ChallengeEnvelope wraps the OTP challenge payload served to the
// hydrated client: the page being unlocked and a masked phone hint.
type ChallengeEnvelope struct {
	PageID    string `json:"page_id"`
	PhoneHint string `json:"phone_hint,omitempty"`
}

// URLEnvelope wraps presigned-URL responses.
type URLEnvelope struct {
	URL string `json:"url"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
