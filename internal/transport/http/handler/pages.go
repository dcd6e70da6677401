package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	pageapp "github.com/harshpatel9469/medoh-v2-sub002/internal/application/page"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/domain"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/pkg/validate"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// PageHandler handles private-page endpoints: the gated page payloads,
// the admin CRUD surface and the share-link flow.
type PageHandler struct {
	svc pageapp.Service
}

func NewPageHandler(svc pageapp.Service) *PageHandler {
	return &PageHandler{svc: svc}
}

func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreatePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	p, err := h.svc.Create(r.Context(), req, id.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, PageEnvelope{Page: p})
}

func (h *PageHandler) List(w http.ResponseWriter, r *http.Request) {
	pages, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

// Get serves the gated page payload. The Guard has already checked the
// otp-verified cookie by the time this runs.
func (h *PageHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PageEnvelope{Page: p})
}

func (h *PageHandler) Disable(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Disable(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "page disabled"})
}

// Challenge serves the OTP challenge payload. It sits under the /auth
// segment, so the Guard never gates it.
func (h *PageHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "id")
	env := ChallengeEnvelope{PageID: pageID}
	if p, err := h.svc.Get(r.Context(), pageID); err == nil {
		env.PhoneHint = maskPhone(p.Phone)
	}
	writeJSON(w, http.StatusOK, env)
}

// ShareLink texts the patient a link to the page's challenge URL.
func (h *PageHandler) ShareLink(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.ShareLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	err := h.svc.ShareLink(r.Context(), chi.URLParam(r, "id"), req, id.UserID, baseURL(r))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "page link sent"})
}

func (h *PageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	msgs, err := h.svc.ListMessages(r.Context(), id.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// baseURL reconstructs the externally visible origin from proxy headers,
// falling back to the Host header.
func baseURL(r *http.Request) string {
	host := r.Host
	if h := r.Header.Get("X-Forwarded-Host"); h != "" {
		host = h
	}
	proto := r.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		if strings.Contains(host, "localhost") {
			proto = "http"
		} else {
			proto = "https"
		}
	}
	return proto + "://" + host
}

// maskPhone keeps the last four digits: +1555***4567 style hints.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
