package handler

import (
	"encoding/json"
	"net/http"

	pageapp "github.com/harshpatel9469/medoh-v2-sub002/internal/application/page"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/domain"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// DocumentHandler handles private-page document endpoints.
type DocumentHandler struct {
	svc pageapp.Service
}

func NewDocumentHandler(svc pageapp.Service) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req domain.UploadDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	d, err := h.svc.UploadDocument(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// ListByPage serves the gated document index for a page.
func (h *DocumentHandler) ListByPage(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.ListDocuments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// Download returns a time-limited presigned URL for the document.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.DocumentURL(r.Context(), chi.URLParam(r, "docID"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, URLEnvelope{URL: url})
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDocument(r.Context(), chi.URLParam(r, "docID")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "document deleted"})
}
