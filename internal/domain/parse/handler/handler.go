// Package handler exposes the parse service over HTTP. The core packages
// stay transport-free; this is the only place requests and responses exist.
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/FACorreiaa/invoice-parser/internal/domain/export"
	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/repository"
	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/service"
)

const maxDocumentBytes = 4 << 20

// Handler serves parse requests.
type Handler struct {
	svc    *service.Service
	repo   repository.DocumentRepository // nil when persistence is disabled
	logger *slog.Logger
}

// NewHandler creates the HTTP handler.
func NewHandler(svc *service.Service, repo repository.DocumentRepository, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, repo: repo, logger: logger}
}

// Routes returns the handler's route table.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/parse", h.parseDocument)
	mux.HandleFunc("POST /v1/parse/export", h.exportDocument)
	mux.HandleFunc("GET /v1/documents/{id}", h.getDocument)
	mux.HandleFunc("GET /v1/documents/{id}/entries", h.listEntries)
	return mux
}

// parseDocument accepts a plain-text statement body and returns the parse
// record plus verdict. Invalid documents are still 200s: the verdict is the
// result, not an error.
func (h *Handler) parseDocument(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.txt"
	}

	body := http.MaxBytesReader(w, r.Body, maxDocumentBytes)
	result, err := h.svc.ParseDocument(r.Context(), name, body)
	if err != nil {
		h.logger.Error("parse request failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to parse document")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// exportDocument parses the body like parseDocument, then returns the record
// as CSV or XLSX instead of JSON. Only structurally valid documents can be
// exported. The file is rendered into a buffer before the status line goes
// out, so a render failure is a clean 500 rather than a truncated 200.
func (h *Handler) exportDocument(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.txt"
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	body := http.MaxBytesReader(w, r.Body, maxDocumentBytes)
	result, err := h.svc.ParseDocument(r.Context(), name, body)
	if err != nil {
		h.logger.Error("parse request failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to parse document")
		return
	}
	if !result.Verdict.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "document is not structurally valid")
		return
	}

	var buf bytes.Buffer
	var contentType string
	switch format {
	case "csv":
		contentType = "text/csv"
		err = export.WriteCSV(result.Record, &buf)
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = export.WriteXLSX(result.Record, &buf)
	default:
		writeError(w, http.StatusBadRequest, "unsupported export format")
		return
	}
	if err != nil {
		h.logger.Error("export failed", slog.String("format", format), slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to render export")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusNotImplemented, "persistence is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	doc, err := h.repo.GetDocument(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		h.logger.Error("get document failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to load document")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusNotImplemented, "persistence is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	entries, err := h.repo.ListEntries(r.Context(), id)
	if err != nil {
		h.logger.Error("list entries failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to load entries")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
