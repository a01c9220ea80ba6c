package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/infra/http/middleware"
	"github.com/xavierca1/recruitica/internal/usecase"
)

const DefaultMaxUploadBytes = 10 << 20

type CandidateHandler struct {
	Intake         *usecase.CandidateIntakeUseCase
	MaxUploadBytes int64
	Logger         *zap.Logger
}

func NewCandidateHandler(uc *usecase.CandidateIntakeUseCase, maxUploadBytes int64, logger *zap.Logger) *CandidateHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &CandidateHandler{Intake: uc, MaxUploadBytes: maxUploadBytes, Logger: logger}
}

// State (GET /candidates/intake)
func (h *CandidateHandler) State(w http.ResponseWriter, r *http.Request) {
	st, err := h.Intake.State(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Submit (POST /candidates) takes multipart/form-data with candidate_name,
// client_list_id and an optional keynotes file.
func (h *CandidateHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorResponse(w, http.StatusRequestEntityTooLarge, usecase.CodeValidation, "keynotes file is too large")
			return
		}
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_FORM", "invalid multipart form: "+err.Error())
		return
	}

	input := usecase.SubmitCandidateInput{
		Name:   strings.TrimSpace(r.FormValue("candidate_name")),
		ListID: r.FormValue("client_list_id"),
	}

	file, header, err := r.FormFile("keynotes")
	switch {
	case err == nil:
		defer file.Close()
		body, err := io.ReadAll(file)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_FORM", "could not read keynotes file")
			return
		}
		input.File = &usecase.UploadedFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        body,
		}
	case errors.Is(err, http.ErrMissingFile):
	default:
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_FORM", err.Error())
		return
	}

	out, err := h.Intake.Submit(r.Context(), middleware.UserID(r.Context()), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// List (GET /candidates)
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Intake.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": cs})
}

// Latest (GET /candidates/latest)
func (h *CandidateHandler) Latest(w http.ResponseWriter, r *http.Request) {
	c, err := h.Intake.Latest(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Get (GET /candidates/{candidateID})
func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Intake.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "candidateID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
