package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/infra/http/middleware"
	"github.com/xavierca1/recruitica/internal/usecase"
)

type DraftHandler struct {
	Generation *usecase.DraftGenerationUseCase
	Intro      *usecase.IntroGeneratorUseCase
	Refinement *usecase.EmailRefinementUseCase
	Finalize   *usecase.FinalizeUseCase
	Logger     *zap.Logger
}

func NewDraftHandler(
	generation *usecase.DraftGenerationUseCase,
	intro *usecase.IntroGeneratorUseCase,
	refinement *usecase.EmailRefinementUseCase,
	finalize *usecase.FinalizeUseCase,
	logger *zap.Logger,
) *DraftHandler {
	return &DraftHandler{
		Generation: generation,
		Intro:      intro,
		Refinement: refinement,
		Finalize:   finalize,
		Logger:     logger,
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if code := usecase.ErrorCode(err); code != "" {
		return strings.ToLower(code)
	}
	return "error"
}

// Generate (POST /candidates/{candidateID}/drafts)
func (h *DraftHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.Generation.Generate(ctx, middleware.UserID(ctx), chi.URLParam(r, "candidateID"))
	middleware.RecordWebhook("draft", outcome(err))
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.RecordDraftGenerated("automation")
	writeJSON(w, http.StatusCreated, session)
}

// Intro (POST /candidates/{candidateID}/intro)
func (h *DraftHandler) Intro(w http.ResponseWriter, r *http.Request) {
	var input usecase.IntroInput
	if !decodeJSON(w, r, &input) {
		return
	}

	ctx := r.Context()
	session, err := h.Intro.Generate(ctx, middleware.UserID(ctx), chi.URLParam(r, "candidateID"), input)
	middleware.RecordAIRequest("intro", outcome(err))
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.RecordDraftGenerated("intro")
	writeJSON(w, http.StatusCreated, session)
}

// Models (GET /drafts/models) never fails; it falls back to a fixed list.
func (h *DraftHandler) Models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"models": h.Refinement.Models(r.Context())})
}

// Get (GET /drafts/{draftID})
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.Generation.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "draftID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Preview (GET /drafts/{draftID}/preview) serves the sanitized HTML in a
// sandboxed document.
func (h *DraftHandler) Preview(w http.ResponseWriter, r *http.Request) {
	html, err := h.Refinement.Preview(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "draftID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", "sandbox")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

// Tune (POST /drafts/{draftID}/tune)
func (h *DraftHandler) Tune(w http.ResponseWriter, r *http.Request) {
	var input usecase.TuneInput
	if !decodeJSON(w, r, &input) {
		return
	}

	ctx := r.Context()
	session, err := h.Refinement.Tune(ctx, middleware.UserID(ctx), chi.URLParam(r, "draftID"), input)
	middleware.RecordAIRequest("tune", outcome(err))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Instruct (POST /drafts/{draftID}/instruct)
func (h *DraftHandler) Instruct(w http.ResponseWriter, r *http.Request) {
	var input usecase.InstructInput
	if !decodeJSON(w, r, &input) {
		return
	}

	ctx := r.Context()
	session, err := h.Refinement.Instruct(ctx, middleware.UserID(ctx), chi.URLParam(r, "draftID"), input)
	middleware.RecordAIRequest("instruct", outcome(err))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// FinalizeDraft (POST /drafts/{draftID}/finalize). An empty body finalizes
// the stored draft as is.
func (h *DraftHandler) FinalizeDraft(w http.ResponseWriter, r *http.Request) {
	var input usecase.FinalizeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body: "+err.Error())
		return
	}

	ctx := r.Context()
	out, err := h.Finalize.Execute(ctx, middleware.UserID(ctx), chi.URLParam(r, "draftID"), input)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.RecordFinalize(out.Mode, out.Delivered)
	writeJSON(w, http.StatusOK, out)
}
