package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/recruitica/internal/infra/http/middleware"
	"github.com/xavierca1/recruitica/internal/usecase"
)

type ClientHandler struct {
	Directory *usecase.ClientDirectoryUseCase
}

func NewClientHandler(uc *usecase.ClientDirectoryUseCase) *ClientHandler {
	return &ClientHandler{Directory: uc}
}

// List (GET /client-lists/{listID}/clients)
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Directory.ListClients(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "listID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

// Search (GET /client-lists/{listID}/clients/search?q=)
func (h *ClientHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clients, err := h.Directory.Search(ctx, middleware.UserID(ctx), r.URL.Query().Get("q"), chi.URLParam(r, "listID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

// Add (POST /client-lists/{listID}/clients)
func (h *ClientHandler) Add(w http.ResponseWriter, r *http.Request) {
	var input usecase.AddClientInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.ListID = chi.URLParam(r, "listID")

	out, err := h.Directory.AddOrAttach(r.Context(), middleware.UserID(r.Context()), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// Batch (POST /client-lists/{listID}/clients/batch)
func (h *ClientHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var input usecase.BatchAttachInput
	if !decodeJSON(w, r, &input) {
		return
	}

	entries, err := h.Directory.BatchAttach(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "listID"), input.ClientIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"entries": entries})
}

// Toggle (PATCH /client-lists/{listID}/clients/{clientID}/toggle)
func (h *ClientHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	out, err := h.Directory.ToggleActive(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "clientID"), chi.URLParam(r, "listID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Remove (DELETE /client-lists/{listID}/clients/{clientID})
func (h *ClientHandler) Remove(w http.ResponseWriter, r *http.Request) {
	err := h.Directory.Remove(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "clientID"), chi.URLParam(r, "listID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
