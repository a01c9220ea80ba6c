package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/recruitica/internal/infra/http/middleware"
	"github.com/xavierca1/recruitica/internal/usecase"
)

type ClientListHandler struct {
	Lists *usecase.ClientListsUseCase
}

func NewClientListHandler(uc *usecase.ClientListsUseCase) *ClientListHandler {
	return &ClientListHandler{Lists: uc}
}

// Create (POST /client-lists)
func (h *ClientListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateClientListInput
	if !decodeJSON(w, r, &input) {
		return
	}

	l, err := h.Lists.Create(r.Context(), middleware.UserID(r.Context()), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// List (GET /client-lists)
func (h *ClientListHandler) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.Lists.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lists": lists})
}

// Get (GET /client-lists/{listID})
func (h *ClientListHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.Lists.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "listID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}
