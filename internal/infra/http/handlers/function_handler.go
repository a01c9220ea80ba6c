package handlers

import (
	"io"
	"net/http"

	"github.com/xavierca1/recruitica/internal/functions"
)

const maxFunctionBody = 1 << 20

// FunctionHandler exposes the serverless proxies over plain HTTP.
type FunctionHandler struct {
	Service *functions.Service
}

func NewFunctionHandler(svc *functions.Service) *FunctionHandler {
	return &FunctionHandler{Service: svc}
}

func (h *FunctionHandler) AIGenerate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxFunctionBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read request body"})
		return
	}
	writeFunction(w, h.Service.AIGenerate(r.Context(), body))
}

func (h *FunctionHandler) Models(w http.ResponseWriter, r *http.Request) {
	writeFunction(w, h.Service.Models(r.Context()))
}

func (h *FunctionHandler) ExtractText(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxFunctionBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read request body"})
		return
	}
	writeFunction(w, h.Service.ExtractText(r.Context(), body))
}

func writeFunction(w http.ResponseWriter, resp functions.Response) {
	body, err := resp.JSON()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	w.Write(body)
}
