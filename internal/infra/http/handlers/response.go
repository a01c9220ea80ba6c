package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/recruitica/internal/usecase"
)

var statusByCode = map[string]int{
	usecase.CodeValidation:        http.StatusBadRequest,
	usecase.CodeNoClientLists:     http.StatusConflict,
	usecase.CodeDuplicateInList:   http.StatusConflict,
	usecase.CodeNotFound:          http.StatusNotFound,
	usecase.CodeStoreError:        http.StatusInternalServerError,
	usecase.CodeNetworkError:      http.StatusBadGateway,
	usecase.CodeTimedOut:          http.StatusGatewayTimeout,
	usecase.CodeUnrecognizedShape: http.StatusBadGateway,
	usecase.CodeAIProxyError:      http.StatusBadGateway,
}

type ErrorResponse struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeError maps a usecase error to its status and body. Messages of
// store errors pass through unmodified.
func writeError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeJSON(w, statusFor(de.Code), ErrorResponse{Error: de.Code, Message: de.Message, Fields: de.Fields})
		return
	}
	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		writeErrorResponse(w, statusFor(te.Code), te.Code, te.Message)
		return
	}
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}

func statusFor(code string) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
