// Package functions implements the three serverless proxies independent of
// transport. The HTTP API and the Lambda entry point both call into it.
package functions

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/infra/http/middleware"
	"github.com/xavierca1/recruitica/internal/infra/integration/llm"
	"github.com/xavierca1/recruitica/internal/usecase"
)

// Response is a status code plus either a JSON-encodable body or raw JSON.
type Response struct {
	Status int
	Body   any
	Raw    []byte
}

func (r Response) JSON() ([]byte, error) {
	if r.Raw != nil {
		return r.Raw, nil
	}
	return json.Marshal(r.Body)
}

type Service struct {
	AI         *usecase.AIProxyUseCase
	Extraction *usecase.DocumentExtractionUseCase
	Logger     *zap.Logger
}

func NewService(ai *usecase.AIProxyUseCase, extraction *usecase.DocumentExtractionUseCase, logger *zap.Logger) *Service {
	return &Service{AI: ai, Extraction: extraction, Logger: logger}
}

type errorBody struct {
	Error string `json:"error"`
}

// AIGenerate forwards a chat completion and relays the gateway body as is.
func (s *Service) AIGenerate(ctx context.Context, body []byte) Response {
	var req llm.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return Response{Status: http.StatusBadRequest, Body: errorBody{"invalid JSON body"}}
	}

	resp, err := s.AI.Generate(ctx, req)
	if err != nil {
		middleware.RecordAIRequest("ai-generate", "error")
		status := http.StatusInternalServerError
		if usecase.IsDomainError(err) {
			status = http.StatusBadRequest
		}
		return Response{Status: status, Body: errorBody{err.Error()}}
	}

	middleware.RecordAIRequest("ai-generate", "ok")
	if len(resp.Raw) > 0 {
		return Response{Status: http.StatusOK, Raw: resp.Raw}
	}
	return Response{Status: http.StatusOK, Body: resp}
}

type modelsBody struct {
	Error  string      `json:"error,omitempty"`
	Models []llm.Model `json:"models"`
}

func (s *Service) Models(ctx context.Context) Response {
	models, err := s.AI.Models(ctx)
	if err != nil {
		return Response{Status: http.StatusInternalServerError, Body: modelsBody{Error: err.Error(), Models: []llm.Model{}}}
	}
	return Response{Status: http.StatusOK, Body: modelsBody{Models: models}}
}

type extractRequest struct {
	FileURL string `json:"fileUrl"`
}

type extractBody struct {
	Success  bool   `json:"success"`
	Text     string `json:"text"`
	FileType string `json:"fileType"`
}

type extractFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Service) ExtractText(ctx context.Context, body []byte) Response {
	var req extractRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return Response{Status: http.StatusBadRequest, Body: errorBody{"invalid JSON body"}}
	}

	out, err := s.Extraction.Extract(ctx, req.FileURL)
	if err != nil {
		if usecase.IsDomainError(err) {
			return Response{Status: http.StatusBadRequest, Body: errorBody{"File URL is required"}}
		}
		return Response{Status: http.StatusInternalServerError, Body: extractFailure{Success: false, Error: err.Error()}}
	}
	return Response{Status: http.StatusOK, Body: extractBody{Success: true, Text: out.Text, FileType: out.FileType}}
}
