package main

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/functions"
	"github.com/xavierca1/recruitica/internal/infra/integration/llm"
	"github.com/xavierca1/recruitica/internal/usecase"
)

type stubAI struct{}

func (stubAI) Complete(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	return &llm.ChatResponse{Raw: []byte(`{"choices":[]}`)}, nil
}

func (stubAI) ListModels(ctx context.Context) ([]llm.Model, error) {
	return []llm.Model{{Value: "openai/gpt-4o", Label: "GPT-4o"}}, nil
}

func newApp() *app {
	log := zap.NewNop()
	svc := functions.NewService(usecase.NewAIProxyUseCase(stubAI{}, log), usecase.NewDocumentExtractionUseCase(nil, log), log)
	return &app{svc: svc, logger: log}
}

func request(path, sub, body string) events.APIGatewayV2HTTPRequest {
	req := events.APIGatewayV2HTTPRequest{RawPath: path, Body: body}
	req.RequestContext.HTTP.Method = http.MethodPost
	if sub != "" {
		req.RequestContext.Authorizer = &events.APIGatewayV2HTTPRequestContextAuthorizerDescription{
			JWT: &events.APIGatewayV2HTTPRequestContextAuthorizerJWTDescription{
				Claims: map[string]string{"sub": sub},
			},
		}
	}
	return req
}

func TestHandleRequiresSubClaim(t *testing.T) {
	resp, err := newApp().handle(t.Context(), request("/functions/get-openrouter-models", "", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
}

func TestHandleRoutesByLastSegment(t *testing.T) {
	a := newApp()

	resp, err := a.handle(t.Context(), request("/functions/get-openrouter-models", "user_1", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var models map[string][]llm.Model
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &models))
	assert.Len(t, models["models"], 1)

	resp, err = a.handle(t.Context(), request("/functions/extract-document-text", "user_1", `{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"File URL is required"}`, resp.Body)

	resp, err = a.handle(t.Context(), request("/functions/ai-generate", "user_1", `{"model":"m","messages":[{"role":"user","content":"hi"}]}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"choices":[]}`, resp.Body)

	resp, err = a.handle(t.Context(), request("/functions/nope", "user_1", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandlePreflight(t *testing.T) {
	req := request("/functions/ai-generate", "", "")
	req.RequestContext.HTTP.Method = http.MethodOptions
	resp, err := newApp().handle(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
