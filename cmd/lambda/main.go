// Command lambda serves the three function routes behind API Gateway. The
// gateway's JWT authorizer supplies the caller in the sub claim.
package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/config"
	"github.com/xavierca1/recruitica/internal/functions"
	"github.com/xavierca1/recruitica/internal/infra/integration/gemini"
	"github.com/xavierca1/recruitica/internal/infra/integration/llm"
	"github.com/xavierca1/recruitica/internal/infra/integration/openrouter"
	"github.com/xavierca1/recruitica/internal/infra/storage"
	"github.com/xavierca1/recruitica/internal/logger"
	"github.com/xavierca1/recruitica/internal/usecase"
)

var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
}

// CreateResponse wraps a function result for API Gateway.
func CreateResponse(resp functions.Response) (events.APIGatewayProxyResponse, error) {
	body, err := resp.JSON()
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"error": "Internal server error encoding response"}`,
			Headers:    corsHeaders,
		}, nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: resp.Status,
		Body:       string(body),
		Headers:    corsHeaders,
	}, nil
}

type app struct {
	svc    *functions.Service
	logger *zap.Logger
}

func (a *app) handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayProxyResponse, error) {
	if req.RequestContext.HTTP.Method == http.MethodOptions {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: "ok", Headers: corsHeaders}, nil
	}

	var claims map[string]string
	if req.RequestContext.Authorizer != nil && req.RequestContext.Authorizer.JWT != nil {
		claims = req.RequestContext.Authorizer.JWT.Claims
	}
	if claims["sub"] == "" {
		a.logger.Warn("no sub claim in authorizer context", zap.String("path", req.RawPath))
		return CreateResponse(functions.Response{
			Status: http.StatusUnauthorized,
			Body:   map[string]string{"error": "Unauthorized"},
		})
	}

	body := []byte(req.Body)
	switch name := req.RawPath[strings.LastIndex(req.RawPath, "/")+1:]; name {
	case "ai-generate":
		return CreateResponse(a.svc.AIGenerate(ctx, body))
	case "get-openrouter-models":
		return CreateResponse(a.svc.Models(ctx))
	case "extract-document-text":
		return CreateResponse(a.svc.ExtractText(ctx, body))
	default:
		return CreateResponse(functions.Response{
			Status: http.StatusNotFound,
			Body:   map[string]string{"error": "unknown function " + name},
		})
	}
}

func newService(ctx context.Context, cfg *config.Config, log *zap.Logger) (*functions.Service, error) {
	var (
		ai  llm.Completer
		err error
	)
	if cfg.AI.Provider == config.ProviderGemini {
		ai, err = gemini.NewClient(ctx, cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel, log)
		if err != nil {
			return nil, err
		}
	} else {
		ai = openrouter.NewClient(openrouter.Config{
			APIKey:   cfg.AI.APIKey,
			BaseURL:  cfg.AI.BaseURL,
			SiteURL:  cfg.AI.SiteURL,
			SiteName: cfg.AI.SiteName,
		}, log)
	}

	objects, err := storage.NewS3Store(ctx, storage.Config{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Bucket:          cfg.Storage.Bucket,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
	}, log)
	if err != nil {
		return nil, err
	}

	return functions.NewService(
		usecase.NewAIProxyUseCase(ai, log),
		usecase.NewDocumentExtractionUseCase(objects, log),
		log,
	), nil
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	log, err := logger.New(true, cfg.Debug)
	if err != nil {
		panic(err)
	}

	svc, err := newService(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("function setup failed", zap.Error(err))
	}

	a := &app{svc: svc, logger: log}
	lambda.Start(a.handle)
}
