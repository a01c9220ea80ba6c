package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/infra/http/middleware"
)

type RouterConfig struct {
	AuthUserHeader string
	AllowedOrigins []string
	Logger         *zap.Logger

	// Limiter guards the routes that spend AI or automation quota. Nil
	// disables limiting.
	Limiter *middleware.RateLimiter

	Health      *HealthHandler
	ClientLists *ClientListHandler
	Clients     *ClientHandler
	Candidates  *CandidateHandler
	Drafts      *DraftHandler
	Functions   *FunctionHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	limit := func(next http.Handler) http.Handler { return next }
	if cfg.Limiter != nil {
		limit = cfg.Limiter.Limit
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", cfg.AuthUserHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", cfg.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(cfg.AuthUserHeader))

		r.Route("/client-lists", func(r chi.Router) {
			r.Get("/", cfg.ClientLists.List)
			r.Post("/", cfg.ClientLists.Create)
			r.Route("/{listID}", func(r chi.Router) {
				r.Get("/", cfg.ClientLists.Get)
				r.Get("/clients", cfg.Clients.List)
				r.Get("/clients/search", cfg.Clients.Search)
				r.Post("/clients", cfg.Clients.Add)
				r.Post("/clients/batch", cfg.Clients.Batch)
				r.Patch("/clients/{clientID}/toggle", cfg.Clients.Toggle)
				r.Delete("/clients/{clientID}", cfg.Clients.Remove)
			})
		})

		r.Route("/candidates", func(r chi.Router) {
			r.Get("/", cfg.Candidates.List)
			r.Post("/", cfg.Candidates.Submit)
			r.Get("/intake", cfg.Candidates.State)
			r.Get("/latest", cfg.Candidates.Latest)
			r.Get("/{candidateID}", cfg.Candidates.Get)
			r.With(limit).Post("/{candidateID}/drafts", cfg.Drafts.Generate)
			r.With(limit).Post("/{candidateID}/intro", cfg.Drafts.Intro)
		})

		r.Route("/drafts", func(r chi.Router) {
			r.Get("/models", cfg.Drafts.Models)
			r.Get("/{draftID}", cfg.Drafts.Get)
			r.Get("/{draftID}/preview", cfg.Drafts.Preview)
			r.With(limit).Post("/{draftID}/tune", cfg.Drafts.Tune)
			r.With(limit).Post("/{draftID}/instruct", cfg.Drafts.Instruct)
			r.Post("/{draftID}/finalize", cfg.Drafts.FinalizeDraft)
		})

		r.Route("/functions", func(r chi.Router) {
			r.Use(limit)
			r.Post("/ai-generate", cfg.Functions.AIGenerate)
			r.Get("/get-openrouter-models", cfg.Functions.Models)
			r.Post("/get-openrouter-models", cfg.Functions.Models)
			r.Post("/extract-document-text", cfg.Functions.ExtractText)
		})
	})

	return r
}
