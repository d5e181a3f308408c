package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"triforge-backend/infrastructure/config"
	"triforge-backend/interfaces/http/rest/handlers"
	"triforge-backend/interfaces/http/rest/middleware"
	"triforge-backend/pkg/auth"
	"triforge-backend/pkg/observability"
)

const apiVersion = "1.0.0"

// Handlers bundles the HTTP handlers the router mounts
type Handlers struct {
	Auth          *handlers.AuthHandler
	Documentation *handlers.DocumentationHandler
	Diagram       *handlers.DiagramHandler
	Code          *handlers.CodeHandler
	Conversation  *handlers.ConversationHandler
	Requirements  *handlers.RequirementsHandler
	Project       *handlers.ProjectHandler
	Jira          *handlers.JiraHandler
}

// Router creates and configures the HTTP router
type Router struct {
	cfg      *config.Config
	handlers Handlers
	tokens   *auth.JWTService
	limiter  auth.RateLimiter
	tracer   *observability.Tracer
	logger   *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	h Handlers,
	tokens *auth.JWTService,
	limiter auth.RateLimiter,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:      cfg,
		handlers: h,
		tokens:   tokens,
		limiter:  limiter,
		tracer:   tracer,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Tracing(rt.tracer))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		// Token endpoints. Rate limited by client IP since there is no
		// identity yet.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(rt.limiter, rt.logger))
			r.Post("/auth/login", rt.handlers.Auth.Login)
			r.Post("/auth/refresh", rt.handlers.Auth.Refresh)
		})

		// Session endpoints require a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(rt.tokens, rt.logger))
			r.Post("/auth/logout", rt.handlers.Auth.Logout)
			r.Get("/auth/me", rt.handlers.Auth.Me)
			r.Post("/auth/validate", rt.handlers.Auth.Validate)
		})

		// Generation and registry endpoints work with or without a token.
		// A bearer identity pins the conversation; anonymous callers pass
		// user_id explicitly or get a fresh one.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(rt.tokens))
			r.Use(middleware.RateLimit(rt.limiter, rt.logger))

			r.Route("/documentation", func(r chi.Router) {
				r.Post("/generate", rt.handlers.Documentation.GenerateStories)
				r.Post("/modify", rt.handlers.Documentation.ModifyStories)
			})

			r.Route("/diagrams", func(r chi.Router) {
				r.Post("/generate", rt.handlers.Diagram.Generate)
				r.Post("/modify", rt.handlers.Diagram.Modify)
			})

			r.Route("/code", func(r chi.Router) {
				r.Post("/generate", rt.handlers.Code.Generate)
				r.Post("/modify", rt.handlers.Code.Modify)
			})

			r.Route("/requirements", func(r chi.Router) {
				r.Post("/refine", rt.handlers.Requirements.Refine)
				r.Post("/analyze", rt.handlers.Requirements.Analyze)
			})

			r.Post("/conversation", rt.handlers.Conversation.Converse)

			r.Route("/projects", func(r chi.Router) {
				r.Post("/generate", rt.handlers.Project.Generate)
				r.Get("/", rt.handlers.Project.List)
				r.Get("/{projectID}", rt.handlers.Project.Get)
				r.Get("/{projectID}/download", rt.handlers.Project.Download)
				r.Delete("/{projectID}", rt.handlers.Project.Delete)
			})

			r.Route("/jira", func(r chi.Router) {
				r.Post("/validate", rt.handlers.Jira.Validate)
				r.Post("/upload", rt.handlers.Jira.Upload)
				r.Get("/stories", rt.handlers.Jira.GetStories)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","message":"TriForge backend is running","version":"` + apiVersion + `"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
