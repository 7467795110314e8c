package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	apihandler "github.com/docfold-labs/docfold/internal/api/handler"
	apimw "github.com/docfold-labs/docfold/internal/api/middleware"
	"github.com/docfold-labs/docfold/internal/auth"
	"github.com/docfold-labs/docfold/internal/ingestion"
	"github.com/docfold-labs/docfold/internal/store"
	minioclient "github.com/docfold-labs/docfold/internal/store/minio"
	"github.com/docfold-labs/docfold/internal/store/postgres"
)

// RouterDeps holds optional dependencies for the router.
type RouterDeps struct {
	Engine      *ingestion.Engine
	MinIO       *minioclient.Client
	Tokens      *auth.Tokens
	Sessions    *auth.SessionStore
	AuthEnabled bool
}

func NewRouter(logger *slog.Logger, s *store.Store, deps *RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apimw.Logger(logger))
	r.Use(apimw.CORS)
	r.Use(chimw.Recoverer)

	// Health checks
	health := apihandler.NewHealthHandler(s.Pool())
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	if deps == nil {
		deps = &RouterDeps{}
	}

	// Auth gates collapse to passthroughs when auth is disabled.
	requireAuth := passthrough
	requireRole := func(roles ...string) func(http.Handler) http.Handler { return passthrough }
	if deps.AuthEnabled && deps.Tokens != nil {
		requireAuth = auth.RequireAuth(deps.Tokens, logger)
		requireRole = auth.RequireRole
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if deps.Tokens != nil {
			ah := apihandler.NewAuthHandler(logger, s, deps.Tokens, deps.Sessions)
			r.Route("/auth", func(r chi.Router) {
				r.Post("/register", ah.Register)
				r.Post("/login", ah.Login)
				if deps.Sessions != nil {
					r.Post("/refresh", ah.Refresh)
					r.Post("/logout", ah.Logout)
					r.Post("/password-reset", ah.RequestPasswordReset)
					r.Post("/password-reset/confirm", ah.ResetPassword)
				}
			})
		}

		users := apihandler.NewUserHandler(logger, s)
		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth)
			r.With(requireRole(postgres.RoleAdmin)).Get("/", users.List)
			r.Route("/{userID}", func(r chi.Router) {
				r.With(requireRole(postgres.RoleAdmin)).Get("/", users.Get)
				r.With(requireRole(postgres.RoleAdmin)).Put("/role", users.UpdateRole)
				r.With(requireRole(postgres.RoleAdmin)).Delete("/", users.Delete)
			})
		})

		documents := apihandler.NewDocumentHandler(logger, s, deps.MinIO)
		r.Route("/documents", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", documents.List)
			r.With(requireRole(postgres.RoleEditor)).Post("/", documents.Create)
			if deps.MinIO != nil {
				r.With(requireRole(postgres.RoleEditor)).Post("/upload", documents.Upload)
			}
			r.Route("/{documentID}", func(r chi.Router) {
				r.Get("/", documents.Get)
				r.With(requireRole(postgres.RoleEditor)).Put("/", documents.Update)
				r.With(requireRole(postgres.RoleAdmin)).Delete("/", documents.Delete)
				if deps.MinIO != nil {
					r.Get("/download", documents.Download)
				}
			})
		})

		if deps.Engine != nil {
			ingest := apihandler.NewIngestionHandler(logger, deps.Engine)
			r.Route("/ingestion", func(r chi.Router) {
				// The webhook is called by an external processor, not a
				// logged-in user; it stays outside the auth gate.
				r.Post("/webhook", ingest.Webhook)

				r.Group(func(r chi.Router) {
					r.Use(requireAuth)
					r.With(requireRole(postgres.RoleEditor)).Post("/trigger", ingest.Trigger)
					r.Get("/processes", ingest.List)
					r.Get("/processes/{processID}", ingest.Get)
				})
			})
		}
	})

	return r
}

func passthrough(next http.Handler) http.Handler { return next }
