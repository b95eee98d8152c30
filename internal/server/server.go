// Package server is the HTTP and WebSocket API surface.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/raysh454/seolens/internal/app"
	"github.com/raysh454/seolens/internal/logging"
	"github.com/raysh454/seolens/internal/observability"

	_ "github.com/raysh454/seolens/internal/server/docs" // registers the API spec with swag
)

// OwnerHeader carries the authenticated owner id, set by the upstream gateway.
const OwnerHeader = "X-Owner-ID"

type ctxKey int

const ownerKey ctxKey = iota

// Server routes requests to the orchestrator.
type Server struct {
	cfg          Config
	orchestrator *app.Orchestrator
	artifacts    http.Handler
	router       chi.Router
	upgrader     websocket.Upgrader
	logger       logging.Logger
}

// New builds the router. artifacts may be nil, in which case /artifacts is not
// served.
func New(cfg Config, orch *app.Orchestrator, artifacts http.Handler, logger logging.Logger) *Server {
	s := &Server{
		cfg:          cfg,
		orchestrator: orch,
		artifacts:    artifacts,
		router:       chi.NewRouter(),
		logger:       logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return cfg.AllowedOrigin == "*" || r.Header.Get("Origin") == "" || r.Header.Get("Origin") == cfg.AllowedOrigin
			},
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	r.Route("/v1/api", func(r chi.Router) {
		r.Get("/ping", s.handlePing)

		r.Route("/seo", func(r chi.Router) {
			r.Use(s.requireOwner)

			// Projects
			r.Get("/dashboard/project", s.handleDashboardTargets)
			r.Get("/projects/all", s.handleAllTargets)
			r.Get("/project/overview", s.handleTargetOverview)
			r.Post("/project/create", s.handleCreateTarget)
			r.Put("/project/{projectId}/active", s.handleSetTargetActive)

			// Audits
			r.Get("/audits/all", s.handleAllAudits)
			r.Get("/audits/{projectId}", s.handleTargetAudits)
			r.Get("/audit/overview", s.handleAuditOverview)
			r.Get("/audit/{projectId}", s.handleRunAudit)
			r.Post("/audit/{projectId}", s.handleRunAudit)

			// Jobs over REST
			r.Post("/audit/{projectId}/jobs", s.handleStartAuditJob)
			r.Get("/jobs", s.handleListJobs)
			r.Get("/jobs/{jobId}", s.handleGetJob)
			r.Delete("/jobs/{jobId}", s.handleCancelJob)

			// WebSocket for job progress
			r.Get("/ws/audit/{projectId}", s.handleAuditWS)

			// Comparisons
			r.Get("/compare/{projectId}", s.handleCompareCategories)
			r.Get("/compare/{projectId}/audits", s.handleCompareAudits)

			// Reports
			r.Get("/pdf/{id}", s.handlePDF)
			r.Post("/pdf/{id}/publish", s.handlePublishPDF)
		})
	})

	if s.artifacts != nil {
		r.Handle("/artifacts/*", http.StripPrefix("/artifacts", s.artifacts))
	}
	r.Handle("/metrics", observability.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AllowedOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.cfg.AllowedOrigin)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+OwnerHeader)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Max-Age", "86400")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireOwner rejects requests without an owner id.
func (s *Server) requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := r.Header.Get(OwnerHeader)
		if owner == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey, owner)))
	})
}

func ownerFrom(r *http.Request) string {
	owner, _ := r.Context().Value(ownerKey).(string)
	return owner
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.router.ServeHTTP(w, r)
	s.logger.Debug("http_request",
		logging.F("method", r.Method),
		logging.F("path", r.URL.Path),
		logging.F("owner_id", r.Header.Get(OwnerHeader)),
		logging.F("duration_ms", time.Since(start).Milliseconds()))
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      0, // audits and websockets stream for minutes
	}
}
