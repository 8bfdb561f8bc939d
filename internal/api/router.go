package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skylive/airportal/internal/airports"
	"github.com/skylive/airportal/internal/config"
	"github.com/skylive/airportal/internal/snapshot"
	"github.com/skylive/airportal/internal/weather"
	"github.com/skylive/airportal/pkg/logger"
)

// Router builds the HTTP routing tree
type Router struct {
	handler *Handler
	config  *config.Config
	logger  *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(store *airports.Store, snapshotService *snapshot.Service, weatherService *weather.Service, cfg *config.Config, log *logger.Logger) *Router {
	return &Router{
		handler: NewHandler(store, snapshotService, weatherService, cfg, log),
		config:  cfg,
		logger:  log.Named("router"),
	}
}

// Routes returns the configured routing tree
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(rt.corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", rt.handler.GetHealth)
		r.Get("/airspace", rt.handler.GetAirspace)
		r.Route("/airports/{icao}", func(r chi.Router) {
			r.Get("/", rt.handler.GetAirport)
			r.Get("/live", rt.handler.GetAirportLive)
			r.Get("/snapshot", rt.handler.GetAirportSnapshot)
		})
	})

	if rt.config.Server.StaticFilesDir != "" {
		r.NotFound(NewStaticFileHandler(rt.config.Server.StaticFilesDir, rt.logger).ServeHTTP)
	}

	return r
}

// corsMiddleware applies the configured CORS policy
func (rt *Router) corsMiddleware(next http.Handler) http.Handler {
	allowed := rt.config.Server.CORSAllowedOrigins
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && len(allowed) > 0 {
			for _, candidate := range allowed {
				if candidate == "*" || candidate == origin {
					w.Header().Set("Access-Control-Allow-Origin", candidate)
					w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
					break
				}
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
