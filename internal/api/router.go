package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mentari-platform/mentari/internal/database"
	mw "github.com/mentari-platform/mentari/internal/middleware"
	inats "github.com/mentari-platform/mentari/internal/nats"
)

// HandlerSet holds handler functions injected from main.go to avoid import cycles.
type HandlerSet struct {
	// Auth handlers
	Register http.HandlerFunc
	Login    http.HandlerFunc
	Refresh  http.HandlerFunc
	Logout   http.HandlerFunc
	Me       http.HandlerFunc

	// Chat handlers
	Chat       http.HandlerFunc
	ChatStream http.HandlerFunc

	// Learning handlers
	Topics      http.HandlerFunc
	Progress    http.HandlerFunc
	QuotaStatus http.HandlerFunc

	// AuthMiddleware rejects anonymous requests; OptionalAuth attaches
	// claims when a token is present.
	AuthMiddleware func(http.Handler) http.Handler
	OptionalAuth   func(http.Handler) http.Handler

	// RedisHealthy reports Redis reachability for the readiness probe.
	RedisHealthy func(ctx context.Context) error
	// XMPPConnected is nil when the XMPP component is disabled.
	XMPPConnected func() bool
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
	AuthRateLimiter    func(http.Handler) http.Handler
}

func NewRouter(pool *pgxpool.Pool, natsClient *inats.Client, cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	// Liveness probe, no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	readinessHandler := func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{
			"status":   "healthy",
			"database": "healthy",
			"redis":    "healthy",
			"nats":     "healthy",
		}

		status := http.StatusOK
		degrade := func(component, state string) {
			health[component] = state
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		if err := database.HealthCheck(r.Context(), pool); err != nil {
			degrade("database", "unhealthy")
		}

		// Redis failures are reported but do not fail readiness.
		if h.RedisHealthy == nil {
			health["redis"] = "not configured"
		} else if err := h.RedisHealthy(r.Context()); err != nil {
			health["redis"] = "unhealthy"
		}

		if natsClient == nil {
			health["nats"] = "not configured"
		} else if !natsClient.Healthy() {
			degrade("nats", "unhealthy")
		}

		// The component reconnects on its own; a dropped stream is reported only.
		if h.XMPPConnected != nil {
			health["xmpp"] = "connected"
			if !h.XMPPConnected() {
				health["xmpp"] = "disconnected"
			}
		}

		JSON(w, status, health)
	}

	r.Get("/health/ready", readinessHandler)
	r.Get("/health", readinessHandler)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public), optionally rate-limited
		r.Route("/auth", func(r chi.Router) {
			if cfg.AuthRateLimiter != nil {
				r.Use(cfg.AuthRateLimiter)
			}
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/refresh", h.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(h.AuthMiddleware)
				r.Post("/logout", h.Logout)
				r.Get("/me", h.Me)
			})
		})

		// Chat works anonymously; a token ties the turn to a learner.
		r.Route("/chat", func(r chi.Router) {
			r.Use(h.OptionalAuth)
			r.Post("/", h.Chat)
			r.Get("/ws", h.ChatStream)
		})

		r.Get("/topics", h.Topics)

		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Get("/progress", h.Progress)
			r.Get("/quota", h.QuotaStatus)
		})
	})

	return r
}
