package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/firaghost/E-Learning-sub000/internal/service"
	"github.com/firaghost/E-Learning-sub000/pkg/health"
	"github.com/firaghost/E-Learning-sub000/pkg/middleware"
)

// RouterConfig holds the knobs the router needs beyond its dependencies.
type RouterConfig struct {
	ServiceName       string
	RateLimitRPS      int
	RateLimitBurst    int
	PprofAllowedCIDRs []string
}

// NewRouter creates a chi router with all reviews service routes registered.
func NewRouter(
	reviewService *service.ReviewService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Identity())

	// Health check and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Pprof debug endpoints, gated by an IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	reviewHandler := NewReviewHandler(reviewService, logger)
	mutationLimit := middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)

	// Course-scoped review endpoints
	r.Route("/api/v1/courses/{courseId}", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/reviews", reviewHandler.ListReviews)
		r.Get("/rating-stats", reviewHandler.GetRatingStats)
		r.Get("/my-review", reviewHandler.GetMyReview)

		r.With(mutationLimit).Post("/reviews", reviewHandler.SubmitReview)
	})

	// Review-scoped endpoints
	r.Route("/api/v1/reviews/{id}", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(mutationLimit)

		r.Put("/", reviewHandler.UpdateReview)
		r.Delete("/", reviewHandler.DeleteReview)
	})

	return r
}
