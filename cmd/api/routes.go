package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/oxyllium-leads/internal/bootstrap"
	"github.com/xavierca1/oxyllium-leads/internal/infra/http/handlers"
	"github.com/xavierca1/oxyllium-leads/internal/infra/http/middleware"
)

func newRouter(app *bootstrap.App) http.Handler {
	cfg := app.Config

	var queueStatus handlers.QueueStatus
	if app.Rabbit != nil {
		queueStatus = app.Rabbit
	}

	adminHandler := handlers.NewAdminHandler(app.ListLeads, app.GetLead, app.ApproveLead, app.RejectLead, app.ClientEmails, app.Log)
	intakeHandler := handlers.NewIntakeHandler(app.Intake, app.Log)
	healthHandler := handlers.NewHealthHandler(app.Store, cfg.Store.Driver, queueStatus, app.MSAds.Configured())
	limiter := middleware.NewIPRateLimiter(cfg.Server.AdminRatePerMinute, cfg.Server.AdminBurst)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	// Events arrive from the form platform's egress IPs and must always be acknowledged.
	r.Post("/submission-created", intakeHandler.Handle)

	r.Group(func(r chi.Router) {
		if cfg.Server.RequestTimeout > 0 {
			r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
		}
		r.Use(limiter.Handler)
		r.Use(middleware.BearerAuth(cfg.Admin.Password))
		r.Get("/api/leads", adminHandler.Handle)
		r.Post("/api/leads", adminHandler.Handle)
		r.Options("/api/leads", adminHandler.Handle)
	})

	return r
}
