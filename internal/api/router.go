// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires the endpoint handlers into a chi mux.
type Router struct {
	handler    *Handler
	middleware *Middleware
}

// NewRouter creates a Router from its parts.
func NewRouter(handler *Handler, mw *Middleware) *Router {
	return &Router{handler: handler, middleware: mw}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(RequestIDWithLogging())          // X-Request-ID plus logging context
	r.Use(chimiddleware.RealIP)            // real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)         // panic recovery
	r.Use(router.middleware.CORS())        // global so OPTIONS preflight works

	// Health endpoints get permissive rate limiting so monitoring can
	// poll frequently.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.middleware.RateLimitCustom(RateLimitHealth))
		r.Use(SecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Job endpoints. Submission is rate limited more strictly than the
	// polling endpoints since it admits work into the queue.
	r.Route("/api/v1/jobs", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(PrometheusMetrics())

		r.With(router.middleware.RateLimitCustom(RateLimitSubmit)).Post("/", router.handler.SubmitJob)
		r.Get("/", router.handler.ListJobs)
		r.Get("/{id}", router.handler.GetJob)
		r.Get("/{id}/result", router.handler.GetJobResult)
	})

	// Prometheus scrape endpoint, no rate limiting.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
