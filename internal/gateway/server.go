package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(corsMiddleware(g.config.CORS))
	r.Use(g.metricsMiddleware)
	r.Use(authMiddleware(g.config.Auth))

	r.Route("/api/v1/interview", func(r chi.Router) {
		r.Use(sessionMiddleware)
		r.Post("/speak", g.handleSpeak())
		r.Post("/speak/audio", g.handleSpeakAudio())
		r.Post("/ask", g.handleAsk())
		r.Get("/questions", g.handleQuestions())
		r.Post("/reset", g.handleReset())
		r.Get("/info", g.handleInfo())
		r.Get("/health", g.handleHealth())
	})

	r.Get("/metrics", promhttp.HandlerFor(g.metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP)

	return r
}
