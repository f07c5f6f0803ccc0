package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/slideforge/slideforge-backend/internal/handlers"
	"github.com/slideforge/slideforge-backend/internal/middleware"
)

func New(
	generateHandler *handlers.GenerateHandler,
	documentHandler *handlers.DocumentHandler,
	historyHandler *handlers.HistoryHandler,
	frontendURL string,
	generateRatePerMin int,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Model calls are the expensive path
	generateLimiter := middleware.NewRateLimiter(generateRatePerMin, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Generation Proxy ────
		r.Group(func(r chi.Router) {
			r.Use(generateLimiter.Middleware)
			r.Post("/generate", generateHandler.Generate)
		})

		// ──── Document Ingestion ────
		r.Route("/documents", func(r chi.Router) {
			r.Post("/normalize", documentHandler.Normalize)
			r.Get("/current", documentHandler.Current)
			r.Delete("/current", documentHandler.Clear)
		})

		// ──── History ────
		r.Route("/history", func(r chi.Router) {
			r.Post("/", historyHandler.Save)
			r.Get("/", historyHandler.List)
			r.Delete("/{id}", historyHandler.Delete)
		})
	})

	return r
}
