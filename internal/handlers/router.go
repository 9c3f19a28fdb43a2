package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mafia/internal/config"
	localMiddleware "mafia/internal/middleware"
)

// RouterOptions allows customization of router setup for tests.
type RouterOptions struct {
	DisableRateLimiting  bool
	DisableRequestLogger bool
	CustomMiddleware     []func(http.Handler) http.Handler
}

// SetupRouter creates the application router with all routes and middleware.
func SetupRouter(h *Handler, cfg *config.ServerConfig, opts *RouterOptions) *chi.Mux {
	if opts == nil {
		opts = &RouterOptions{}
	}

	r := chi.NewRouter()

	if !opts.DisableRequestLogger {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	r.Use(localMiddleware.RequestSizeLimiter(cfg.Server.MaxRequestSize))
	r.Use(localMiddleware.SecurityHeaders())

	if !opts.DisableRateLimiting {
		rateLimiter := localMiddleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitBurst)
		r.Use(rateLimiter.Middleware())
	}

	for _, mw := range opts.CustomMiddleware {
		r.Use(mw)
	}

	// Lobby
	r.Post("/room/new", h.CreateRoom)
	r.Post("/room/{code}/join", h.JoinRoom)
	r.Post("/room/{code}/leave", h.LeaveRoom)
	r.Post("/room/{code}/ready", h.SetReady)
	r.Post("/room/{code}/kick", h.KickPlayer)
	r.Post("/room/{code}/settings", h.UpdateSettings)
	r.Post("/room/{code}/start", h.StartGame)

	// Game loop
	r.Post("/room/{code}/night", h.SubmitNightAction)
	r.Post("/room/{code}/night/resolve", h.ResolveNight)
	r.Post("/room/{code}/vote/start", h.StartVote)
	r.Post("/room/{code}/vote", h.SubmitVote)
	r.Post("/room/{code}/vote/resolve", h.ResolveVote)

	// Projections
	r.Get("/room/{code}", h.GetRoom)
	r.Get("/room/{code}/qr", h.RoomQR)
	r.Get("/sse/room/{code}", h.StreamRoom)

	// Health check endpoints
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
