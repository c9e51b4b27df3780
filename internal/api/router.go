package api

import (
	"net/http"

	"github.com/dom/worldcup-stats/internal/api/handlers"
	"github.com/dom/worldcup-stats/internal/api/middleware"
	"github.com/dom/worldcup-stats/internal/config"
	"github.com/dom/worldcup-stats/internal/service"
	"github.com/dom/worldcup-stats/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(services.Catalog)
	radarHandler := handlers.NewRadarHandler(services.Radar)
	scatterHandler := handlers.NewScatterHandler(services.Scatter)
	wsHandler := handlers.NewWebSocketHandler(hub, cfg.CORSOrigins)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/years", func(r chi.Router) {
			r.Get("/", catalogHandler.Years)
			r.Get("/{year}/teams", catalogHandler.Teams)
			r.Get("/{year}/teams/{team}/players", catalogHandler.Players)
			r.Get("/{year}/teams/{team}/players/{filename}", catalogHandler.PlayerStats)
			r.Get("/{year}/teams/{team}/stats", catalogHandler.TeamStats)
		})

		r.Get("/search", catalogHandler.Search)
		r.Get("/population", catalogHandler.Population)
		r.Get("/schemas/{position}", radarHandler.Schema)

		r.Post("/radar", radarHandler.Compare)
		r.Post("/scatter", scatterHandler.Points)

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
