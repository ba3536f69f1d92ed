package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"keyword-mapping-service/internal/config"
	"keyword-mapping-service/internal/fileio"
	mapHnd "keyword-mapping-service/internal/mapping/handler"
	"keyword-mapping-service/internal/middleware"
	"keyword-mapping-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	// one cache for all uploads; each mapping run still builds its own index
	cache := fileio.NewCache(cfg.CacheTTL)

	r.Post("/preview", mapHnd.Preview(cfg, logger, cache))
	r.Post("/map", mapHnd.Map(cfg, logger, cache))
	r.Post("/map/export", mapHnd.Export(cfg, logger, cache))

	return r
}
