// Package rest serves the character boundary over HTTP with chi
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterConfig holds the dependencies of the HTTP router
type RouterConfig struct {
	Handler        *CharacterHandler
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter mounts the character routes:
//
//	GET    /api/characters?roomId=
//	POST   /api/characters
//	PUT    /api/characters/{characterId}
//	DELETE /api/characters/{characterId}?roomId=
//	POST   /api/sync
//	GET    /healthz
func NewRouter(cfg RouterConfig) http.Handler {
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(WithRequestLogging(l.Named("http")))
	r.Use(chiMiddleware.Recoverer)
	r.Use(CORS(cfg.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/characters", func(r chi.Router) {
			r.Get("/", cfg.Handler.List)
			r.With(chiMiddleware.AllowContentType("application/json")).Post("/", cfg.Handler.Save)
			r.With(chiMiddleware.AllowContentType("application/json")).Put("/{characterId}", cfg.Handler.Update)
			r.Delete("/{characterId}", cfg.Handler.Delete)
		})
		r.With(chiMiddleware.AllowContentType("application/json")).Post("/sync", cfg.Handler.Sync)
	})

	return r
}
