package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/angelmondragon/boq-builder/pkg/config"
)

// CORS applies the configured origin policy for browser clients.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id", "X-Requested-With"},
		ExposedHeaders: []string{"X-Request-Id", "X-BOQ-Env"},
		MaxAge:         cfg.MaxAge,
	}).Handler
}
