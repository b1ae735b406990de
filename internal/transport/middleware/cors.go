package middleware

import (
	"strings"

	"github.com/go-chi/cors"

	"github.com/opencivil/registry-backend/internal/config"
)

// CORS returns middleware that handles Cross-Origin Resource Sharing from
// the application configuration.
func CORS(cfg config.CORSConfig) Middleware {
	return cors.Handler(cors.Options{
		AllowedOrigins:   splitAndTrim(cfg.AllowedOrigins),
		AllowedMethods:   splitAndTrim(cfg.AllowedMethods),
		AllowedHeaders:   splitAndTrim(cfg.AllowedHeaders),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
