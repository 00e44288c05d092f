package middleware

import (
	"github.com/go-chi/cors"
)

// NewCORS builds the CORS policy for the internal API. Only the CRUD layer
// is expected to call the engine, so the allowed origins come from config
// and the header list is limited to what the trigger endpoints accept.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			"X-API-Key",
		},
		ExposedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
