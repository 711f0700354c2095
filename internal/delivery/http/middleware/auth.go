package middleware

import (
	"errors"
	"net/http"
	"strings"

	"darion/internal/application/access"
	"darion/internal/delivery/http/handler"
	domain "darion/internal/domain/access"
)

// Auth middleware validates the access token when one is configured
func Auth(accessService access.Service) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !accessService.Enabled() || r.Method == http.MethodOptions {
				next(w, r)
				return
			}

			err := accessService.Validate(extractToken(r))
			switch {
			case errors.Is(err, domain.ErrTokenRequired):
				handler.SendError(w, "Authorization required", http.StatusUnauthorized)
				return
			case err != nil:
				handler.SendError(w, "Invalid access token", http.StatusUnauthorized)
				return
			}

			next(w, r)
		}
	}
}

func extractToken(r *http.Request) string {
	// Check Authorization header
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if token := r.Header.Get("X-Access-Token"); token != "" {
		return token
	}

	return ""
}
