package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/prathvinaik206-create/farmdirect/internal/auth"
)

// RequireToken rejects requests without a valid bearer token and stores the
// verified claims on the request context.
func RequireToken(tokens *auth.TokenManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if header == "" || tokenString == header {
			unauthorized(w, "authorization header required")
			return
		}
		claims, err := tokens.Parse(tokenString)
		if err != nil {
			unauthorized(w, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
