package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"suggestbox/pkg/config"
	"suggestbox/pkg/logger"
	"suggestbox/pkg/utils"
)

// Identity is the verified claim set carried by a bearer token.
type Identity struct {
	Nickname string
	Subject  string
}

// Claims is the token payload the gate understands. Nickname is the display
// name the OAuth provider puts in its tokens; everything else is standard.
type Claims struct {
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

type ctxIdentityKey struct{}

// RequireIdentity verifies the Authorization bearer token on protected
// routes and injects the verified identity into the request context.
// A missing token yields 401; a token that fails signature, expiry or
// claim checks yields 403. When an admin allow-list is configured the
// identity's nickname must be on it.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			logger.Warn("missing_access_token", "path", r.URL.Path, "remote", r.RemoteAddr)
			utils.JSONError(w, http.StatusUnauthorized, "access token required")
			return
		}

		secret := config.GetJWTSecret()
		if secret == "" {
			logger.Error("no_token_secret_configured")
			utils.JSONError(w, http.StatusInternalServerError, "server misconfigured: no token secret available")
			return
		}

		var claims Claims
		_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			logger.Warn("token_verification_failed", "path", r.URL.Path, "error", err)
			utils.JSONError(w, http.StatusForbidden, "invalid or expired token")
			return
		}

		id := Identity{Nickname: claims.Nickname, Subject: claims.Subject}

		// Server-side admin check. With an empty allow-list any valid
		// identity passes; startup warns about that mode.
		if config.AdminsConfigured() && !config.IsAdmin(id.Nickname) {
			logger.Warn("identity_not_admin", "nickname", id.Nickname, "path", r.URL.Path)
			utils.JSONError(w, http.StatusForbidden, "forbidden")
			return
		}

		logger.Debug("token_verified", "nickname", id.Nickname, "path", r.URL.Path)
		ctx := context.WithValue(r.Context(), ctxIdentityKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the verified identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxIdentityKey{}).(Identity)
	return v, ok
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header, or returns empty.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
