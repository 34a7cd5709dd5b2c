package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"suggestbox/pkg/config"
)

const testSecret = "test-secret"

func setRuntime(t *testing.T, admins ...string) {
	t.Helper()
	set := map[string]struct{}{}
	for _, a := range admins {
		set[a] = struct{}{}
	}
	config.SetRuntime(&config.RuntimeConfig{JWTSecret: testSecret, Admins: set})
}

func issueToken(t *testing.T, secret, nickname string, expiresIn time.Duration) string {
	t.Helper()
	claims := Claims{
		Nickname: nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func gatedEcho() http.Handler {
	return RequireIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(id.Nickname))
	}))
}

func doGet(t *testing.T, h http.Handler, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/suggestions", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	setRuntime(t)
	rr := doGet(t, gatedEcho(), "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestGarbageTokenIsForbidden(t *testing.T) {
	setRuntime(t)
	rr := doGet(t, gatedEcho(), "not.a.jwt")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestExpiredTokenIsForbidden(t *testing.T) {
	setRuntime(t)
	rr := doGet(t, gatedEcho(), issueToken(t, testSecret, "alice", -time.Hour))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestWrongSecretIsForbidden(t *testing.T) {
	setRuntime(t)
	rr := doGet(t, gatedEcho(), issueToken(t, "other-secret", "alice", time.Hour))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestValidTokenInjectsIdentity(t *testing.T) {
	setRuntime(t)
	rr := doGet(t, gatedEcho(), issueToken(t, testSecret, "alice", time.Hour))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	if rr.Body.String() != "alice" {
		t.Fatalf("expected nickname in context, got %q", rr.Body.String())
	}
}

func TestAdminAllowlistEnforced(t *testing.T) {
	setRuntime(t, "alice")

	rr := doGet(t, gatedEcho(), issueToken(t, testSecret, "bob", time.Hour))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("non-admin must be rejected, got %d", rr.Code)
	}

	rr = doGet(t, gatedEcho(), issueToken(t, testSecret, "alice", time.Hour))
	if rr.Code != http.StatusOK {
		t.Fatalf("admin must pass, got %d", rr.Code)
	}
}

func TestEmptyAllowlistAcceptsAnyValidIdentity(t *testing.T) {
	setRuntime(t)
	rr := doGet(t, gatedEcho(), issueToken(t, testSecret, "whoever", time.Hour))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected authenticate-only mode to pass, got %d", rr.Code)
	}
}

func TestNoSecretConfiguredIsServerError(t *testing.T) {
	config.SetRuntime(&config.RuntimeConfig{})
	rr := doGet(t, gatedEcho(), issueToken(t, testSecret, "alice", time.Hour))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on missing secret, got %d", rr.Code)
	}
}
