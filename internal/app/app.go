package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"suggestbox/internal/retention"
	"suggestbox/pkg/banner"
	"suggestbox/pkg/config"
	"suggestbox/pkg/logger"
	"suggestbox/pkg/store"
)

// devSecret is the shared secret used when dev_mode is on and no secret is
// configured. Production startup refuses to run without a real secret.
const devSecret = "suggestbox-dev-secret"

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	store *store.Store
	srv   *http.Server
}

// New validates the effective config, installs the runtime key set and
// opens the store. It does not start the HTTP server; call Run for that.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	secret := eff.Config.Security.JWT.Secret
	if secret == "" {
		// only reachable in dev mode; validateConfig rejects this otherwise
		secret = devSecret
		logger.Warn("dev_mode_fallback_secret", "msg", "no jwt secret configured; using built-in dev secret")
	}
	admins := map[string]struct{}{}
	for _, a := range eff.Config.Security.Admins {
		admins[a] = struct{}{}
	}
	config.SetRuntime(&config.RuntimeConfig{JWTSecret: secret, Admins: admins})
	if len(admins) == 0 {
		logger.Warn("admin_allowlist_empty", "msg", "any valid token may call protected operations; set security.admins to enforce the allow-list server-side")
	}

	backend, err := openBackend(eff)
	if err != nil {
		return nil, err
	}

	a := &App{
		eff:       eff,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		store:     store.New(backend),
	}
	return a, nil
}

// openBackend builds the configured persistence backend.
func openBackend(eff config.EffectiveConfigResult) (store.Backend, error) {
	switch eff.Config.Storage.Backend {
	case "file":
		return store.NewFileBackend(eff.DataPath), nil
	case "pebble":
		b, err := store.OpenPebble(eff.DataPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open pebble at %s: %w", eff.DataPath, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown storage backend: %s", eff.Config.Storage.Backend)
}

// Run starts the retention sweeper (if enabled) and the HTTP server, and
// blocks until ctx is canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	stopRetention, err := retention.Start(ctx, a.eff.Config.Retention, a.store)
	if err != nil {
		return err
	}
	defer stopRetention()

	a.printBanner()

	errCh := a.startHTTP()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(shCtx); err != nil {
			logger.Warn("http_shutdown_incomplete", "error", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// Close releases the store.
func (a *App) Close() error {
	return a.store.Close()
}

// printBanner prints the startup banner and build info.
func (a *App) printBanner() {
	verStr := a.version
	if a.commit != "none" && a.commit != "" {
		verStr += " (" + a.commit + ")"
	}
	if a.buildDate != "unknown" && a.buildDate != "" {
		verStr += " @ " + a.buildDate
	}
	banner.Print(a.eff, verStr)
}
