package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddrDefaults(t *testing.T) {
	var c Config
	if got := c.Addr(); got != "0.0.0.0:2083" {
		t.Fatalf("zero config addr = %q", got)
	}
	c.Server.Address = "127.0.0.1"
	c.Server.Port = 9000
	if got := c.Addr(); got != "127.0.0.1:9000" {
		t.Fatalf("explicit addr = %q", got)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SUGGESTBOX_ADDR", "10.0.0.5:8080")
	t.Setenv("SUGGESTBOX_JWT_SECRET", "env-secret")
	t.Setenv("SUGGESTBOX_ADMINS", "alice, bob,")
	t.Setenv("SUGGESTBOX_STORAGE_BACKEND", "Pebble")
	t.Setenv("SUGGESTBOX_MAX_CONTENT_LEN", "500")

	var cfg Config
	if !LoadEnvOverrides(&cfg) {
		t.Fatalf("expected env overrides to be reported as used")
	}
	if cfg.Server.Address != "10.0.0.5" || cfg.Server.Port != 8080 {
		t.Fatalf("addr not split: %q %d", cfg.Server.Address, cfg.Server.Port)
	}
	if cfg.Security.JWT.Secret != "env-secret" {
		t.Fatalf("secret not applied: %q", cfg.Security.JWT.Secret)
	}
	if len(cfg.Security.Admins) != 2 || cfg.Security.Admins[0] != "alice" || cfg.Security.Admins[1] != "bob" {
		t.Fatalf("admins not parsed: %+v", cfg.Security.Admins)
	}
	if cfg.Storage.Backend != "pebble" {
		t.Fatalf("backend not normalized: %q", cfg.Storage.Backend)
	}
	if cfg.Validation.MaxContentLen != 500 {
		t.Fatalf("max content len not applied: %d", cfg.Validation.MaxContentLen)
	}
}

func TestLoadEffectiveDefaults(t *testing.T) {
	eff, err := LoadEffective(Flags{Config: filepath.Join(t.TempDir(), "absent.yaml"), Set: map[string]bool{}})
	if err != nil {
		t.Fatalf("defaults load failed: %v", err)
	}
	if eff.Addr != "0.0.0.0:2083" {
		t.Fatalf("default addr = %q", eff.Addr)
	}
	if eff.DataPath != "./data/suggestions.json" {
		t.Fatalf("default data path = %q", eff.DataPath)
	}
	if eff.Config.Storage.Backend != "file" {
		t.Fatalf("default backend = %q", eff.Config.Storage.Backend)
	}
	if eff.Source != "defaults" {
		t.Fatalf("source = %q", eff.Source)
	}
}

func TestLoadEffectiveExplicitMissingConfigFails(t *testing.T) {
	_, err := LoadEffective(Flags{
		Config: filepath.Join(t.TempDir(), "absent.yaml"),
		Set:    map[string]bool{"config": true},
	})
	if err == nil {
		t.Fatalf("explicitly named missing config file must fail")
	}
}

func TestLoadEffectiveFlagsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "server:\n  address: 127.0.0.1\n  port: 3000\nstorage:\n  path: /var/lib/box.json\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	eff, err := LoadEffective(Flags{
		Addr:   "0.0.0.0:4000",
		Data:   "/tmp/override.json",
		Config: path,
		Set:    map[string]bool{"config": true, "addr": true, "data": true},
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if eff.Addr != "0.0.0.0:4000" || eff.DataPath != "/tmp/override.json" {
		t.Fatalf("flags did not win: %q %q", eff.Addr, eff.DataPath)
	}
	if eff.Source != "flags" {
		t.Fatalf("source = %q", eff.Source)
	}
}

func TestRuntimeAdminQueries(t *testing.T) {
	SetRuntime(&RuntimeConfig{
		JWTSecret: "s",
		Admins:    map[string]struct{}{"alice": {}},
	})
	t.Cleanup(func() { SetRuntime(nil) })

	if !AdminsConfigured() {
		t.Fatalf("allow-list should be reported as configured")
	}
	if !IsAdmin("alice") || IsAdmin("bob") {
		t.Fatalf("allow-list membership wrong")
	}
	if GetJWTSecret() != "s" {
		t.Fatalf("secret = %q", GetJWTSecret())
	}

	SetRuntime(&RuntimeConfig{JWTSecret: "s"})
	if AdminsConfigured() {
		t.Fatalf("empty allow-list must not count as configured")
	}
}
