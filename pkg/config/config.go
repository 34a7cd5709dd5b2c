package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// RuntimeConfig holds derived runtime values that other packages may query
// at runtime (populated during startup after merging flags+env+file).
type RuntimeConfig struct {
	JWTSecret string
	Admins    map[string]struct{}
}

var (
	runtimeMu  sync.RWMutex
	runtimeCfg *RuntimeConfig
)

// SetRuntime sets the canonical runtime config used by the running server.
func SetRuntime(rc *RuntimeConfig) {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	runtimeCfg = rc
}

// GetJWTSecret returns the configured shared secret, or empty when unset.
func GetJWTSecret() string {
	runtimeMu.RLock()
	defer runtimeMu.RUnlock()
	if runtimeCfg == nil {
		return ""
	}
	return runtimeCfg.JWTSecret
}

// GetAdmins returns a copy of the configured admin allow-list.
func GetAdmins() map[string]struct{} {
	runtimeMu.RLock()
	defer runtimeMu.RUnlock()
	out := map[string]struct{}{}
	if runtimeCfg == nil || runtimeCfg.Admins == nil {
		return out
	}
	for k := range runtimeCfg.Admins {
		out[k] = struct{}{}
	}
	return out
}

// AdminsConfigured reports whether a non-empty admin allow-list is active.
func AdminsConfigured() bool {
	runtimeMu.RLock()
	defer runtimeMu.RUnlock()
	return runtimeCfg != nil && len(runtimeCfg.Admins) > 0
}

// IsAdmin reports whether the given nickname is on the allow-list.
func IsAdmin(nickname string) bool {
	runtimeMu.RLock()
	defer runtimeMu.RUnlock()
	if runtimeCfg == nil {
		return false
	}
	_, ok := runtimeCfg.Admins[nickname]
	return ok
}

// Addr returns host:port for the HTTP server.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = "0.0.0.0"
	}
	p := c.Server.Port
	if p == 0 {
		p = 2083
	}
	return fmt.Sprintf("%s:%d", addr, p)
}

// Load reads and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveConfigPath decides the config file path using the flag-provided
// value and the SUGGESTBOX_CONFIG environment variable when the flag was
// not set.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if p := os.Getenv("SUGGESTBOX_CONFIG"); p != "" {
		return p
	}
	return flagPath
}
