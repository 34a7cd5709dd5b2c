package app

import (
	"fmt"
	"os"

	"suggestbox/pkg/config"
)

// validateConfig performs quick, fail-fast validation of the effective
// configuration before starting long-running services. Keep checks light
// and focused so callers can surface user-friendly errors.
func validateConfig(eff config.EffectiveConfigResult) error {
	if eff.DataPath == "" {
		return fmt.Errorf("storage path is empty: set --data flag, SUGGESTBOX_DATA_PATH env, or storage.path in config")
	}

	switch eff.Config.Storage.Backend {
	case "file", "pebble":
	default:
		return fmt.Errorf("unknown storage backend %q: expected \"file\" or \"pebble\"", eff.Config.Storage.Backend)
	}

	// Refuse to start without a shared secret outside dev mode; there is
	// no production fallback.
	if eff.Config.Security.JWT.Secret == "" && !eff.Config.Server.DevMode {
		return fmt.Errorf("jwt secret is required: set security.jwt.secret or SUGGESTBOX_JWT_SECRET (server.dev_mode permits a built-in secret for local development only)")
	}

	cert := eff.Config.Server.TLS.CertFile
	key := eff.Config.Server.TLS.KeyFile
	if (cert != "" && key == "") || (cert == "" && key != "") {
		return fmt.Errorf("incomplete TLS configuration: both server.tls.cert_file and server.tls.key_file must be set")
	}
	if cert != "" {
		if _, err := os.Stat(cert); err != nil {
			return fmt.Errorf("tls cert file not accessible: %w", err)
		}
		if _, err := os.Stat(key); err != nil {
			return fmt.Errorf("tls key file not accessible: %w", err)
		}
	}

	return nil
}
