package config

import (
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
)

// Flags holds parsed command-line flag values and which were set.
type Flags struct {
	Addr   string
	Data   string
	Config string
	Set    map[string]bool
}

// EffectiveConfigResult is the merged view of flags, environment and config
// file that the rest of the server consumes.
type EffectiveConfigResult struct {
	Config   *Config
	Addr     string
	DataPath string
	Source   string // "flags", "env", or "config"
}

// ParseCommandFlags defines and parses the command-line flags.
func ParseCommandFlags() Flags {
	addrPtr := flag.String("addr", "", "HTTP listen address (host:port)")
	dataPtr := flag.String("data", "", "storage path (JSON file or pebble dir)")
	cfgPtr := flag.String("config", "./config.yaml", "path to config file")
	flag.Parse()
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return Flags{Addr: *addrPtr, Data: *dataPtr, Config: *cfgPtr, Set: set}
}

// LoadEnvOverrides applies SUGGESTBOX_* environment overrides onto cfg and
// reports whether any env vars were used.
func LoadEnvOverrides(cfg *Config) bool {
	envUsed := false
	parseList := func(v string) []string {
		var parts []string
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				parts = append(parts, s)
			}
		}
		return parts
	}
	parseBool := func(v string) bool {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes":
			return true
		}
		return false
	}

	if v := os.Getenv("SUGGESTBOX_ADDR"); v != "" {
		envUsed = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			cfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				cfg.Server.Port = pi
			}
		} else {
			cfg.Server.Address = v
		}
	} else {
		if host := os.Getenv("SUGGESTBOX_ADDRESS"); host != "" {
			envUsed = true
			cfg.Server.Address = host
		}
		if port := os.Getenv("SUGGESTBOX_PORT"); port != "" {
			envUsed = true
			if pi, err := strconv.Atoi(port); err == nil {
				cfg.Server.Port = pi
			}
		}
	}

	if v := os.Getenv("SUGGESTBOX_DEV_MODE"); v != "" {
		envUsed = true
		cfg.Server.DevMode = parseBool(v)
	}
	if v := os.Getenv("SUGGESTBOX_STORAGE_BACKEND"); v != "" {
		envUsed = true
		cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("SUGGESTBOX_DATA_PATH"); v != "" {
		envUsed = true
		cfg.Storage.Path = v
	}
	if v := os.Getenv("SUGGESTBOX_JWT_SECRET"); v != "" {
		envUsed = true
		cfg.Security.JWT.Secret = v
	}
	if v := os.Getenv("SUGGESTBOX_ADMINS"); v != "" {
		envUsed = true
		cfg.Security.Admins = parseList(v)
	}
	if v := os.Getenv("SUGGESTBOX_CORS_ORIGINS"); v != "" {
		envUsed = true
		cfg.Security.CORS.AllowedOrigins = parseList(v)
	}
	if v := os.Getenv("SUGGESTBOX_RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			envUsed = true
			cfg.Security.RateLimit.RPS = f
		}
	}
	if v := os.Getenv("SUGGESTBOX_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Security.RateLimit.Burst = n
		}
	}
	if v := os.Getenv("SUGGESTBOX_MAX_CONTENT_LEN"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Validation.MaxContentLen = n
		}
	}
	if c := os.Getenv("SUGGESTBOX_TLS_CERT"); c != "" {
		envUsed = true
		cfg.Server.TLS.CertFile = c
	}
	if k := os.Getenv("SUGGESTBOX_TLS_KEY"); k != "" {
		envUsed = true
		cfg.Server.TLS.KeyFile = k
	}
	return envUsed
}

// LoadEffective resolves the config file (missing files yield a zero
// config), applies env overrides and then explicit flags, and returns the
// merged result. Flags win over env, env over file.
func LoadEffective(flags Flags) (EffectiveConfigResult, error) {
	cfgPath := ResolveConfigPath(flags.Config, flags.Set["config"])
	cfg, err := Load(cfgPath)
	source := "config"
	if err != nil {
		if flags.Set["config"] {
			// an explicitly named config file must exist
			return EffectiveConfigResult{}, err
		}
		cfg = &Config{}
		source = "defaults"
	}

	if LoadEnvOverrides(cfg) {
		source = "env"
	}

	addr := cfg.Addr()
	if flags.Set["addr"] {
		addr = flags.Addr
		source = "flags"
	}
	dataPath := cfg.Storage.Path
	if flags.Set["data"] {
		dataPath = flags.Data
		source = "flags"
	}
	if dataPath == "" {
		dataPath = "./data/suggestions.json"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "file"
	}

	return EffectiveConfigResult{Config: cfg, Addr: addr, DataPath: dataPath, Source: source}, nil
}
