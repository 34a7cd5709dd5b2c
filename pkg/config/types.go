package config

// Config is the main configuration struct, populated from YAML with
// environment and flag overrides applied on top.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Security   SecurityConfig   `yaml:"security"`
	Validation ValidationConfig `yaml:"validation"`
	Logging    LoggingConfig    `yaml:"logging"`
	Retention  RetentionConfig  `yaml:"retention"`
}

// ServerConfig holds http and tls settings.
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
	// DevMode relaxes startup validation (a missing JWT secret becomes a
	// warning instead of a refusal to start). Never enable in production.
	DevMode bool      `yaml:"dev_mode"`
	TLS     TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate configuration.
type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	// Backend is "file" (single JSON document) or "pebble".
	Backend string `yaml:"backend"`
	// Path is the JSON file path for the file backend, or the database
	// directory for the pebble backend.
	Path string `yaml:"path"`
}

// SecurityConfig holds the access gate settings.
type SecurityConfig struct {
	JWT struct {
		// Secret is the shared HS256 secret bearer tokens are verified
		// against. Required unless server.dev_mode is set.
		Secret string `yaml:"secret"`
	} `yaml:"jwt"`
	// Admins is the allow-list of identity nicknames permitted to call the
	// protected operations. When empty, any valid identity is accepted
	// (authenticate-only mode) and a startup warning is emitted.
	Admins []string `yaml:"admins"`
	CORS   struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// ValidationConfig holds optional request validation knobs.
type ValidationConfig struct {
	// MaxContentLen rejects suggestion bodies longer than this many
	// characters when > 0. Zero disables the check and content of any
	// length is accepted.
	MaxContentLen int `yaml:"max_content_len"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text|json
}

// RetentionConfig drives the optional purge sweeper for read suggestions.
type RetentionConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
	// Period is how long a read suggestion is kept before it becomes
	// eligible for purging, e.g. "720h" or "30d".
	Period string `yaml:"period"`
}
