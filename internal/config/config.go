package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/firebase-web-config/internal/webconfig"
)

const (
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	LogLevel             string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
	Web                  webconfig.WebConfig
}

// Bundle returns the configuration pair served to web clients.
func (c Config) Bundle() webconfig.Bundle {
	return webconfig.Bundle{WebConfig: c.Web.Clone()}
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	LogLevel             string        `yaml:"log_level"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
	WebConfig            yamlWebConfig `yaml:"web_config"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// yamlWebConfig mirrors webconfig.WebConfig with optional fields so that
// omitted keys keep their lower-precedence values. An empty
// authorized_domains list counts as omitted: the domain list can be
// replaced from YAML but never cleared, since at least one is required.
type yamlWebConfig struct {
	Auth struct {
		Persistence       string   `yaml:"persistence"`
		AuthorizedDomains []string `yaml:"authorized_domains"`
	} `yaml:"auth"`
	Firestore struct {
		EnableOffline *bool  `yaml:"enable_offline"`
		SyncInterval  *int64 `yaml:"sync_interval"`
	} `yaml:"firestore"`
	Geolocation struct {
		EnableWebGeolocation *bool `yaml:"enable_web_geolocation"`
		RequestPermission    *bool `yaml:"request_permission"`
	} `yaml:"geolocation"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile        string
	Port              *string
	LogLevel          *string
	RateLimitRPS      *float64
	RateLimitBurst    *int
	Persistence       *string
	AuthorizedDomains *string
	SyncInterval      *int64
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	applyEnvConfig(&cfg)

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		LogLevel:             defaultLogLevel,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
		Web:                  webconfig.New(),
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	durations := []struct {
		raw    string
		target *time.Duration
	}{
		{yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{yamlCfg.WriteTimeout, &cfg.WriteTimeout},
		{yamlCfg.IdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", d.raw, err)
		}
		*d.target = parsed
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}

	if yamlCfg.RateLimit.RPS != nil && *yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst != nil && *yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}

	return applyYAMLWebConfig(&cfg.Web, &yamlCfg.WebConfig)
}

func applyYAMLWebConfig(web *webconfig.WebConfig, y *yamlWebConfig) error {
	if y.Auth.Persistence != "" {
		p, err := webconfig.ParsePersistence(y.Auth.Persistence)
		if err != nil {
			return err
		}
		web.Auth.Persistence = p
	}

	if len(y.Auth.AuthorizedDomains) > 0 {
		domains, err := webconfig.ParseDomains(strings.Join(y.Auth.AuthorizedDomains, ","))
		if err != nil {
			return err
		}
		web.Auth.AuthorizedDomains = domains
	}

	if y.Firestore.EnableOffline != nil {
		web.Firestore.EnableOffline = *y.Firestore.EnableOffline
	}
	if y.Firestore.SyncInterval != nil {
		web.Firestore.SyncInterval = *y.Firestore.SyncInterval
	}
	if y.Geolocation.EnableWebGeolocation != nil {
		web.Geolocation.EnableWebGeolocation = *y.Geolocation.EnableWebGeolocation
	}
	if y.Geolocation.RequestPermission != nil {
		web.Geolocation.RequestPermission = *y.Geolocation.RequestPermission
	}

	return nil
}

// applyEnvConfig applies environment variable configuration. Malformed
// values are ignored and the default is kept.
func applyEnvConfig(cfg *Config) {
	if port := env("PORT"); port != "" {
		cfg.Port = port
	}

	if level := env("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if rps := env("RATE_LIMIT_RPS"); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := env("RATE_LIMIT_BURST"); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	if raw := env("AUTH_PERSISTENCE"); raw != "" {
		if p, err := webconfig.ParsePersistence(raw); err == nil {
			cfg.Web.Auth.Persistence = p
		}
	}

	if raw := env("AUTHORIZED_DOMAINS"); raw != "" {
		if domains, err := webconfig.ParseDomains(raw); err == nil {
			cfg.Web.Auth.AuthorizedDomains = domains
		}
	}

	if raw := env("FIRESTORE_SYNC_INTERVAL"); raw != "" {
		if value, err := strconv.ParseInt(raw, 10, 64); err == nil && value > 0 {
			cfg.Web.Firestore.SyncInterval = value
		}
	}

	envBool("FIRESTORE_ENABLE_OFFLINE", &cfg.Web.Firestore.EnableOffline)
	envBool("GEOLOCATION_ENABLED", &cfg.Web.Geolocation.EnableWebGeolocation)
	envBool("GEOLOCATION_REQUEST_PERMISSION", &cfg.Web.Geolocation.RequestPermission)
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	if overrides.Persistence != nil && *overrides.Persistence != "" {
		p, err := webconfig.ParsePersistence(*overrides.Persistence)
		if err != nil {
			return fmt.Errorf("parse persistence: %w", err)
		}
		cfg.Web.Auth.Persistence = p
	}

	if overrides.AuthorizedDomains != nil && *overrides.AuthorizedDomains != "" {
		domains, err := webconfig.ParseDomains(*overrides.AuthorizedDomains)
		if err != nil {
			return fmt.Errorf("parse authorized domains: %w", err)
		}
		cfg.Web.Auth.AuthorizedDomains = domains
	}

	if overrides.SyncInterval != nil {
		cfg.Web.Firestore.SyncInterval = *overrides.SyncInterval
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if _, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	if err := cfg.Web.Validate(); err != nil {
		return fmt.Errorf("web config: %w", err)
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envBool(key string, target *bool) {
	raw := env(key)
	if raw == "" {
		return
	}
	if value, err := strconv.ParseBool(raw); err == nil {
		*target = value
	}
}
