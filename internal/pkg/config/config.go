package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Auth      AuthConfig      `mapstructure:"auth"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`
	WriteTimeout   int      `mapstructure:"write_timeout"`
	RequestTimeout int      `mapstructure:"request_timeout"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
	OpenAPIPath    string   `mapstructure:"openapi_path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StorageConfig selects the repository backend: "memory" or "postgres".
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type ValkeyConfig struct {
	Addr    string `mapstructure:"addr"`
	Enabled bool   `mapstructure:"enabled"`
}

type AuthConfig struct {
	JWTSecret    string `mapstructure:"jwt_secret"`
	TokenTTL     int    `mapstructure:"token_ttl_minutes"`
	CookieSecure bool   `mapstructure:"cookie_secure"`
}

// TTL returns the session lifetime.
func (a AuthConfig) TTL() time.Duration {
	return time.Duration(a.TokenTTL) * time.Minute
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

// DiscoveryConfig tunes the nearby-activity search.
type DiscoveryConfig struct {
	DefaultRadiusMiles float64 `mapstructure:"default_radius_miles"`
	MaxRadiusMiles     float64 `mapstructure:"max_radius_miles"`
	BudgetMode         string  `mapstructure:"budget_mode"`
	CacheTTL           int     `mapstructure:"cache_ttl"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
	Enabled   bool   `mapstructure:"enabled"`
}

type TelemetryConfig struct {
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	Enabled      bool   `mapstructure:"enabled"`
}

// Load reads configuration from .env, an optional config file, and environment variables.
func Load(service string) (*Config, error) {
	_ = godotenv.Load() // OK if missing

	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig()

	// Environment variables: TRAILHEAD_DATABASE_HOST → database.host
	v.SetEnvPrefix("TRAILHEAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.request_timeout", 15)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.openapi_path", "api/openapi.yaml")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "trailhead")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "trailhead")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.enabled", false)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl_minutes", 60*24*7)
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.timeout", 30)
	v.SetDefault("discovery.default_radius_miles", 25.0)
	v.SetDefault("discovery.max_radius_miles", 500.0)
	v.SetDefault("discovery.budget_mode", "ceiling")
	v.SetDefault("discovery.cache_ttl", 300)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "order-fulfillment")
	v.SetDefault("temporal.enabled", false)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4317")
	v.SetDefault("telemetry.enabled", false)
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("storage.driver must be memory or postgres, got %q", c.Storage.Driver))
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats is enabled")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when valkey is enabled")
	}
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, "auth.jwt_secret must be at least 32 bytes")
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, "auth.token_ttl_minutes must be positive")
	}
	d := c.Discovery
	if d.MaxRadiusMiles <= 0 {
		errs = append(errs, "discovery.max_radius_miles must be positive")
	}
	if d.DefaultRadiusMiles < 0 || d.DefaultRadiusMiles > d.MaxRadiusMiles {
		errs = append(errs, fmt.Sprintf("discovery.default_radius_miles must be 0-%g, got %g", d.MaxRadiusMiles, d.DefaultRadiusMiles))
	}
	if d.BudgetMode != "ceiling" && d.BudgetMode != "exact" {
		errs = append(errs, fmt.Sprintf("discovery.budget_mode must be ceiling or exact, got %q", d.BudgetMode))
	}
	if c.Temporal.Enabled && c.Storage.Driver != "postgres" {
		errs = append(errs, "temporal.enabled requires storage.driver=postgres")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
