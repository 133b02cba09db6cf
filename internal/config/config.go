package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported storage backends.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

// Supported bootstrap strategies for the live replica.
const (
	StrategyParallel   = "parallel"
	StrategyCacheFirst = "cache-first"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Mongo     MongoConfig
	NATS      NATSConfig
	Logger    LoggerConfig
	Gate      GateConfig
	S3        S3Config
	Media     MediaConfig
	Cache     CacheConfig
	Bootstrap BootstrapConfig
	Sounds    SoundConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Backend  string
	DemoSeed bool
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
	MaxConnIdleTime int // seconds
	ApplicationName string
	Migrate         bool
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI      string
	Database string
}

// NATSConfig holds the change bus settings. An empty URL keeps change
// notifications inside the process.
type NATSConfig struct {
	URL     string
	Subject string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// GateConfig holds the admin gate values.
type GateConfig struct {
	AdminHash        string
	AdminPassword    string
	AdvancedPassword string
	GlobalKey        string
	SessionSecret    string
	SessionTTL       time.Duration
}

// S3Config holds AWS S3 configuration for menu images.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "menu/")
}

// MediaConfig holds the local image directory used when S3 is off or failing.
type MediaConfig struct {
	Dir     string
	BaseURL string
}

// CacheConfig controls the on-disk snapshot envelope.
type CacheConfig struct {
	Path string
	TTL  time.Duration
}

// BootstrapConfig controls how the replica loads its first snapshot.
type BootstrapConfig struct {
	Strategy string
}

// SoundConfig holds optional sound-effect asset URLs handed to clients.
type SoundConfig struct {
	HoverURL string
	ClickURL string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment values win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Store: StoreConfig{
			Backend:  getEnv("STORE_BACKEND", BackendPostgres),
			DemoSeed: getEnvAsBool("DEMO_SEED", false),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "mechanicalburger"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
			MaxConnIdleTime: getEnvAsInt("DB_MAX_CONN_IDLE_TIME", 1800),
			ApplicationName: getEnv("DB_APPLICATION_NAME", "mechanical-burger"),
			Migrate:         getEnvAsBool("DB_MIGRATE", true),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "mechanical_burger"),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", ""),
			Subject: getEnv("NATS_SUBJECT", "burger.changes"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Gate: GateConfig{
			AdminHash:        getEnv("ADMIN_HASH", ""),
			AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
			AdvancedPassword: getEnv("ADVANCED_ADMIN_PASSWORD", ""),
			GlobalKey:        getEnv("GLOBAL_KEY", ""),
			SessionSecret:    getEnv("SESSION_SECRET", ""),
			SessionTTL:       getEnvAsDuration("SESSION_TTL", 12*time.Hour),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "us-east-1"),
			Prefix:  getEnv("S3_PREFIX", "menu/"),
		},
		Media: MediaConfig{
			Dir:     getEnv("MEDIA_DIR", "./media"),
			BaseURL: getEnv("MEDIA_BASE_URL", "/media/"),
		},
		Cache: CacheConfig{
			Path: getEnv("CACHE_PATH", ""),
			TTL:  getEnvAsDuration("CACHE_TTL", 2*time.Minute),
		},
		Bootstrap: BootstrapConfig{
			Strategy: getEnv("BOOTSTRAP_STRATEGY", StrategyCacheFirst),
		},
		Sounds: SoundConfig{
			HoverURL: getEnv("SFX_HOVER_URL", ""),
			ClickURL: getEnv("SFX_CLICK_URL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Store.Backend {
	case BackendPostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	case BackendMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("mongo URI is required")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("mongo database name is required")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid store backend: %s (must be postgres, mongo, or memory)", c.Store.Backend)
	}

	if c.Gate.SessionSecret == "" {
		return fmt.Errorf("session secret is required")
	}

	if c.Gate.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Media.Dir == "" {
		return fmt.Errorf("media directory is required")
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}

	if c.Bootstrap.Strategy != StrategyParallel && c.Bootstrap.Strategy != StrategyCacheFirst {
		return fmt.Errorf("invalid bootstrap strategy: %s (must be parallel or cache-first)", c.Bootstrap.Strategy)
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration ("90s", "5m") or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
