package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultLLMAPIURL     = "https://api.deepseek.com/v1/chat/completions"
	defaultLLMModel      = "deepseek-chat"
	defaultOracleTimeout = 30 * time.Second
	defaultMenuCacheTTL  = 24 * time.Hour
	defaultGenerateLimit = 20
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort     string
	ServerHost     string
	AllowedOrigins []string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Oracle (text generation) configuration
	LLMAPIKey     string
	LLMAPIURL     string
	LLMModel      string
	OracleTimeout time.Duration

	// Meal plan behaviour
	MenuCacheTTL      time.Duration
	GenerateRateLimit int

	// Plan export storage
	S3Bucket  string
	AWSRegion string

	MigrationsDir string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		// A missing .env file is fine; the process environment still applies.
		_ = godotenv.Load()
		loadDevConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := loadCommon(cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string for the configured database
func (c *Config) DSN() string {
	sslMode := c.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode)
}

// loadCIConfig loads configuration for CI using ONLY environment variables
func loadCIConfig(cfg *Config) {
	cfg.ServerPort = os.Getenv("SERVER_PORT")
	cfg.ServerHost = os.Getenv("SERVER_HOST")
	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = os.Getenv("DB_PORT")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = os.Getenv("DB_SSL_MODE")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = os.Getenv("REDIS_PORT")

	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.LLMAPIKey = os.Getenv("DEEPSEEK_API_KEY")
}

// loadDevConfig loads configuration for development, preferring Docker secrets
// and falling back to the environment (including a local .env file)
func loadDevConfig(cfg *Config) {
	cfg.ServerPort = secretOrEnv("server_port", "SERVER_PORT")
	cfg.ServerHost = secretOrEnv("server_host", "SERVER_HOST")
	cfg.DBHost = secretOrEnv("db_host", "DB_HOST")
	cfg.DBPort = secretOrEnv("db_port", "DB_PORT")
	cfg.DBUser = secretOrEnv("db_user", "DB_USER")
	cfg.DBPassword = secretOrEnv("db_password", "DB_PASSWORD")
	cfg.DBName = secretOrEnv("db_name", "DB_NAME")
	cfg.DBSSLMode = secretOrEnv("db_ssl_mode", "DB_SSL_MODE")
	cfg.RedisHost = secretOrEnv("redis_host", "REDIS_HOST")
	cfg.RedisPort = secretOrEnv("redis_port", "REDIS_PORT")
	cfg.RedisPassword = secretOrEnv("redis_password", "REDIS_PASSWORD")
	cfg.RedisURL = secretOrEnv("redis_url", "REDIS_URL")
	cfg.JWTSecret = secretOrEnv("jwt_secret", "JWT_SECRET")
	cfg.LLMAPIKey = secretOrEnv("deepseek_api_key", "DEEPSEEK_API_KEY")
}

// loadProdConfig loads configuration for production using ONLY Docker secrets
func loadProdConfig(cfg *Config) {
	cfg.ServerPort = readSecret("server_port")
	cfg.ServerHost = readSecret("server_host")
	cfg.DBHost = readSecret("db_host")
	cfg.DBPort = readSecret("db_port")
	cfg.DBUser = readSecret("db_user")
	cfg.DBPassword = readSecret("db_password")
	cfg.DBName = readSecret("db_name")
	cfg.DBSSLMode = readSecret("db_ssl_mode")
	cfg.RedisHost = readSecret("redis_host")
	cfg.RedisPort = readSecret("redis_port")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.RedisURL = readSecret("redis_url")
	cfg.JWTSecret = readSecret("jwt_secret")
	cfg.LLMAPIKey = readSecret("deepseek_api_key")
}

// loadCommon fills settings that are not secrets and have sensible defaults
func loadCommon(cfg *Config) error {
	cfg.RedisDB = 0 // This is a constant, not a secret

	if cfg.LLMAPIKey == "" {
		key, err := readKeyFile(os.Getenv("DEEPSEEK_API_KEY_FILE"))
		if err != nil {
			return err
		}
		cfg.LLMAPIKey = key
	}

	cfg.LLMAPIURL = envOrDefault("DEEPSEEK_API_URL", defaultLLMAPIURL)
	cfg.LLMModel = envOrDefault("DEEPSEEK_MODEL", defaultLLMModel)
	cfg.S3Bucket = envOrDefault("S3_BUCKET_NAME", "nutriplan-exports")
	cfg.AWSRegion = os.Getenv("AWS_REGION")
	cfg.MigrationsDir = envOrDefault("MIGRATIONS_DIR", "migrations")

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{"http://localhost:8081", "http://localhost:19006"}
	}

	var err error
	if cfg.OracleTimeout, err = durationEnv("ORACLE_TIMEOUT", defaultOracleTimeout); err != nil {
		return err
	}
	if cfg.MenuCacheTTL, err = durationEnv("MENU_CACHE_TTL", defaultMenuCacheTTL); err != nil {
		return err
	}

	cfg.GenerateRateLimit = defaultGenerateLimit
	if v := os.Getenv("GENERATE_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid GENERATE_RATE_LIMIT %q: %w", v, err)
		}
		cfg.GenerateRateLimit = n
	}

	return nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func secretOrEnv(secret, envVar string) string {
	if v := readSecret(secret); v != "" {
		return v
	}
	return os.Getenv(envVar)
}

func readKeyFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read API key file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
