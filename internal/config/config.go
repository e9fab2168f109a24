package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/labstack/gommon/random"
)

// Config is the complete service configuration. Values come from defaults,
// then an optional TOML file named by CONFIG_FILE, then the environment
// (including a .env file when present).
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Redis    RedisConfig    `toml:"redis"`
	Minio    MinioConfig    `toml:"minio"`
	Cashfree CashfreeConfig `toml:"cashfree"`
	Jobs     JobsConfig     `toml:"jobs"`
}

type ServerConfig struct {
	Port            string        `toml:"port"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	LogLevel        string        `toml:"log_level"`
}

type DatabaseConfig struct {
	URL         string `toml:"url"`
	AutoMigrate bool   `toml:"auto_migrate"`
}

type AuthConfig struct {
	JWTSecret string        `toml:"jwt_secret"`
	TokenTTL  time.Duration `toml:"token_ttl"`
}

type RedisConfig struct {
	Addr         string        `toml:"addr"`
	Password     string        `toml:"password"`
	DB           int           `toml:"db"`
	MenuCacheTTL time.Duration `toml:"menu_cache_ttl"`
}

type MinioConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Bucket    string `toml:"bucket"`
}

type CashfreeConfig struct {
	ClientID     string        `toml:"client_id"`
	ClientSecret string        `toml:"client_secret"`
	BaseURL      string        `toml:"base_url"`
	APIVersion   string        `toml:"api_version"`
	ReturnURL    string        `toml:"return_url"`
	Timeout      time.Duration `toml:"timeout"`
}

type JobsConfig struct {
	StatsRefreshInterval time.Duration `toml:"stats_refresh_interval"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "5000",
			ShutdownTimeout: 10 * time.Second,
			LogLevel:        "info",
		},
		Auth: AuthConfig{
			TokenTTL: 7 * 24 * time.Hour,
		},
		Redis: RedisConfig{
			Addr:         "localhost:6379",
			MenuCacheTTL: 5 * time.Minute,
		},
		Minio: MinioConfig{
			Endpoint:  "localhost:9000",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Bucket:    "menu-images",
		},
		Cashfree: CashfreeConfig{
			BaseURL:    "https://sandbox.cashfree.com/pg",
			APIVersion: "2022-09-01",
			ReturnURL:  "http://localhost:5173/payment-status?order_id={order_id}",
			Timeout:    15 * time.Second,
		},
		Jobs: JobsConfig{
			StatsRefreshInterval: 5 * time.Minute,
		},
	}
}

// Load builds the configuration. DATABASE_URL is the only required value.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file loaded")
	}

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", cfg.Server.LogLevel)
	cfg.Server.ShutdownTimeout = getDuration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Database.AutoMigrate = getBool("AUTO_MIGRATE", cfg.Database.AutoMigrate)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.TokenTTL = getDuration("JWT_TTL", cfg.Auth.TokenTTL)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.MenuCacheTTL = getDuration("MENU_CACHE_TTL", cfg.Redis.MenuCacheTTL)

	cfg.Minio.Endpoint = getEnv("MINIO_ENDPOINT", cfg.Minio.Endpoint)
	cfg.Minio.AccessKey = getEnv("MINIO_ACCESS_KEY", cfg.Minio.AccessKey)
	cfg.Minio.SecretKey = getEnv("MINIO_SECRET_KEY", cfg.Minio.SecretKey)
	cfg.Minio.UseSSL = getBool("MINIO_USE_SSL", cfg.Minio.UseSSL)
	cfg.Minio.Bucket = getEnv("MINIO_BUCKET", cfg.Minio.Bucket)

	cfg.Cashfree.ClientID = getEnv("CASHFREE_CLIENT_ID", cfg.Cashfree.ClientID)
	cfg.Cashfree.ClientSecret = getEnv("CASHFREE_CLIENT_SECRET", cfg.Cashfree.ClientSecret)
	cfg.Cashfree.BaseURL = getEnv("CASHFREE_BASE_URL", cfg.Cashfree.BaseURL)
	cfg.Cashfree.ReturnURL = getEnv("CASHFREE_RETURN_URL", cfg.Cashfree.ReturnURL)

	cfg.Jobs.StatsRefreshInterval = getDuration("STATS_REFRESH_INTERVAL", cfg.Jobs.StatsRefreshInterval)

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = random.String(32)
		log.Warn("JWT_SECRET not set, using a generated secret; tokens will not survive a restart")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}
