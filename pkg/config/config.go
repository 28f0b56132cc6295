package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"

	DefaultMaxUploadBytes int64 = 200 * 1024 * 1024
)

type Config struct {
	// Runtime
	Env        string
	ServerPort string

	// Database
	DatabaseURL string

	// Auth
	SecretKey      string
	AccessTokenTTL time.Duration

	// HTTP
	CORSOrigins    []string
	MaxUploadBytes int64
	// TrustedProxies lists the addresses allowed to set X-Forwarded-For.
	// Empty means the peer address is always the client IP.
	TrustedProxies []string

	// Storage
	StorageConnectionString string
	StorageContainer        string
	LocalUploadDir          string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AuthRateLimitPerMinute int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ttlMinutes, err := getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	rateLimit, err := getEnvInt("AUTH_RATE_LIMIT_PER_MINUTE", 20)
	if err != nil {
		return nil, err
	}
	maxUpload, err := getEnvInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}
	origins, err := parseList("CORS_ORIGINS", os.Getenv("CORS_ORIGINS"))
	if err != nil {
		return nil, err
	}
	proxies, err := parseList("TRUSTED_PROXIES", os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:        strings.ToLower(getEnv("ENV", EnvProd)),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		SecretKey:      os.Getenv("SECRET_KEY"),
		AccessTokenTTL: time.Duration(ttlMinutes) * time.Minute,

		CORSOrigins:    origins,
		MaxUploadBytes: maxUpload,
		TrustedProxies: proxies,

		StorageConnectionString: os.Getenv("STORAGE_CONNECTION_STRING"),
		StorageContainer:        getEnv("STORAGE_CONTAINER", "videos"),
		LocalUploadDir:          getEnv("LOCAL_DEV_UPLOAD_DIR", "./uploads"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		AuthRateLimitPerMinute: rateLimit,
	}

	return cfg, nil
}

// Validate reports the first missing or malformed required setting.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY must be set")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be set")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if c.AuthRateLimitPerMinute <= 0 {
		return errors.New("AUTH_RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.StorageConnectionString != "" && c.StorageContainer == "" {
		return errors.New("STORAGE_CONTAINER must be set when STORAGE_CONNECTION_STRING is set")
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == EnvDev
}

// UsesCloudStorage is true when uploads go to the object store instead of
// the local upload directory.
func (c *Config) UsesCloudStorage() bool {
	return c.StorageConnectionString != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// parseList accepts a JSON array (["https://a","https://b"]) or a
// comma-separated list.
func parseList(key, raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var origins []string
		if err := json.Unmarshal([]byte(raw), &origins); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return origins, nil
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins, nil
}
