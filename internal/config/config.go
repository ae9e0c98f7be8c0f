package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App     AppConfig
	Redis   RedisConfig
	Sources SourcesConfig
	Cache   CacheConfig
	Session SessionConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SourcesConfig struct {
	RemotiveURL       string
	JobicyURL         string
	RemoteOKURL       string
	WeWorkRemotelyURL string
	FetchTimeout      time.Duration
}

type CacheConfig struct {
	TTL         time.Duration
	Cap         int
	RefreshSpec string
}

type SessionConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		DB:       optInt("REDIS_DB", 0),
	}

	cfg.Sources = SourcesConfig{
		RemotiveURL:       opt("REMOTIVE_URL"),
		JobicyURL:         opt("JOBICY_URL"),
		RemoteOKURL:       opt("REMOTEOK_URL"),
		WeWorkRemotelyURL: opt("WWR_URL"),
		FetchTimeout:      optSeconds("FETCH_TIMEOUT_SECONDS", 15*time.Second),
	}

	cfg.Cache = CacheConfig{
		TTL:         optSeconds("CACHE_TTL_SECONDS", 300*time.Second),
		Cap:         optInt("CACHE_CAP", 64),
		RefreshSpec: opt("REFRESH_CRON"),
	}

	cfg.Session = SessionConfig{
		Secret:    opt("SESSION_SECRET"),
		ExpiresIn: optSeconds("SESSION_EXPIRES_SECONDS", 30*24*time.Hour),
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = "dev-insecure-secret"
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

// RedisAddr returns host:port, empty when Redis is not configured.
func (r RedisConfig) RedisAddr() string {
	if r.Host == "" {
		return ""
	}
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return r.Host + ":" + port
}

func optInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func optSeconds(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return time.Duration(v) * time.Second
}
