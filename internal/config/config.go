package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings sourced from environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Upload   UploadConfig   `mapstructure:"upload"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	AI       AIConfig       `mapstructure:"ai"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int    `mapstructure:"port"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

// Origins splits the comma separated origin list used by the websocket upgrader.
func (a APIConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(a.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// DSN returns the connection string handed to the postgres driver.
func (d DatabaseConfig) DSN() string {
	return d.URL
}

// AuthConfig holds the token signing material.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// RedisConfig contains connection options for the queue and pub/sub backend.
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Bucket          string `mapstructure:"bucket"`
}

// UploadConfig bounds admin uploads.
type UploadConfig struct {
	MaxImageBytes int64  `mapstructure:"max_image_bytes"`
	ClamdAddr     string `mapstructure:"clamd_addr"`
}

// SMTPConfig describes the outbound relay used by the email worker.
type SMTPConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	From       string `mapstructure:"from"`
	OwnerEmail string `mapstructure:"owner_email"`
	OwnerName  string `mapstructure:"owner_name"`
}

// AIConfig configures the text-generation provider.
type AIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WorkerConfig configures the background email worker.
type WorkerConfig struct {
	MetricsPort int `mapstructure:"metrics_port"`
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 5000)
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "portfolio")
	v.SetDefault("upload.max_image_bytes", 5*1024*1024)
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.owner_name", "Portfolio Owner")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("ai.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("worker.metrics_port", 9091)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string][]string{
		"api.port":                {"PORT", "API_PORT"},
		"api.allowed_origins":     {"ALLOWED_ORIGINS"},
		"database.url":            {"DATABASE_URL"},
		"auth.jwt_secret":         {"JWT_SECRET"},
		"auth.token_ttl":          {"TOKEN_TTL"},
		"redis.host":              {"REDIS_HOST"},
		"redis.port":              {"REDIS_PORT"},
		"minio.endpoint":          {"MINIO_ENDPOINT"},
		"minio.access_key_id":     {"MINIO_ACCESS_KEY_ID"},
		"minio.secret_access_key": {"MINIO_SECRET_ACCESS_KEY"},
		"minio.use_ssl":           {"MINIO_USE_SSL"},
		"minio.bucket":            {"MINIO_BUCKET"},
		"upload.max_image_bytes":  {"UPLOAD_MAX_IMAGE_BYTES"},
		"upload.clamd_addr":       {"CLAMD_ADDR"},
		"smtp.host":               {"SMTP_HOST"},
		"smtp.port":               {"SMTP_PORT"},
		"smtp.user":               {"SMTP_USER"},
		"smtp.password":           {"SMTP_PASS"},
		"smtp.from":               {"SMTP_FROM"},
		"smtp.owner_email":        {"CONTACT_OWNER_EMAIL"},
		"smtp.owner_name":         {"CONTACT_OWNER_NAME"},
		"ai.api_key":              {"AI_API_KEY", "GEMINI_API_KEY"},
		"ai.model":                {"AI_MODEL"},
		"ai.base_url":             {"AI_BASE_URL"},
		"ai.timeout":              {"AI_TIMEOUT"},
		"worker.metrics_port":     {"WORKER_METRICS_PORT"},
	}

	for key, envs := range mappings {
		input := append([]string{key}, envs...)
		if err := v.BindEnv(input...); err != nil {
			return fmt.Errorf("bind %s to %v: %w", key, envs, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if strings.TrimSpace(cfg.Database.URL) == "" {
		return errors.New("DATABASE_URL must be set")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.Upload.MaxImageBytes <= 0 {
		return errors.New("upload max image bytes must be positive")
	}
	if cfg.SMTP.Port <= 0 {
		return errors.New("smtp port must be positive")
	}
	if cfg.AI.Timeout <= 0 {
		return errors.New("ai timeout must be positive")
	}
	if cfg.Worker.MetricsPort <= 0 {
		return errors.New("worker metrics port must be positive")
	}
	return nil
}
