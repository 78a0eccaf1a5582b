package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	pkglogger "github.com/damoang/caption-queue/pkg/logger"
	"github.com/go-playground/validator/v10"
	mysqldriver "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

// Config is the resolved application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Session  SessionConfig  `yaml:"session"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Caption  CaptionConfig  `yaml:"caption"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Storage  StorageConfig  `yaml:"storage"`
	CORS     CORSConfig     `yaml:"cors"`
	Admin    AdminConfig    `yaml:"admin"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Env             string        `yaml:"env"`
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

// SessionConfig session cookie settings
type SessionConfig struct {
	Secret       string        `yaml:"secret" validate:"required,min=8"`
	TTL          time.Duration `yaml:"ttl" validate:"gt=0"`
	CookieName   string        `yaml:"cookie_name" validate:"required"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

// DatabaseConfig post store settings
type DatabaseConfig struct {
	Driver       string `yaml:"driver" validate:"oneof=sqlite mysql"`
	Path         string `yaml:"path" validate:"required_if=Driver sqlite"`
	Host         string `yaml:"host" validate:"required_if=Driver mysql"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	DBName       string `yaml:"dbname" validate:"required_if=Driver mysql"`
	MaxOpenConns int    `yaml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `yaml:"max_idle_conns" validate:"gte=0"`
	Debug        bool   `yaml:"debug"`
}

// RedisConfig optional Redis settings. Redis is used only when Host is set.
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// CaptionConfig completion service settings
type CaptionConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model" validate:"required"`
	MaxTokens   int           `yaml:"max_tokens" validate:"min=1,max=4096"`
	Temperature float32       `yaml:"temperature" validate:"gte=0,lte=2"`
	Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
	Niche       string        `yaml:"niche" validate:"required"`
}

// SMTPConfig notification mail settings. Mail is only logged when Host is empty.
type SMTPConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port" validate:"min=0,max=65535"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Secure      bool   `yaml:"secure"`
	From        string `yaml:"from"`
	NotifyEmail string `yaml:"notify_email" validate:"omitempty,email"`
	QueueSize   int    `yaml:"queue_size" validate:"min=1"`
	Workers     int    `yaml:"workers" validate:"min=1"`
}

// StorageConfig media store settings
type StorageConfig struct {
	Driver          string `yaml:"driver" validate:"oneof=local s3"`
	UploadDir       string `yaml:"upload_dir" validate:"required_if=Driver local"`
	MaxUploadMB     int64  `yaml:"max_upload_mb" validate:"min=1"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket" validate:"required_if=Driver s3"`
	CDNURL          string `yaml:"cdn_url"`
	BasePath        string `yaml:"base_path"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
}

// CORSConfig cross-origin settings for the JSON endpoint
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// AdminConfig seed operator account, created when the users table is empty
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Env:             "local",
			Port:            3000,
			ShutdownTimeout: 15 * time.Second,
		},
		Session: SessionConfig{
			TTL:        12 * time.Hour,
			CookieName: "cq_session",
		},
		Database: DatabaseConfig{
			Driver:       "sqlite",
			Path:         "./data.sqlite",
			Port:         3306,
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Redis: RedisConfig{
			Port:     6379,
			PoolSize: 10,
		},
		Caption: CaptionConfig{
			Model:       "gpt-4o-mini",
			MaxTokens:   50,
			Temperature: 0.7,
			Timeout:     30 * time.Second,
			Niche:       "electrical services",
		},
		SMTP: SMTPConfig{
			Port:      587,
			QueueSize: 256,
			Workers:   2,
		},
		Storage: StorageConfig{
			Driver:      "local",
			UploadDir:   "./uploads",
			MaxUploadMB: 100,
		},
	}
}

// IsDevelopment reports whether the server runs in a local/dev environment
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "local", "dev", "development":
		return true
	}
	return false
}

// GetDSN builds the driver-specific data source name
func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "mysql" {
		mc := mysqldriver.NewConfig()
		mc.User = d.User
		mc.Passwd = d.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", d.Host, d.Port)
		mc.DBName = d.DBName
		mc.ParseTime = true
		mc.Loc = time.Local
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN()
	}
	return d.Path + "?_busy_timeout=5000&_foreign_keys=on"
}

// Load reads the optional YAML file, applies environment overrides and validates
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// config file is optional; env vars are enough
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Session.Secret == "" && cfg.IsDevelopment() {
		cfg.Session.Secret = "local-dev-session-secret"
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.SMTP.Host != "" && cfg.SMTP.NotifyEmail == "" {
		return nil, fmt.Errorf("invalid config: NOTIFY_EMAIL is required when SMTP_HOST is set")
	}
	return cfg, nil
}

type envReader struct {
	errs []error
}

func (r *envReader) str(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func (r *envReader) int(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}
}

func (r *envReader) int64(key string, dst *int64) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}
}

func (r *envReader) bool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = b
	}
}

func (r *envReader) float32(key string, dst *float32) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = float32(f)
	}
}

func (r *envReader) duration(key string, dst *time.Duration) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = d
	}
}

func applyEnv(cfg *Config) error {
	r := &envReader{}

	r.str("APP_ENV", &cfg.Server.Env)
	r.int("PORT", &cfg.Server.Port)

	r.str("SESSION_SECRET", &cfg.Session.Secret)
	r.duration("SESSION_TTL", &cfg.Session.TTL)
	r.bool("SESSION_SECURE_COOKIE", &cfg.Session.SecureCookie)

	r.str("DB_DRIVER", &cfg.Database.Driver)
	r.str("DB_PATH", &cfg.Database.Path)
	r.str("DB_HOST", &cfg.Database.Host)
	r.int("DB_PORT", &cfg.Database.Port)
	r.str("DB_USER", &cfg.Database.User)
	r.str("DB_PASSWORD", &cfg.Database.Password)
	r.str("DB_NAME", &cfg.Database.DBName)

	r.str("REDIS_HOST", &cfg.Redis.Host)
	r.int("REDIS_PORT", &cfg.Redis.Port)
	r.str("REDIS_PASSWORD", &cfg.Redis.Password)
	r.int("REDIS_DB", &cfg.Redis.DB)

	r.str("OPENAI_API_KEY", &cfg.Caption.APIKey)
	r.str("OPENAI_BASE_URL", &cfg.Caption.BaseURL)
	r.str("OPENAI_MODEL", &cfg.Caption.Model)
	r.int("CAPTION_MAX_TOKENS", &cfg.Caption.MaxTokens)
	r.float32("CAPTION_TEMPERATURE", &cfg.Caption.Temperature)
	r.duration("CAPTION_TIMEOUT", &cfg.Caption.Timeout)
	r.str("CAPTION_NICHE", &cfg.Caption.Niche)

	r.str("SMTP_HOST", &cfg.SMTP.Host)
	r.int("SMTP_PORT", &cfg.SMTP.Port)
	r.str("SMTP_USER", &cfg.SMTP.User)
	r.str("SMTP_PASS", &cfg.SMTP.Password)
	r.bool("SMTP_SECURE", &cfg.SMTP.Secure)
	r.str("SMTP_FROM", &cfg.SMTP.From)
	r.str("NOTIFY_EMAIL", &cfg.SMTP.NotifyEmail)

	r.str("STORAGE_DRIVER", &cfg.Storage.Driver)
	r.str("UPLOAD_DIR", &cfg.Storage.UploadDir)
	r.int64("MAX_UPLOAD_MB", &cfg.Storage.MaxUploadMB)
	r.str("S3_ENDPOINT", &cfg.Storage.Endpoint)
	r.str("S3_REGION", &cfg.Storage.Region)
	r.str("S3_ACCESS_KEY_ID", &cfg.Storage.AccessKeyID)
	r.str("S3_SECRET_ACCESS_KEY", &cfg.Storage.SecretAccessKey)
	r.str("S3_BUCKET", &cfg.Storage.Bucket)
	r.str("S3_CDN_URL", &cfg.Storage.CDNURL)
	r.bool("S3_FORCE_PATH_STYLE", &cfg.Storage.ForcePathStyle)

	r.str("CORS_ALLOW_ORIGINS", &cfg.CORS.AllowOrigins)

	r.str("ADMIN_USERNAME", &cfg.Admin.Username)
	r.str("ADMIN_PASSWORD", &cfg.Admin.Password)

	return errors.Join(r.errs...)
}

// LogResolved logs the effective configuration with secrets masked
func LogResolved(cfg *Config) {
	pkglogger.GetLogger().Info().
		Str("env", cfg.Server.Env).
		Int("port", cfg.Server.Port).
		Str("db_driver", cfg.Database.Driver).
		Str("redis_host", cfg.Redis.Host).
		Str("caption_model", cfg.Caption.Model).
		Str("caption_base_url", cfg.Caption.BaseURL).
		Bool("caption_api_key_set", cfg.Caption.APIKey != "").
		Int("caption_max_tokens", cfg.Caption.MaxTokens).
		Float32("caption_temperature", cfg.Caption.Temperature).
		Dur("caption_timeout", cfg.Caption.Timeout).
		Str("smtp_host", cfg.SMTP.Host).
		Str("notify_email", cfg.SMTP.NotifyEmail).
		Str("storage_driver", cfg.Storage.Driver).
		Str("cors_allow_origins", strings.TrimSpace(cfg.CORS.AllowOrigins)).
		Msg("config resolved")
}
