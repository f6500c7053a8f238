// Package config loads the portal configuration from file, .env and environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Email    EmailConfig    `mapstructure:"email"`
	Uploads  UploadConfig   `mapstructure:"uploads"`
	Chrome   ChromeConfig   `mapstructure:"chrome"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	CORSOrigins string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	URL         string `mapstructure:"url"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
	BcryptCost         int    `mapstructure:"bcrypt_cost"`
	PasswordPepper     string `mapstructure:"password_pepper"`
}

type AdminConfig struct {
	AllowRegistration bool   `mapstructure:"allow_registration"`
	EmailDomain       string `mapstructure:"email_domain"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type EmailConfig struct {
	Region string `mapstructure:"region"`
	From   string `mapstructure:"from"`
}

type UploadConfig struct {
	MaxResumeBytes int64 `mapstructure:"max_resume_bytes"`
}

type ChromeConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// keys lists every setting so that AutomaticEnv can bind it during Unmarshal
// even when no config file mentions it.
var keys = []string{
	"server.port", "server.cors_origins",
	"database.url", "database.auto_migrate",
	"log.level", "log.format",
	"auth.jwt_secret", "auth.jwt_expiration_hours", "auth.bcrypt_cost", "auth.password_pepper",
	"admin.allow_registration", "admin.email_domain",
	"gemini.api_key",
	"redis.address", "redis.password", "redis.db", "redis.ttl",
	"minio.endpoint", "minio.access_key", "minio.secret_key", "minio.bucket", "minio.use_ssl",
	"rabbitmq.url", "rabbitmq.exchange",
	"email.region", "email.from",
	"uploads.max_resume_bytes",
	"chrome.timeout",
}

// Load reads config.yaml from ./configs or the working directory, then
// applies .env and environment overrides (DATABASE_URL, AUTH_JWT_SECRET, ...).
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	return load(v)
}

// LoadFromFile reads configuration from an explicit path.
func LoadFromFile(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	// Bare names are accepted for the connection string and secrets.
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("gemini.api_key", "GEMINI_API_KEY")

	if v.ConfigFileUsed() == "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.CORSOrigins == "" {
		cfg.Server.CORSOrigins = "*"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Auth.JWTExpirationHours == 0 {
		cfg.Auth.JWTExpirationHours = 24
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = 12
	}
	if cfg.Admin.EmailDomain == "" {
		cfg.Admin.EmailDomain = "mastersolis.com"
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = 2 * time.Minute
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = "resumes"
	}
	if cfg.RabbitMQ.Exchange == "" {
		cfg.RabbitMQ.Exchange = "careers"
	}
	if cfg.Email.Region == "" {
		cfg.Email.Region = "us-east-1"
	}
	if cfg.Uploads.MaxResumeBytes == 0 {
		cfg.Uploads.MaxResumeBytes = 10 << 20
	}
	if cfg.Chrome.Timeout == 0 {
		cfg.Chrome.Timeout = 30 * time.Second
	}
}

// Validate checks settings that the server cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Uploads.MaxResumeBytes < 0 {
		return fmt.Errorf("uploads.max_resume_bytes must be non-negative")
	}
	if c.MinIO.Endpoint != "" && (c.MinIO.AccessKey == "" || c.MinIO.SecretKey == "") {
		return fmt.Errorf("minio.access_key and minio.secret_key are required when minio.endpoint is set")
	}
	return nil
}

// JWT builds the token configuration.
func (c *Config) JWT() (*JWTConfig, error) {
	return NewJWTConfig(c.Auth.JWTSecret, c.Auth.JWTExpirationHours)
}

// Password builds the hashing configuration.
func (c *Config) Password() (*PasswordConfig, error) {
	return NewPasswordConfig(c.Auth.BcryptCost, c.Auth.PasswordPepper)
}

// CORSOriginList splits server.cors_origins.
func (c *Config) CORSOriginList() []string {
	var out []string
	for _, o := range strings.Split(c.Server.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
