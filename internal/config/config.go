package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Notification drivers.
const (
	NotifyLog     = "log"
	NotifySMTP    = "smtp"
	NotifyRedis   = "redis"
	NotifyWebhook = "webhook"
)

// Config holds runtime configuration. Values come from an optional YAML file
// named by CONFIG_FILE and are overridden by environment variables.
type Config struct {
	Port        string   `yaml:"port"`
	StoreDriver string   `yaml:"store_driver"`
	MongoURI    string   `yaml:"mongo_uri"`
	MongoDB     string   `yaml:"mongo_database"`
	DatabaseURL string   `yaml:"database_url"`
	JWTSecret   string   `yaml:"jwt_secret"`
	JWTIssuer   string   `yaml:"jwt_issuer"`
	JWTTTL      int      `yaml:"jwt_ttl_minutes"`
	CORSOrigins []string `yaml:"cors_allowed_origins"`

	Notify  NotifyConfig  `yaml:"notify"`
	Tracing TracingConfig `yaml:"tracing"`
}

type NotifyConfig struct {
	Driver         string `yaml:"driver"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	SMTPHost       string `yaml:"smtp_host"`
	SMTPPort       int    `yaml:"smtp_port"`
	SMTPUsername   string `yaml:"smtp_username"`
	SMTPPassword   string `yaml:"smtp_password"`
	SMTPFrom       string `yaml:"smtp_from"`
	RedisURL       string `yaml:"redis_url"`
	RedisQueue     string `yaml:"redis_queue"`
	WebhookURL     string `yaml:"webhook_url"`
	WebhookToken   string `yaml:"webhook_token"`
}

type TracingConfig struct {
	Exporter string `yaml:"exporter"`
	Endpoint string `yaml:"endpoint"`
}

// LoadEnvFile loads a local .env file if one exists.
func LoadEnvFile() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}

// Load reads configuration and performs minimal validation.
func Load() (Config, error) {
	var cfg Config
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Port = fallback(os.Getenv("PORT"), fallback(cfg.Port, "8080"))
	cfg.StoreDriver = strings.ToLower(fallback(os.Getenv("STORE_DRIVER"), fallback(cfg.StoreDriver, StoreMongo)))
	cfg.MongoURI = fallback(os.Getenv("MONGOURI"), cfg.MongoURI)
	cfg.MongoDB = fallback(os.Getenv("MONGO_DATABASE"), fallback(cfg.MongoDB, "farmdirect"))
	cfg.DatabaseURL = fallback(os.Getenv("DATABASE_URL"), cfg.DatabaseURL)
	cfg.JWTSecret = fallback(os.Getenv("JWT_SECRET"), cfg.JWTSecret)
	cfg.JWTIssuer = fallback(os.Getenv("JWT_ISSUER"), fallback(cfg.JWTIssuer, "farmdirect"))
	cfg.JWTTTL = positiveInt(os.Getenv("JWT_TTL_MINUTES"), cfg.JWTTTL, 60)
	if origins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); origins != "" || len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = parseCSV(fallback(origins, "*"))
	}

	n := &cfg.Notify
	n.Driver = strings.ToLower(fallback(os.Getenv("NOTIFY_DRIVER"), fallback(n.Driver, NotifyLog)))
	n.TimeoutSeconds = positiveInt(os.Getenv("NOTIFY_TIMEOUT_SECONDS"), n.TimeoutSeconds, 10)
	n.SMTPHost = fallback(os.Getenv("SMTP_HOST"), n.SMTPHost)
	n.SMTPPort = positiveInt(os.Getenv("SMTP_PORT"), n.SMTPPort, 587)
	n.SMTPUsername = fallback(os.Getenv("SMTP_USERNAME"), n.SMTPUsername)
	n.SMTPPassword = fallback(os.Getenv("SMTP_PASSWORD"), n.SMTPPassword)
	n.SMTPFrom = fallback(os.Getenv("SMTP_FROM"), fallback(n.SMTPFrom, n.SMTPUsername))
	n.RedisURL = fallback(os.Getenv("REDIS_URL"), n.RedisURL)
	n.RedisQueue = fallback(os.Getenv("REDIS_NOTIFY_QUEUE"), n.RedisQueue)
	n.WebhookURL = fallback(os.Getenv("NOTIFY_WEBHOOK_URL"), n.WebhookURL)
	n.WebhookToken = fallback(os.Getenv("NOTIFY_WEBHOOK_TOKEN"), n.WebhookToken)

	tr := &cfg.Tracing
	tr.Exporter = strings.ToLower(fallback(os.Getenv("TRACING_EXPORTER"), fallback(tr.Exporter, "none")))
	tr.Endpoint = fallback(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"), fallback(tr.Endpoint, "localhost:4317"))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("MONGOURI is required for the mongo store")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	switch c.Notify.Driver {
	case NotifyLog:
	case NotifySMTP:
		if c.Notify.SMTPHost == "" || c.Notify.SMTPFrom == "" {
			return errors.New("SMTP_HOST and SMTP_FROM are required for the smtp notifier")
		}
	case NotifyRedis:
		if c.Notify.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis notifier")
		}
	case NotifyWebhook:
		if c.Notify.WebhookURL == "" {
			return errors.New("NOTIFY_WEBHOOK_URL is required for the webhook notifier")
		}
	default:
		return fmt.Errorf("unknown NOTIFY_DRIVER %q", c.Notify.Driver)
	}

	switch c.Tracing.Exporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("unknown TRACING_EXPORTER %q", c.Tracing.Exporter)
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// TokenTTL is the lifetime of issued login tokens.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTTTL) * time.Minute
}

// NotifyTimeout bounds a single notification send.
func (c Config) NotifyTimeout() time.Duration {
	return time.Duration(c.Notify.TimeoutSeconds) * time.Second
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func positiveInt(value string, current, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
		return n
	}
	if current > 0 {
		return current
	}
	return def
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
