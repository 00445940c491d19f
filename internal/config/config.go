package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"acapulcoWs/internal/platform/database"
	"acapulcoWs/internal/platform/storage"
)

const (
	CatalogPostgres = "postgres"
	CatalogREST     = "rest"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Security SecurityConfig
	Database database.Config
	REST     RESTConfig
	Catalog  CatalogConfig
	Kafka    KafkaConfig
	Storage  storage.Config
	Pricing  PricingConfig
	Admin    AdminConfig
	Ordering OrderingConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type LoggingConfig struct {
	Directory string
	Level     string
	Format    string
}

type SecurityConfig struct {
	JWTSecret    string
	JWTPublicKey string
	AdminRoles   []string
	// BroadcastKey guards the webhook that pushes database events.
	BroadcastKey string
}

// RESTConfig points at the hosted backend serving the menu tables.
type RESTConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type CatalogConfig struct {
	Source string
}

type KafkaConfig struct {
	Brokers     []string
	GroupID     string
	OrdersTopic string
}

// Enabled reports whether order events go through kafka.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.OrdersTopic != ""
}

type PricingConfig struct {
	SideHalf decimal.Decimal
	SideFull decimal.Decimal
}

type AdminConfig struct {
	PollInterval time.Duration
}

type OrderingConfig struct {
	Location       string
	SessionIdleTTL time.Duration
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var errs []error

	cfg := &Config{
		Server: ServerConfig{
			Port:           getString("PORT", "8080"),
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Logging: LoggingConfig{
			Directory: getString("LOG_DIR", "./logs"),
			Level:     getString("LOG_LEVEL", "info"),
			Format:    getString("LOG_FORMAT", "text"),
		},
		Security: SecurityConfig{
			JWTSecret:    getString("JWT_SECRET", ""),
			JWTPublicKey: strings.ReplaceAll(getString("JWT_PUBLIC_KEY", ""), `\n`, "\n"),
			AdminRoles:   getList("ADMIN_ROLES", []string{"admin"}),
			BroadcastKey: getString("BROADCAST_API_KEY", ""),
		},
		Database: database.Config{
			URL: getString("DATABASE_URL", ""),
		},
		REST: RESTConfig{
			BaseURL: strings.TrimRight(getString("REST_BASE_URL", ""), "/"),
			APIKey:  getString("REST_API_KEY", ""),
		},
		Catalog: CatalogConfig{
			Source: strings.ToLower(getString("CATALOG_SOURCE", CatalogPostgres)),
		},
		Kafka: KafkaConfig{
			Brokers:     getList("KAFKA_BROKERS", getList("KAFKA_BROKER", nil)),
			GroupID:     getString("KAFKA_GROUP_ID", "acapulco-ws"),
			OrdersTopic: getString("KAFKA_ORDERS_TOPIC", "acapulco.orders"),
		},
		Storage: storage.Config{
			Endpoint:      getString("S3_ENDPOINT", ""),
			Region:        getString("S3_REGION", "auto"),
			AccessKey:     getString("S3_ACCESS_KEY_ID", ""),
			SecretKey:     getString("S3_SECRET_ACCESS_KEY", ""),
			Bucket:        getString("S3_BUCKET", ""),
			PublicBaseURL: getString("S3_PUBLIC_BASE_URL", ""),
		},
		Ordering: OrderingConfig{
			Location: getString("RESTAURANT_TIMEZONE", "Europe/Lisbon"),
		},
	}

	cfg.Database.MaxConns = int32(getInt("DATABASE_MAX_CONNS", 10, &errs))
	cfg.REST.Timeout = getDuration("REST_TIMEOUT", 5*time.Second, &errs)
	cfg.Admin.PollInterval = getDuration("ADMIN_POLL_INTERVAL", 20*time.Second, &errs)
	cfg.Ordering.SessionIdleTTL = getDuration("SESSION_IDLE_TTL", 2*time.Hour, &errs)
	cfg.Pricing.SideHalf = getDecimal("SIDE_EXTRA_HALF_PRICE", decimal.NewFromInt(3), &errs)
	cfg.Pricing.SideFull = getDecimal("SIDE_EXTRA_FULL_PRICE", decimal.NewFromInt(4), &errs)

	switch cfg.Catalog.Source {
	case CatalogPostgres:
	case CatalogREST:
		if cfg.REST.BaseURL == "" {
			errs = append(errs, fmt.Errorf("REST_BASE_URL is required when CATALOG_SOURCE=%s", CatalogREST))
		}
	default:
		errs = append(errs, fmt.Errorf("CATALOG_SOURCE must be %s or %s, got %q", CatalogPostgres, CatalogREST, cfg.Catalog.Source))
	}
	if cfg.Security.JWTSecret == "" && cfg.Security.JWTPublicKey == "" {
		errs = append(errs, errors.New("JWT_SECRET or JWT_PUBLIC_KEY is required"))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return cfg, nil
}

func getString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

// getList splits a comma separated value and drops empty entries.
func getList(key string, fallback []string) []string {
	raw := getString(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getInt(key string, fallback int, errs *[]error) int {
	raw := getString(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		*errs = append(*errs, fmt.Errorf("%s must be a non-negative integer, got %q", key, raw))
		return fallback
	}
	return value
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := getString(key, "")
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		*errs = append(*errs, fmt.Errorf("%s must be a positive duration, got %q", key, raw))
		return fallback
	}
	return value
}

func getDecimal(key string, fallback decimal.Decimal, errs *[]error) decimal.Decimal {
	raw := getString(key, "")
	if raw == "" {
		return fallback
	}
	value, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil || value.IsNegative() {
		*errs = append(*errs, fmt.Errorf("%s must be a non-negative amount, got %q", key, raw))
		return fallback
	}
	return value
}
