package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds all environment variables for the storefront client.
type Config struct {
	Env            string        // "production" switches the logger to JSON output
	Port           string        // Shell server port (default: 8090)
	APIBaseURL     string        // Marketplace backend base URL
	RequestTimeout time.Duration // Per-call timeout for backend requests

	StoreDriver string // memory | sqlite | redis
	StorePath   string // SQLite file used by the sqlite driver
	RedisURL    string
	RedisPrefix string

	TaxRate     decimal.Decimal
	DeliveryFee decimal.Decimal
	CartPersist bool

	CORSOrigins    []string
	RateLimitRPM   int
	RateLimitBurst int
}

// Load reads .env (when present) and the process environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Env:         getEnv("ENV", "development"),
		Port:        getEnv("PORT", "8090"),
		APIBaseURL:  strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8001"), "/"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreSQLite)),
		StorePath:   getEnv("STORE_PATH", "storefront.db"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPrefix: getEnv("REDIS_PREFIX", "storefront:"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.RequestTimeout, err = time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	if cfg.TaxRate, err = decimal.NewFromString(getEnv("TAX_RATE", "0.08")); err != nil {
		return nil, fmt.Errorf("invalid TAX_RATE: %w", err)
	}
	if cfg.DeliveryFee, err = decimal.NewFromString(getEnv("DELIVERY_FEE", "5.00")); err != nil {
		return nil, fmt.Errorf("invalid DELIVERY_FEE: %w", err)
	}
	if cfg.CartPersist, err = strconv.ParseBool(getEnv("CART_PERSIST", "false")); err != nil {
		return nil, fmt.Errorf("invalid CART_PERSIST: %w", err)
	}
	if cfg.RateLimitRPM, err = strconv.Atoi(getEnv("RATE_LIMIT_RPM", "100")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPM: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "50")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.TaxRate.IsNegative() {
		return fmt.Errorf("TAX_RATE must not be negative")
	}
	if c.DeliveryFee.IsNegative() {
		return fmt.Errorf("DELIVERY_FEE must not be negative")
	}
	if c.RateLimitRPM <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit settings must be positive")
	}
	return nil
}

// IsProduction reports whether the production logger profile applies.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
