// Package config reads process settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	OrderStorePostgres = "postgres"
	OrderStoreMongo    = "mongo"
	OrderStoreMemory   = "memory"
)

type Config struct {
	HTTPPort  string
	LogLevel  string
	LogFormat string

	CatalogDBPath         string
	CatalogMigrationsPath string

	RedisAddr     string
	RedisPassword string

	OrderStore           string
	DBHost               string
	DBPort               int
	DBUser               string
	DBPassword           string
	DBName               string
	OrdersMigrationsPath string
	MongoURI             string
	MongoDBName          string

	KafkaBrokers []string

	PixKey        string
	PixMerchant   string
	PixCity       string
	WhatsAppPhone string
	DeliveryFee   decimal.Decimal

	PixSessionTTL   time.Duration
	CartSessionTTL  time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Load reads .env when present and then the environment. Variables already
// set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var errs []error
	cfg := &Config{
		HTTPPort:  getEnv("HTTP_PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		CatalogDBPath:         getEnv("CATALOG_DB_PATH", "./catalog.db"),
		CatalogMigrationsPath: getEnv("CATALOG_MIGRATIONS_PATH", "./internal/catalog/migrations"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		OrderStore:           strings.ToLower(getEnv("ORDER_STORE", OrderStoreMemory)),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnvInt("DB_PORT", 5432, &errs),
		DBUser:               getEnv("DB_USER", "postgres"),
		DBPassword:           getEnv("DB_PASSWORD", "postgres"),
		DBName:               getEnv("DB_NAME", "italicita"),
		OrdersMigrationsPath: getEnv("ORDERS_MIGRATIONS_PATH", "./internal/orders/migrations"),
		MongoURI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:          getEnv("MONGO_DB_NAME", "italicita"),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),

		PixKey:        getEnv("PIX_KEY", "12345678900"),
		PixMerchant:   getEnv("PIX_MERCHANT", "Italicita Delivery"),
		PixCity:       getEnv("PIX_CITY", "Niteroi"),
		WhatsAppPhone: getEnv("WHATSAPP_PHONE", "5521998526500"),
		DeliveryFee:   getEnvDecimal("DELIVERY_FEE", "5.00", &errs),

		PixSessionTTL:   getEnvDuration("PIX_SESSION_TTL", 30*time.Minute, &errs),
		CartSessionTTL:  getEnvDuration("CART_SESSION_TTL", 2*time.Hour, &errs),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second, &errs),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second, &errs),
	}

	switch cfg.OrderStore {
	case OrderStorePostgres, OrderStoreMongo, OrderStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("ORDER_STORE: unknown store %q", cfg.OrderStore))
	}
	if cfg.DeliveryFee.IsNegative() {
		errs = append(errs, errors.New("DELIVERY_FEE: must not be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}

func getEnvDecimal(key, defaultValue string, errs *[]error) decimal.Decimal {
	d, err := decimal.NewFromString(getEnv(key, defaultValue))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return decimal.Zero
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
