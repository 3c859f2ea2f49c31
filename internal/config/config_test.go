package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, OrderStoreMemory, cfg.OrderStore)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, "5", cfg.DeliveryFee.String())
	assert.Equal(t, 30*time.Minute, cfg.PixSessionTTL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ORDER_STORE", "Postgres")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("DELIVERY_FEE", "7.50")
	t.Setenv("PIX_SESSION_TTL", "10m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, OrderStorePostgres, cfg.OrderStore)
	assert.Equal(t, 6543, cfg.DBPort)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "7.5", cfg.DeliveryFee.String())
	assert.Equal(t, 10*time.Minute, cfg.PixSessionTTL)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ORDER_STORE", "cassandra")
	t.Setenv("DB_PORT", "abc")
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("DELIVERY_FEE", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, "ORDER_STORE")
	assert.ErrorContains(t, err, "DB_PORT")
	assert.ErrorContains(t, err, "REQUEST_TIMEOUT")
	assert.ErrorContains(t, err, "DELIVERY_FEE")
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, writeFile(dir+"/.env", "PIX_CITY=Rio de Janeiro\nWHATSAPP_PHONE=5521000000000\n"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Rio de Janeiro", cfg.PixCity)
	assert.Equal(t, "5521000000000", cfg.WhatsAppPhone)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
