package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestParseDurationWithDays(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, parseDurationWithDays("7d"))
	assert.Equal(t, 90*time.Minute, parseDurationWithDays("90m"))
	assert.Zero(t, parseDurationWithDays("soon"))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, splitAndTrim(" k1:9092, ,k2:9092 "))
	assert.Nil(t, splitAndTrim(""))
}

func TestLoad_RequiredAndDefaults(t *testing.T) {
	t.Setenv("APP_PORT", ":8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_NAME", "avtoray")
	t.Setenv("KAFKA_BROKERS", "k1:9092")
	t.Setenv("ACCESS_EXP", "2d")

	cfg := Load(zap.NewNop())
	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, 48*time.Hour, cfg.JWT.AccessExp)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
	assert.Equal(t, []string{"k1:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "orders.events", cfg.Kafka.Topic)
	assert.False(t, cfg.Redis.Enabled)
}

func TestGetEnv_PanicsOnMissingRequired(t *testing.T) {
	assert.Panics(t, func() {
		getEnv("AVTORAY_DEFINITELY_UNSET_KEY", zap.NewNop())
	})
}

func TestLoad_UploadCleanupInterval(t *testing.T) {
	for _, k := range []string{"APP_PORT", "JWT_SECRET", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME"} {
		t.Setenv(k, "x")
	}

	assert.Equal(t, 6*time.Hour, Load(zap.NewNop()).UploadCleanupInterval)

	t.Setenv("UPLOAD_CLEANUP_INTERVAL", "0")
	assert.Zero(t, Load(zap.NewNop()).UploadCleanupInterval)
}
