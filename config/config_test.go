package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Journal.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, 100000, cfg.Memory.MaxOrders)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("SERVER_READ_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRejectsEmptyKafkaTopic(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: "8080"},
		Logger: LoggerConfig{Level: "info"},
		Memory: MemoryConfig{MaxOrders: 1, MaxTrades: 1},
		Kafka:  KafkaConfig{Enabled: true, Brokers: []string{"b:9092"}, Topic: ""},
	}
	assert.Error(t, cfg.Validate())
}
