package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadMQTTFromEnv(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("MQTT_BROKER", "ssl://broker:8883")
	t.Setenv("MQTT_QOS", "0")
	t.Setenv("MQTT_DISCONNECT_TIMEOUT", "500")
	t.Setenv("MQTT_WRITE_TIMEOUT", "7s")
	t.Setenv("MQTT_TLS_ENABLED", "true")
	t.Setenv("MQTT_USE_CERT_CN_PREFIX", "1")

	cfg := defaultMQTTConfig()
	loadMQTTFromEnv(&cfg)

	assert.Equal(t, "ssl://broker:8883", cfg.Broker)
	assert.Equal(t, 0, cfg.QoS)
	assert.Equal(t, uint(500), cfg.DisconnectTimeout)
	assert.Equal(t, 7*time.Second, cfg.WriteTimeout)
	assert.True(t, cfg.TLSEnabled)
	assert.True(t, cfg.UseCertCNPrefix)
	assert.False(t, cfg.InsecureSkip)
}

func TestLoadMQTTFromEnv_QoSStoredAsGiven(t *testing.T) {
	clearTestEnv(t)

	t.Setenv("MQTT_QOS", "7")
	cfg := defaultMQTTConfig()
	loadMQTTFromEnv(&cfg)
	assert.Equal(t, 7, cfg.QoS)

	t.Setenv("MQTT_QOS", "two")
	cfg = defaultMQTTConfig()
	loadMQTTFromEnv(&cfg)
	assert.Equal(t, 1, cfg.QoS)
}

func TestLoadRedisFromEnv(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("REDIS_ADDRESS", "redis:6379")
	t.Setenv("REDIS_STREAM", "acks")
	t.Setenv("REDIS_MAX_LEN", "42")
	t.Setenv("REDIS_PING_TIMEOUT", "1s")

	cfg := defaultRedisConfig()
	loadRedisFromEnv(&cfg)

	assert.True(t, cfg.Enabled())
	assert.Equal(t, "acks", cfg.Stream)
	assert.Equal(t, int64(42), cfg.MaxLen)
	assert.Equal(t, time.Second, cfg.PingTimeout)
	assert.Equal(t, 10*time.Second, cfg.DialTimeout)
}

func TestLoadPubSubFromEnv(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("PUBSUB_MAX_OUTSTANDING_MESSAGES", "10")
	t.Setenv("PUBSUB_SYNCHRONOUS", "true")
	t.Setenv("PUBSUB_NUM_GOROUTINES", "not-a-number")

	cfg := defaultPubSubConfig()
	loadPubSubFromEnv(&cfg)

	assert.Equal(t, 10, cfg.MaxOutstandingMessages)
	assert.True(t, cfg.Synchronous)
	assert.Equal(t, 10, cfg.NumGoroutines)
}

func TestLoadExportFromEnv(t *testing.T) {
	clearTestEnv(t)

	cfg := defaultExportConfig()
	loadExportFromEnv(&cfg)
	assert.Equal(t, "", cfg.NullMarker)

	t.Setenv("EXPORT_NULL_MARKER", `\N`)
	loadExportFromEnv(&cfg)
	assert.Equal(t, `\N`, cfg.NullMarker)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "12")
	t.Setenv("TEST_BAD_INT", "x")
	t.Setenv("TEST_DURATION", "150ms")
	t.Setenv("TEST_BOOL", "false")

	assert.Equal(t, 12, getEnvInt("TEST_INT"))
	assert.Equal(t, 0, getEnvInt("TEST_BAD_INT"))
	assert.Equal(t, 150*time.Millisecond, getEnvDuration("TEST_DURATION"))
	assert.Equal(t, time.Duration(0), getEnvDuration("TEST_BAD_INT"))
	assert.False(t, getEnvBool("TEST_BOOL"))
	assert.False(t, getEnvBool("TEST_UNSET_BOOL"))
}

func TestEnabled(t *testing.T) {
	assert.False(t, RedisConfig{}.Enabled())
	assert.True(t, RedisConfig{Address: "localhost:6379"}.Enabled())
	assert.False(t, MQTTConfig{}.Enabled())
	assert.True(t, MQTTConfig{Broker: "tcp://localhost:1883"}.Enabled())
}
