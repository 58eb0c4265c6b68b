package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvVars = []string{
	"ENV_FILE",
	"PUBSUB_PROJECT_ID", "PUBSUB_SUBSCRIPTION_ID", "PUBSUB_MAX_OUTSTANDING_MESSAGES",
	"PUBSUB_MAX_OUTSTANDING_BYTES", "PUBSUB_NUM_GOROUTINES", "PUBSUB_MAX_EXTENSION", "PUBSUB_SYNCHRONOUS",
	"STORAGE_BUCKET", "STORAGE_CHUNK_SIZE", "STORAGE_UPLOAD_TIMEOUT", "STORAGE_CONTENT_TYPE",
	"REDIS_ADDRESS", "REDIS_STREAM", "REDIS_MAX_LEN",
	"REDIS_DIAL_TIMEOUT", "REDIS_READ_TIMEOUT", "REDIS_WRITE_TIMEOUT", "REDIS_PING_TIMEOUT",
	"MQTT_BROKER", "MQTT_CLIENT_ID", "MQTT_TOPIC", "MQTT_QOS", "MQTT_DISCONNECT_TIMEOUT",
	"MQTT_CONNECT_TIMEOUT", "MQTT_WRITE_TIMEOUT", "MQTT_MAX_RECONNECT_INTERVAL",
	"MQTT_CA_CERT", "MQTT_CLIENT_CERT", "MQTT_CLIENT_KEY",
	"MQTT_TLS_ENABLED", "MQTT_TLS_INSECURE_SKIP", "MQTT_USE_CERT_CN_PREFIX",
	"LISTENER_SHUTDOWN_TIMEOUT", "LISTENER_PROCESS_TIMEOUT",
	"EXPORT_NULL_MARKER",
}

// clearTestEnv unsets every variable the loader reads and restores them after the test
func clearTestEnv(t *testing.T) {
	t.Helper()
	for _, key := range testEnvVars {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	// keep a stray .env in the package directory out of the way
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
}

// resetTestFlags installs a fresh, already-parsed flag set
func resetTestFlags(t *testing.T) {
	t.Helper()
	saved := flag.CommandLine
	t.Cleanup(func() { flag.CommandLine = saved })

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	resetFlags()
	if err := flag.CommandLine.Parse([]string{}); err != nil {
		t.Fatalf("failed to parse empty flags: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearTestEnv(t)
	resetTestFlags(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultConfig(), cfg)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.MQTT.Enabled())
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	clearTestEnv(t)
	resetTestFlags(t)

	t.Setenv("PUBSUB_PROJECT_ID", "my-project")
	t.Setenv("PUBSUB_SUBSCRIPTION_ID", "my-sub")
	t.Setenv("PUBSUB_MAX_EXTENSION", "5m")
	t.Setenv("STORAGE_BUCKET", "manifests")
	t.Setenv("LISTENER_SHUTDOWN_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "my-project", cfg.PubSub.ProjectID)
	assert.Equal(t, "my-sub", cfg.PubSub.SubscriptionID)
	assert.Equal(t, 5*time.Minute, cfg.PubSub.MaxExtension)
	assert.Equal(t, "manifests", cfg.Storage.Bucket)
	assert.Equal(t, 2*time.Second, cfg.Listener.ShutdownTimeout)
	assert.NoError(t, ValidateListener(cfg))
	assert.NoError(t, ValidateExporter(cfg))
}

func TestLoad_ValidationFailureIsWrapped(t *testing.T) {
	clearTestEnv(t)
	parseTestFlags(t, "-redis-address", "localhost:6379", "-redis-max-len", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "redis max len must be positive")
}

func TestLoad_RejectsOutOfRangeQoS(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		flags []string
	}{
		{"environment", "7", nil},
		{"flag", "", []string{"-mqtt-qos", "5"}},
		{"negative flag", "", []string{"-mqtt-qos=-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTestEnv(t)
			t.Setenv("MQTT_BROKER", "tcp://localhost:1883")
			if tt.env != "" {
				t.Setenv("MQTT_QOS", tt.env)
			}
			parseTestFlags(t, tt.flags...)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "mqtt qos must be 0, 1 or 2")
		})
	}
}

func TestLoad_DotEnvFillsUnsetVariables(t *testing.T) {
	clearTestEnv(t)
	resetTestFlags(t)

	path := filepath.Join(t.TempDir(), "test.env")
	content := "PUBSUB_PROJECT_ID=dotenv-project\nSTORAGE_BUCKET=dotenv-bucket\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("ENV_FILE", path)
	t.Setenv("STORAGE_BUCKET", "process-bucket")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dotenv-project", cfg.PubSub.ProjectID)
	// the process environment wins over the file
	assert.Equal(t, "process-bucket", cfg.Storage.Bucket)
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
	})

	t.Run("unreadable path", func(t *testing.T) {
		err := loadDotEnv(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load env file")
	})
}

func TestValidateBinaryRequirements(t *testing.T) {
	cfg := defaultConfig()

	assert.True(t, errors.Is(ValidateListener(cfg), ErrMissingProjectID))
	cfg.PubSub.ProjectID = "p"
	assert.True(t, errors.Is(ValidateListener(cfg), ErrMissingSubscriptionID))
	cfg.PubSub.SubscriptionID = "s"
	assert.NoError(t, ValidateListener(cfg))

	assert.True(t, errors.Is(ValidateExporter(cfg), ErrMissingBucket))
	cfg.Storage.Bucket = "b"
	assert.NoError(t, ValidateExporter(cfg))
}
