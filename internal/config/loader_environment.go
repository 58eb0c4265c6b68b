package config

import (
	"os"
	"strconv"
	"time"
)

// loadPubSubFromEnv loads subscriber configuration from environment variables
func loadPubSubFromEnv(cfg *PubSubConfig) {
	if v := getEnvString("PUBSUB_PROJECT_ID"); v != "" {
		cfg.ProjectID = v
	}
	if v := getEnvString("PUBSUB_SUBSCRIPTION_ID"); v != "" {
		cfg.SubscriptionID = v
	}
	if v := getEnvInt("PUBSUB_MAX_OUTSTANDING_MESSAGES"); v != 0 {
		cfg.MaxOutstandingMessages = v
	}
	if v := getEnvInt("PUBSUB_MAX_OUTSTANDING_BYTES"); v != 0 {
		cfg.MaxOutstandingBytes = v
	}
	if v := getEnvInt("PUBSUB_NUM_GOROUTINES"); v != 0 {
		cfg.NumGoroutines = v
	}
	if v := getEnvDuration("PUBSUB_MAX_EXTENSION"); v != 0 {
		cfg.MaxExtension = v
	}
	if v := getEnvBool("PUBSUB_SYNCHRONOUS"); v {
		cfg.Synchronous = v
	}
}

// loadStorageFromEnv loads Cloud Storage configuration from environment variables
func loadStorageFromEnv(cfg *StorageConfig) {
	if v := getEnvString("STORAGE_BUCKET"); v != "" {
		cfg.Bucket = v
	}
	if v := getEnvInt("STORAGE_CHUNK_SIZE"); v != 0 {
		cfg.ChunkSize = v
	}
	if v := getEnvDuration("STORAGE_UPLOAD_TIMEOUT"); v != 0 {
		cfg.UploadTimeout = v
	}
	if v := getEnvString("STORAGE_CONTENT_TYPE"); v != "" {
		cfg.ContentType = v
	}
}

// loadRedisFromEnv loads ledger configuration from environment variables
func loadRedisFromEnv(cfg *RedisConfig) {
	if v := getEnvString("REDIS_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if v := getEnvString("REDIS_STREAM"); v != "" {
		cfg.Stream = v
	}
	if v := getEnvInt("REDIS_MAX_LEN"); v != 0 {
		cfg.MaxLen = int64(v)
	}
	loadRedisTimeouts(cfg)
}

func loadRedisTimeouts(cfg *RedisConfig) {
	if v := getEnvDuration("REDIS_DIAL_TIMEOUT"); v != 0 {
		cfg.DialTimeout = v
	}
	if v := getEnvDuration("REDIS_READ_TIMEOUT"); v != 0 {
		cfg.ReadTimeout = v
	}
	if v := getEnvDuration("REDIS_WRITE_TIMEOUT"); v != 0 {
		cfg.WriteTimeout = v
	}
	if v := getEnvDuration("REDIS_PING_TIMEOUT"); v != 0 {
		cfg.PingTimeout = v
	}
}

// loadMQTTFromEnv loads relay configuration from environment variables
func loadMQTTFromEnv(cfg *MQTTConfig) {
	loadMQTTStrings(cfg)
	loadMQTTInts(cfg)
	loadMQTTTimeouts(cfg)
	loadMQTTTLS(cfg)
}

func loadMQTTStrings(cfg *MQTTConfig) {
	if v := getEnvString("MQTT_BROKER"); v != "" {
		cfg.Broker = v
	}
	if v := getEnvString("MQTT_CLIENT_ID"); v != "" {
		cfg.ClientID = v
	}
	if v := getEnvString("MQTT_TOPIC"); v != "" {
		cfg.Topic = v
	}
}

func loadMQTTInts(cfg *MQTTConfig) {
	// QoS 0 is a valid value, so presence is checked instead of the zero value
	if raw, ok := os.LookupEnv("MQTT_QOS"); ok {
		if v, err := strconv.Atoi(raw); err == nil {
			cfg.QoS = v
		}
	}
	if v := getEnvInt("MQTT_DISCONNECT_TIMEOUT"); v > 0 {
		cfg.DisconnectTimeout = uint(v)
	}
}

func loadMQTTTimeouts(cfg *MQTTConfig) {
	if v := getEnvDuration("MQTT_CONNECT_TIMEOUT"); v != 0 {
		cfg.ConnectTimeout = v
	}
	if v := getEnvDuration("MQTT_WRITE_TIMEOUT"); v != 0 {
		cfg.WriteTimeout = v
	}
	if v := getEnvDuration("MQTT_MAX_RECONNECT_INTERVAL"); v != 0 {
		cfg.MaxReconnectInterval = v
	}
}

func loadMQTTTLS(cfg *MQTTConfig) {
	if v := getEnvString("MQTT_CA_CERT"); v != "" {
		cfg.CACert = v
	}
	if v := getEnvString("MQTT_CLIENT_CERT"); v != "" {
		cfg.ClientCert = v
	}
	if v := getEnvString("MQTT_CLIENT_KEY"); v != "" {
		cfg.ClientKey = v
	}
	if v := getEnvBool("MQTT_TLS_ENABLED"); v {
		cfg.TLSEnabled = v
	}
	if v := getEnvBool("MQTT_TLS_INSECURE_SKIP"); v {
		cfg.InsecureSkip = v
	}
	if v := getEnvBool("MQTT_USE_CERT_CN_PREFIX"); v {
		cfg.UseCertCNPrefix = v
	}
}

// loadListenerFromEnv loads listener configuration from environment variables
func loadListenerFromEnv(cfg *ListenerConfig) {
	if v := getEnvDuration("LISTENER_SHUTDOWN_TIMEOUT"); v != 0 {
		cfg.ShutdownTimeout = v
	}
	if v := getEnvDuration("LISTENER_PROCESS_TIMEOUT"); v != 0 {
		cfg.ProcessTimeout = v
	}
}

// loadExportFromEnv loads export configuration from environment variables
func loadExportFromEnv(cfg *ExportConfig) {
	if v, ok := os.LookupEnv("EXPORT_NULL_MARKER"); ok {
		cfg.NullMarker = v
	}
}

// Helper functions for reading environment variables

func getEnvString(key string) string {
	return os.Getenv(key)
}

func getEnvInt(key string) int {
	value := os.Getenv(key)
	if value == "" {
		return 0
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return intValue
}

func getEnvDuration(key string) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return 0
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return duration
}

func getEnvBool(key string) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && value
}
