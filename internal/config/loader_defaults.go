package config

import "time"

// defaultPubSubConfig returns the default subscriber configuration
func defaultPubSubConfig() PubSubConfig {
	return PubSubConfig{
		MaxOutstandingMessages: 1000,
		MaxOutstandingBytes:    1e9,
		NumGoroutines:          10,
		MaxExtension:           60 * time.Minute,
		Synchronous:            false,
	}
}

// defaultStorageConfig returns the default Cloud Storage configuration
func defaultStorageConfig() StorageConfig {
	return StorageConfig{
		ChunkSize:     16 * 1024 * 1024,
		UploadTimeout: 10 * time.Minute,
		ContentType:   "text/tab-separated-values",
	}
}

// defaultRedisConfig returns the default ledger configuration (disabled)
func defaultRedisConfig() RedisConfig {
	return RedisConfig{
		Address:      "",
		Stream:       "pubsub-ack-ledger",
		MaxLen:       100000,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Second,
		PingTimeout:  5 * time.Second,
	}
}

// defaultMQTTConfig returns the default relay configuration (disabled)
func defaultMQTTConfig() MQTTConfig {
	return MQTTConfig{
		Broker:               "",
		ClientID:             "bucket-manifest-listener",
		Topic:                "pubsub/relay/messages",
		QoS:                  1,
		ConnectTimeout:       10 * time.Second,
		WriteTimeout:         30 * time.Second,
		MaxReconnectInterval: 10 * time.Second,
		DisconnectTimeout:    1000,
	}
}

// defaultListenerConfig returns the default listener configuration
func defaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		ShutdownTimeout: 30 * time.Second,
		ProcessTimeout:  30 * time.Second,
	}
}

// defaultExportConfig returns the default export configuration
func defaultExportConfig() ExportConfig {
	return ExportConfig{
		NullMarker: "",
	}
}

// defaultConfig returns a complete configuration with all default values
func defaultConfig() *Config {
	return &Config{
		PubSub:   defaultPubSubConfig(),
		Storage:  defaultStorageConfig(),
		Redis:    defaultRedisConfig(),
		MQTT:     defaultMQTTConfig(),
		Listener: defaultListenerConfig(),
		Export:   defaultExportConfig(),
	}
}
