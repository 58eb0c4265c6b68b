package config

import (
	"errors"
	"fmt"
)

// Errors for settings a binary cannot run without
var (
	ErrMissingProjectID      = errors.New("pubsub project ID cannot be empty")
	ErrMissingSubscriptionID = errors.New("pubsub subscription ID cannot be empty")
	ErrMissingBucket         = errors.New("storage bucket cannot be empty")
)

// Validate checks configuration constraints shared by every binary
func Validate(cfg *Config) error {
	if err := validatePubSub(&cfg.PubSub); err != nil {
		return err
	}
	if err := validateStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := validateRedis(&cfg.Redis); err != nil {
		return err
	}
	if err := validateMQTT(&cfg.MQTT); err != nil {
		return err
	}
	return validateListener(&cfg.Listener)
}

// ValidateListener checks the settings the listener binary requires
func ValidateListener(cfg *Config) error {
	if cfg.PubSub.ProjectID == "" {
		return ErrMissingProjectID
	}
	if cfg.PubSub.SubscriptionID == "" {
		return ErrMissingSubscriptionID
	}
	return nil
}

// ValidateExporter checks the settings the exporter binary requires before uploading
func ValidateExporter(cfg *Config) error {
	if cfg.Storage.Bucket == "" {
		return ErrMissingBucket
	}
	return nil
}

// validatePubSub validates subscriber configuration
func validatePubSub(cfg *PubSubConfig) error {
	if cfg.MaxOutstandingMessages < 1 {
		return fmt.Errorf("pubsub max outstanding messages must be positive")
	}
	if cfg.MaxOutstandingBytes < 1 {
		return fmt.Errorf("pubsub max outstanding bytes must be positive")
	}
	if cfg.NumGoroutines < 1 {
		return fmt.Errorf("pubsub goroutines must be positive")
	}
	return nil
}

// validateStorage validates Cloud Storage configuration
func validateStorage(cfg *StorageConfig) error {
	if cfg.ChunkSize < 0 {
		return fmt.Errorf("storage chunk size cannot be negative")
	}
	if cfg.UploadTimeout <= 0 {
		return fmt.Errorf("storage upload timeout must be positive")
	}
	return nil
}

// validateRedis validates ledger configuration when the ledger is enabled
func validateRedis(cfg *RedisConfig) error {
	if !cfg.Enabled() {
		return nil
	}
	if cfg.Stream == "" {
		return fmt.Errorf("redis stream cannot be empty")
	}
	if cfg.MaxLen < 1 {
		return fmt.Errorf("redis max len must be positive")
	}
	return nil
}

// validateMQTT validates relay configuration when the relay is enabled
func validateMQTT(cfg *MQTTConfig) error {
	if !cfg.Enabled() {
		return nil
	}
	if cfg.ClientID == "" {
		return fmt.Errorf("mqtt client ID cannot be empty")
	}
	if cfg.Topic == "" {
		return fmt.Errorf("mqtt topic cannot be empty")
	}
	if cfg.QoS < 0 || cfg.QoS > 2 {
		return fmt.Errorf("mqtt qos must be 0, 1 or 2")
	}
	return nil
}

// validateListener validates listener configuration
func validateListener(cfg *ListenerConfig) error {
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("listener shutdown timeout must be positive")
	}
	if cfg.ProcessTimeout <= 0 {
		return fmt.Errorf("listener process timeout must be positive")
	}
	return nil
}
