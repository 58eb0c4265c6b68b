package config

import (
	"flag"
	"fmt"
)

// Load loads configuration with precedence: defaults → .env file → environment variables → command line flags
// It performs validation and runtime transformations before returning the configuration.
func Load() (*Config, error) {
	if !flag.Parsed() {
		flag.Parse()
	}

	cfg := defaultConfig()

	// .env values only fill variables that are not already set in the process environment
	if err := loadDotEnv(envFilePath()); err != nil {
		return nil, err
	}

	loadPubSubFromEnv(&cfg.PubSub)
	loadStorageFromEnv(&cfg.Storage)
	loadRedisFromEnv(&cfg.Redis)
	loadMQTTFromEnv(&cfg.MQTT)
	loadListenerFromEnv(&cfg.Listener)
	loadExportFromEnv(&cfg.Export)

	applyPubSubFlags(&cfg.PubSub)
	applyStorageFlags(&cfg.Storage)
	applyRedisFlags(&cfg.Redis)
	applyMQTTFlags(&cfg.MQTT)
	applyListenerFlags(&cfg.Listener)
	applyExportFlags(&cfg.Export)

	if err := applyRuntimeValidation(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
