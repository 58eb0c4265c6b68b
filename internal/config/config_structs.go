// Package config provides configuration loading and validation from a .env file, environment variables and command line flags.
package config

import "time"

// Config holds the complete configuration
type Config struct {
	PubSub   PubSubConfig
	Storage  StorageConfig
	Redis    RedisConfig
	MQTT     MQTTConfig
	Listener ListenerConfig
	Export   ExportConfig
}

// PubSubConfig holds subscriber client settings
type PubSubConfig struct {
	ProjectID              string
	SubscriptionID         string
	MaxOutstandingMessages int
	MaxOutstandingBytes    int
	NumGoroutines          int
	MaxExtension           time.Duration
	Synchronous            bool
}

// StorageConfig holds Cloud Storage transfer settings
type StorageConfig struct {
	Bucket        string
	ChunkSize     int // Bytes buffered per upload request, 0 disables resumable uploads
	UploadTimeout time.Duration
	ContentType   string
}

// RedisConfig holds the acknowledgement ledger settings.
// An empty Address disables the ledger.
type RedisConfig struct {
	Address      string
	Stream       string
	MaxLen       int64
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PingTimeout  time.Duration
}

// Enabled reports whether the ledger should be started
func (c RedisConfig) Enabled() bool {
	return c.Address != ""
}

// MQTTConfig holds the relay publisher settings.
// An empty Broker disables the relay.
type MQTTConfig struct {
	Broker               string
	ClientID             string
	Topic                string
	QoS                  int
	ConnectTimeout       time.Duration
	WriteTimeout         time.Duration
	MaxReconnectInterval time.Duration
	DisconnectTimeout    uint // Milliseconds for graceful disconnect
	// TLS Configuration
	TLSEnabled      bool
	CACert          string
	ClientCert      string
	ClientKey       string
	InsecureSkip    bool
	UseCertCNPrefix bool // If true, prefix the topic with cert CN for ACL constraints
}

// Enabled reports whether the relay should be started
func (c MQTTConfig) Enabled() bool {
	return c.Broker != ""
}

// ListenerConfig holds listener orchestration settings
type ListenerConfig struct {
	ShutdownTimeout time.Duration
	ProcessTimeout  time.Duration // Upper bound for running all sinks on one message
}

// ExportConfig holds TSV export settings
type ExportConfig struct {
	NullMarker string
}
