package config

import (
	"flag"
)

// Command line flags (have precedence over environment variables)
var (
	// Pub/Sub flags
	flagPubSubProject       = flag.String("pubsub-project", "", "Google Cloud project ID")
	flagPubSubSubscription  = flag.String("pubsub-subscription", "", "Pub/Sub subscription ID")
	flagPubSubMaxMessages   = flag.Int("pubsub-max-outstanding-messages", 0, "Max unprocessed messages held by the subscriber")
	flagPubSubMaxBytes      = flag.Int("pubsub-max-outstanding-bytes", 0, "Max unprocessed bytes held by the subscriber")
	flagPubSubNumGoroutines = flag.Int("pubsub-num-goroutines", 0, "Number of streaming pull goroutines")
	flagPubSubMaxExtension  = flag.Duration("pubsub-max-extension", 0, "Max ack deadline extension per message")
	flagPubSubSynchronous   = flag.Bool("pubsub-synchronous", false, "Use synchronous pull instead of streaming pull")

	// Storage flags
	flagStorageBucket        = flag.String("storage-bucket", "", "Cloud Storage bucket")
	flagStorageChunkSize     = flag.Int("storage-chunk-size", 0, "Upload chunk size in bytes")
	flagStorageUploadTimeout = flag.Duration("storage-upload-timeout", 0, "Upload timeout")
	flagStorageContentType   = flag.String("storage-content-type", "", "Content type of uploaded objects")

	// Redis flags
	flagRedisAddress      = flag.String("redis-address", "", "Redis address for the ack ledger (empty disables it)")
	flagRedisStream       = flag.String("redis-stream", "", "Redis stream used as ack ledger")
	flagRedisMaxLen       = flag.Int("redis-max-len", 0, "Approximate max length of the ledger stream")
	flagRedisDialTimeout  = flag.Duration("redis-dial-timeout", 0, "Redis dial timeout")
	flagRedisReadTimeout  = flag.Duration("redis-read-timeout", 0, "Redis read timeout")
	flagRedisWriteTimeout = flag.Duration("redis-write-timeout", 0, "Redis write timeout")
	flagRedisPingTimeout  = flag.Duration("redis-ping-timeout", 0, "Redis ping timeout")

	// MQTT flags
	flagMQTTBroker            = flag.String("mqtt-broker", "", "MQTT broker URL for the relay (empty disables it)")
	flagMQTTClientID          = flag.String("mqtt-client-id", "", "MQTT client ID")
	flagMQTTTopic             = flag.String("mqtt-topic", "", "MQTT relay topic")
	flagMQTTQoS               = flag.Int("mqtt-qos", -1, "MQTT QoS (0, 1, or 2)")
	flagMQTTConnectTimeout    = flag.Duration("mqtt-connect-timeout", 0, "MQTT connect timeout")
	flagMQTTWriteTimeout      = flag.Duration("mqtt-write-timeout", 0, "MQTT write timeout")
	flagMQTTMaxReconnect      = flag.Duration("mqtt-max-reconnect-interval", 0, "MQTT max reconnect interval")
	flagMQTTDisconnectTimeout = flag.Int("mqtt-disconnect-timeout", 0, "MQTT disconnect timeout (ms)")
	flagMQTTTLSEnabled        = flag.Bool("mqtt-tls-enabled", false, "Enable MQTT TLS")
	flagMQTTCACert            = flag.String("mqtt-ca-cert", "", "MQTT CA certificate path")
	flagMQTTClientCert        = flag.String("mqtt-client-cert", "", "MQTT client certificate path")
	flagMQTTClientKey         = flag.String("mqtt-client-key", "", "MQTT client key path")
	flagMQTTTLSInsecureSkip   = flag.Bool("mqtt-tls-insecure-skip", false, "Skip MQTT TLS verification")
	flagMQTTUseCertCNPrefix   = flag.Bool("mqtt-use-cert-cn-prefix", false, "Prefix the relay topic with client cert CN")

	// Listener flags
	flagListenerShutdownTimeout = flag.Duration("listener-shutdown-timeout", 0, "Listener shutdown timeout")
	flagListenerProcessTimeout  = flag.Duration("listener-process-timeout", 0, "Per-message processing timeout")

	// Export flags
	flagExportNullMarker = flag.String("export-null-marker", "", "Text written for absent fields")
)

// applyPubSubFlags applies command line flags to subscriber configuration
func applyPubSubFlags(cfg *PubSubConfig) {
	if *flagPubSubProject != "" {
		cfg.ProjectID = *flagPubSubProject
	}
	if *flagPubSubSubscription != "" {
		cfg.SubscriptionID = *flagPubSubSubscription
	}
	if *flagPubSubMaxMessages != 0 {
		cfg.MaxOutstandingMessages = *flagPubSubMaxMessages
	}
	if *flagPubSubMaxBytes != 0 {
		cfg.MaxOutstandingBytes = *flagPubSubMaxBytes
	}
	if *flagPubSubNumGoroutines != 0 {
		cfg.NumGoroutines = *flagPubSubNumGoroutines
	}
	if *flagPubSubMaxExtension != 0 {
		cfg.MaxExtension = *flagPubSubMaxExtension
	}
	if isFlagSet("pubsub-synchronous") {
		cfg.Synchronous = *flagPubSubSynchronous
	}
}

// applyStorageFlags applies command line flags to Cloud Storage configuration
func applyStorageFlags(cfg *StorageConfig) {
	if *flagStorageBucket != "" {
		cfg.Bucket = *flagStorageBucket
	}
	if *flagStorageChunkSize != 0 {
		cfg.ChunkSize = *flagStorageChunkSize
	}
	if *flagStorageUploadTimeout != 0 {
		cfg.UploadTimeout = *flagStorageUploadTimeout
	}
	if *flagStorageContentType != "" {
		cfg.ContentType = *flagStorageContentType
	}
}

// applyRedisFlags applies command line flags to ledger configuration
func applyRedisFlags(cfg *RedisConfig) {
	if *flagRedisAddress != "" {
		cfg.Address = *flagRedisAddress
	}
	if *flagRedisStream != "" {
		cfg.Stream = *flagRedisStream
	}
	if *flagRedisMaxLen != 0 {
		cfg.MaxLen = int64(*flagRedisMaxLen)
	}
	if *flagRedisDialTimeout != 0 {
		cfg.DialTimeout = *flagRedisDialTimeout
	}
	if *flagRedisReadTimeout != 0 {
		cfg.ReadTimeout = *flagRedisReadTimeout
	}
	if *flagRedisWriteTimeout != 0 {
		cfg.WriteTimeout = *flagRedisWriteTimeout
	}
	if *flagRedisPingTimeout != 0 {
		cfg.PingTimeout = *flagRedisPingTimeout
	}
}

// applyMQTTFlags applies command line flags to relay configuration
func applyMQTTFlags(cfg *MQTTConfig) {
	applyMQTTFlagStrings(cfg)
	applyMQTTFlagInts(cfg)
	applyMQTTFlagTimeouts(cfg)
	applyMQTTFlagTLS(cfg)
}

func applyMQTTFlagStrings(cfg *MQTTConfig) {
	if *flagMQTTBroker != "" {
		cfg.Broker = *flagMQTTBroker
	}
	if *flagMQTTClientID != "" {
		cfg.ClientID = *flagMQTTClientID
	}
	if *flagMQTTTopic != "" {
		cfg.Topic = *flagMQTTTopic
	}
}

func applyMQTTFlagInts(cfg *MQTTConfig) {
	// -1 is only the unset marker; an explicit value is kept for Validate
	if isFlagSet("mqtt-qos") {
		cfg.QoS = *flagMQTTQoS
	}
	if *flagMQTTDisconnectTimeout > 0 {
		cfg.DisconnectTimeout = uint(*flagMQTTDisconnectTimeout)
	}
}

func applyMQTTFlagTimeouts(cfg *MQTTConfig) {
	if *flagMQTTConnectTimeout != 0 {
		cfg.ConnectTimeout = *flagMQTTConnectTimeout
	}
	if *flagMQTTWriteTimeout != 0 {
		cfg.WriteTimeout = *flagMQTTWriteTimeout
	}
	if *flagMQTTMaxReconnect != 0 {
		cfg.MaxReconnectInterval = *flagMQTTMaxReconnect
	}
}

func applyMQTTFlagTLS(cfg *MQTTConfig) {
	if *flagMQTTCACert != "" {
		cfg.CACert = *flagMQTTCACert
	}
	if *flagMQTTClientCert != "" {
		cfg.ClientCert = *flagMQTTClientCert
	}
	if *flagMQTTClientKey != "" {
		cfg.ClientKey = *flagMQTTClientKey
	}
	// Bool flags only override when explicitly set
	if isFlagSet("mqtt-tls-enabled") {
		cfg.TLSEnabled = *flagMQTTTLSEnabled
	}
	if isFlagSet("mqtt-tls-insecure-skip") {
		cfg.InsecureSkip = *flagMQTTTLSInsecureSkip
	}
	if isFlagSet("mqtt-use-cert-cn-prefix") {
		cfg.UseCertCNPrefix = *flagMQTTUseCertCNPrefix
	}
}

// applyListenerFlags applies command line flags to listener configuration
func applyListenerFlags(cfg *ListenerConfig) {
	if *flagListenerShutdownTimeout != 0 {
		cfg.ShutdownTimeout = *flagListenerShutdownTimeout
	}
	if *flagListenerProcessTimeout != 0 {
		cfg.ProcessTimeout = *flagListenerProcessTimeout
	}
}

// applyExportFlags applies command line flags to export configuration
func applyExportFlags(cfg *ExportConfig) {
	if isFlagSet("export-null-marker") {
		cfg.NullMarker = *flagExportNullMarker
	}
}

// isFlagSet checks if a flag was explicitly set on the command line
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
