// Package main starts the Pub/Sub listener binary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ibs-source/bucket-manifest/internal/config"
	"github.com/ibs-source/bucket-manifest/internal/listener"
	"github.com/ibs-source/bucket-manifest/internal/log"
	"github.com/ibs-source/bucket-manifest/internal/mqtt"
	"github.com/ibs-source/bucket-manifest/internal/pubsub"
	"github.com/ibs-source/bucket-manifest/internal/redis"
)

const usage = `Usage: listener [flags] <project_id> <subscription_id>

Receives messages from a Pub/Sub subscription, prints and acknowledges them.

Flags:
`

// services are the clients owned by main, closed in reverse creation order
type services struct {
	pubsub *pubsub.Client
	mqtt   *mqtt.Client
	redis  *redis.Client
}

func run() int {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		return 2
	}

	logger := log.New()
	logger.Info("Starting Pub/Sub listener")

	cfg := loadAndLogConfig(logger, flag.Arg(0), flag.Arg(1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := initializeServices(ctx, cfg, logger)
	defer closeServices(svc, logger)

	l := listener.New(svc.pubsub, buildSinks(svc), ledgerFor(svc), &cfg.Listener, logger)
	return runMainLoop(ctx, cancel, l, cfg, logger)
}

func loadAndLogConfig(logger *log.Logger, project, subscription string) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}
	cfg.PubSub.ProjectID = project
	cfg.PubSub.SubscriptionID = subscription
	if err := config.ValidateListener(cfg); err != nil {
		logger.Fatal("Invalid listener configuration: %v", err)
	}

	logger.Info("Configuration loaded successfully")
	logger.Info("Pub/Sub: %s (goroutines=%d, max outstanding=%d)",
		pubsub.SubscriptionPath(project, subscription), cfg.PubSub.NumGoroutines, cfg.PubSub.MaxOutstandingMessages)
	if cfg.MQTT.Enabled() {
		logger.Info("MQTT relay: %s, Topic: %s", cfg.MQTT.Broker, cfg.MQTT.Topic)
	}
	if cfg.Redis.Enabled() {
		logger.Info("Redis ledger: %s, Stream: %s", cfg.Redis.Address, cfg.Redis.Stream)
	}
	return cfg
}

func initializeServices(ctx context.Context, cfg *config.Config, logger *log.Logger) *services {
	svc := &services{}

	client, err := pubsub.NewClient(ctx, &cfg.PubSub, logger)
	if err != nil {
		logger.Fatal("Failed to create Pub/Sub client: %v", err)
	}
	svc.pubsub = client

	if cfg.MQTT.Enabled() {
		mqttClient, err := mqtt.NewClient(&cfg.MQTT, logger)
		if err != nil {
			closeServices(svc, logger)
			logger.Fatal("Failed to create MQTT client: %v", err)
		}
		svc.mqtt = mqttClient
	}

	if cfg.Redis.Enabled() {
		redisClient, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			closeServices(svc, logger)
			logger.Fatal("Failed to create Redis client: %v", err)
		}
		svc.redis = redisClient
	}

	return svc
}

func buildSinks(svc *services) []listener.Sink {
	sinks := []listener.Sink{listener.NewPrinter(os.Stdout)}
	if svc.mqtt != nil {
		sinks = append(sinks, listener.NewRelay(svc.mqtt, svc.pubsub.Path()))
	}
	return sinks
}

// ledgerFor returns a nil interface when the ledger is disabled
func ledgerFor(svc *services) listener.Ledger {
	if svc.redis == nil {
		return nil
	}
	return svc.redis
}

func closeServices(svc *services, logger *log.Logger) {
	if svc.redis != nil {
		if err := svc.redis.Close(); err != nil {
			logger.Error("Error closing Redis client: %v", err)
		}
	}
	if svc.mqtt != nil {
		if err := svc.mqtt.Close(); err != nil {
			logger.Error("Error closing MQTT client: %v", err)
		}
	}
	if svc.pubsub != nil {
		if err := svc.pubsub.Close(); err != nil {
			logger.Error("Error closing Pub/Sub client: %v", err)
		}
	}
}

func runMainLoop(ctx context.Context, cancel context.CancelFunc, l *listener.Listener, cfg *config.Config, logger *log.Logger) int {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- l.Run(ctx)
	}()

	select {
	case sig := <-sigChan:
		logger.Info("Received signal %v, initiating graceful shutdown", sig)
		cancel()
		return handleGracefulShutdown(errChan, cfg, logger)

	case err := <-errChan:
		return exitCode(err, logger)
	}
}

func handleGracefulShutdown(errChan <-chan error, cfg *config.Config, logger *log.Logger) int {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Listener.ShutdownTimeout)
	defer shutdownCancel()

	select {
	case err := <-errChan:
		if code := exitCode(err, logger); code != 0 {
			return code
		}
		logger.Info("Graceful shutdown completed")
		return 0
	case <-shutdownCtx.Done():
		logger.Error("Shutdown timeout exceeded")
		return 1
	}
}

func exitCode(err error, logger *log.Logger) int {
	if err == nil {
		logger.Info("Listener stopped")
		return 0
	}
	logger.Error("Listener error: %v", err)
	return 1
}

func main() {
	// Keep main minimal to ensure defers in run() execute correctly.
	os.Exit(run())
}
