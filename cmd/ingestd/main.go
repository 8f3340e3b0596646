package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/paylens/ingestd/internal/config"
	"github.com/paylens/ingestd/internal/emit"
	"github.com/paylens/ingestd/internal/ingest"
	"github.com/paylens/ingestd/internal/ledger"
	"github.com/paylens/ingestd/internal/lock"
	"github.com/paylens/ingestd/internal/log"
	"github.com/paylens/ingestd/internal/storage"
	"github.com/paylens/ingestd/internal/webhook"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "start":
		os.Exit(runStart(args))
	case "check":
		os.Exit(runCheck(args))
	case "version":
		fmt.Printf("ingestd version %s\n", version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`ingestd - payment provider webhook ingestion gateway

Usage:
  ingestd <command> [flags]

Commands:
  start     Run the ingestion gateway in foreground
  check     Validate configuration and report endpoint readiness
  version   Print version

Flags:
  --config  Path to config.yaml (default ./config.yaml)
`)
}

func runStart(args []string) int {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	configPath := fs.String("config", "./config.yaml", "path to configuration file")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log.Setup(cfg.Service.LogLevel, cfg.Service.LogFormat)
	logger := log.WithComponent("ingestd")

	pidLock, err := lock.Acquire(cfg.Service.LockPath)
	if err != nil {
		logger.Error("failed to acquire instance lock", "path", cfg.Service.LockPath, "error", err)
		return 1
	}
	defer func() { _ = pidLock.Release() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The log sink always runs; ledger and kafka are configurable.
	sinks := emit.Multi{emit.NewLogEmitter(log.WithComponent("emit"))}

	if cfg.Ledger.Enabled {
		db, err := storage.OpenSQLite(ctx, cfg.Ledger.Path)
		if err != nil {
			logger.Error("failed to open event ledger", "path", cfg.Ledger.Path, "error", err)
			return 1
		}
		defer func() { _ = db.Close() }()
		sinks = append(sinks, emit.NewLedgerEmitter(ledger.NewStore(db), log.WithComponent("ledger")))
	}

	if cfg.Kafka.Enabled {
		kafkaSink := emit.NewKafkaEmitter(cfg.Kafka.Broker, cfg.Kafka.Topic)
		defer func() { _ = kafkaSink.Close() }()
		sinks = append(sinks, kafkaSink)
		logger.Info("kafka forwarding enabled", "broker", cfg.Kafka.Broker, "topic", cfg.Kafka.Topic)
	}

	var emitter ingest.Emitter = sinks

	serverCfg, err := webhook.FromConfig(cfg, emitter, log.WithComponent("webhook"))
	if err != nil {
		logger.Error("invalid webhook configuration", "error", err)
		return 1
	}

	server := webhook.New(serverCfg, log.WithComponent("webhook"))
	if err := server.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Error("webhook server failed", "error", err)
		return 1
	}

	logger.Info("shutdown complete")
	return 0
}

func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "./config.yaml", "path to configuration file")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		return 1
	}

	fmt.Printf("OK: configuration valid (%s)\n", *configPath)
	fmt.Printf("  listen: %s\n", cfg.Listen)
	for _, ep := range cfg.Endpoints {
		status := "ready"
		if !ep.SecretResolved() {
			status = "SECRET UNRESOLVED (endpoint will answer 500)"
		}
		fmt.Printf("  endpoint %s: %s\n", ep.Path, status)
	}
	if cfg.Ledger.Enabled {
		fmt.Printf("  ledger: %s\n", cfg.Ledger.Path)
	} else {
		fmt.Println("  ledger: disabled")
	}
	if cfg.Kafka.Enabled {
		fmt.Printf("  kafka: %s topic=%s\n", cfg.Kafka.Broker, cfg.Kafka.Topic)
	}

	warned := false
	for _, ep := range cfg.Endpoints {
		if !ep.SecretResolved() {
			warned = true
		}
	}
	if warned {
		return 2
	}
	return 0
}
