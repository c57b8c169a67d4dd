package main

import (
	"context"
	"fmt"
	"os"

	"github.com/iho/jobledger/internal/infrastructure/config"
	"github.com/iho/jobledger/internal/infrastructure/logger"
	"github.com/iho/jobledger/internal/infrastructure/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(exitFailure)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	a := &app{
		cfg:     cfg,
		logger:  log,
		metrics: metrics.New(),
	}
	a.connect = a.connectPostgres

	os.Exit(a.run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
