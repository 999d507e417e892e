// Command ingest runs stock update batches from the command line.
package main

import (
	"fmt"
	"os"

	"marketpulse/internal/config"
	"marketpulse/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Env, cfg.LogFile)
	defer logger.Sync()

	if err := newRootCmd(cfg).Execute(); err != nil {
		logger.Sync()
		os.Exit(1)
	}
}
