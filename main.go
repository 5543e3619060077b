package main

import (
	"fmt"
	"os"

	"project/customer-loader/config"
	"project/customer-loader/logging"
	"project/customer-loader/session"
)

const configFile = "customer-loader.yaml"

func main() {
	// 1. Load Configuration (a missing file runs on defaults)
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to load configuration from %s: %v\n", configFile, err)
		os.Exit(1)
	}

	// 2. Open the diagnostics sink
	logger, closeLog, err := logging.New(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	logger.Info("run started", "output", cfg.OutputFile)

	// 3. Drive the interactive session
	sess := session.New(os.Stdin, os.Stdout, cfg, logger)
	if err := sess.Run(); err != nil {
		logger.Error("run failed", "err", err.Error())
		fmt.Fprintf(os.Stderr, "An error occurred: %v\n", err)
		closeLog()
		os.Exit(1)
	}
	logger.Info("run finished")
}
