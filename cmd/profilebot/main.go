package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	coreconfig "github.com/m3rciful/profilebot/core/config"
	"github.com/m3rciful/profilebot/core/logger"
	"github.com/m3rciful/profilebot/internal/app"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := coreconfig.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = app.Run(ctx, cfg)
	if shutdownErr := logger.Shutdown(); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "profilebot: %v\n", err)
		os.Exit(1)
	}
}
