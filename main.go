package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hbomb79/Snatch/internal"
	"github.com/hbomb79/Snatch/pkg/logger"
	"github.com/mitchellh/go-homedir"
)

var log = logger.Get("Main")

// main is the entry point to the program. The user's configuration is
// loaded (file merged with environment), then the Snatch services are
// spawned and run until interrupted.
func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to the YAML configuration file")
	flag.Parse()

	config := internal.SnatchConfig{}
	if err := config.Load(*configPath); err != nil {
		log.Emit(logger.FATAL, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := internal.New(config).Run(ctx); err != nil {
		log.Emit(logger.FATAL, "Snatch has crashed: %v\n", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return "config.yaml"
	}

	return filepath.Join(home, ".config", "snatch", "config.yaml")
}
