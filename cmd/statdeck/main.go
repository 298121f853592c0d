// Package main provides the statdeck CLI for building, sharing, and
// importing printable reference card decks backed by local storage.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/statdeck/statdeck/internal/deck/cli"
	"github.com/statdeck/statdeck/internal/platform/config"
)

func main() {
	configPath := flag.String("config", "", "path to the config file (default: ~/.config/statdeck/config.toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := cli.New(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer app.Close()

	if err := app.Run(ctx, flag.Args()); err != nil {
		log.Fatalf("%v", err)
	}
}
