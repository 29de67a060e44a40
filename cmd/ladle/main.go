package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shahnoor-exe/ladle/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	demo := flag.Bool("demo", false, "simulate a driver telemetry feed")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, Demo: *demo}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "ladle: %v\n", err)
		return 1
	}
	return 0
}
