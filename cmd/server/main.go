// Command server runs the translation HTTP server.
//
// Flags:
//
//	-config  path to the YAML config file (overrides CONFIG_PATH)
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/heartmarshall/emakua-backend/internal/app"
)

func main() {
	configFlag := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	// .env first so config.Load sees its values.
	godotenv.Load() //nolint:errcheck

	if *configFlag != "" {
		os.Setenv("CONFIG_PATH", *configFlag) //nolint:errcheck
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
