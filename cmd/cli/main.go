package main

import (
	"context"
	"os"

	"github.com/aoralabs/aora/internal/cli"
	"github.com/aoralabs/aora/internal/config"
	"github.com/aoralabs/aora/internal/logging"
)

func main() {

	cfg := config.LoadConfig()
	log := logging.NewTextLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	ctx := context.Background()
	app := cli.NewApp(cfg, log)
	app.Run(ctx)

}
