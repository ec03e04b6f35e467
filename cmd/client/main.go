package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/corporatesaathi/saathi/internal/buildinfo"
	"github.com/corporatesaathi/saathi/internal/client/cli"
	"github.com/corporatesaathi/saathi/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("%v", err)
	}

}
