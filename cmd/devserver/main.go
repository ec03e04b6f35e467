package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/corporatesaathi/saathi/internal/buildinfo"
	"github.com/corporatesaathi/saathi/internal/devserver"
	"github.com/corporatesaathi/saathi/internal/devserver/config"
	"github.com/corporatesaathi/saathi/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	if err := devserver.New(cfg, logger).Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
