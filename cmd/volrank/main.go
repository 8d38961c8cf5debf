package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"volrank/internal/infrastructure/logger"
)

func main() {
	logger.Setup("info")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(ctx, os.Stdout).Execute(); err != nil {
		log.Error().Err(err).Msg("volrank failed")
		stop()
		os.Exit(1)
	}
}
