package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"volrank/internal/application/usecase/scan"
	"volrank/internal/infrastructure/config"
	"volrank/internal/infrastructure/container"
	"volrank/internal/infrastructure/logger"
	"volrank/internal/interfaces/console"
)

const version = "1.0"

type rootOptions struct {
	minQuoteVolume string
	configPath     string
	logLevel       string
}

func newRootCmd(ctx context.Context, out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "volrank",
		Short:         "Filters Binance ticker data by quote volume",
		Long:          "Lists TRADING Binance USDⓈ-M futures whose 24h quote volume is at least VOLUME, highest first, as SYMBOL.P.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(ctx, cmd, opts, out)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.minQuoteVolume, "min-quote-volume", "m", "", "Sets the minimum quote volume")
	flags.StringVar(&opts.configPath, "config", "configs/config.toml", "path to config.toml")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides config")
	_ = cmd.MarkFlagRequired("min-quote-volume")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts *rootOptions, out io.Writer) error {
	// argument and config problems must surface before any network call
	minQuoteVolume, err := scan.ParseMinQuoteVolume(opts.minQuoteVolume)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath, !cmd.Flags().Changed("config"))
	if err != nil {
		return fmt.Errorf("load config %s: %w", opts.configPath, err)
	}
	level := cfg.App.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger.Setup(level)

	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	svc := scan.NewService(scan.ServiceDeps{
		Market:     c.MarketData(),
		Sink:       console.NewSink(out),
		Repo:       c.ScanRepository(),
		Concurrent: cfg.Fetch.Concurrent,
	})

	log.Debug().
		Str("rest_url", cfg.Exchange.Binance.RestURL).
		Float64("min_quote_volume", minQuoteVolume).
		Bool("concurrent", cfg.Fetch.Concurrent).
		Int("stores", c.StoreCount()).
		Msg("volrank started")

	_, err = svc.Run(ctx, minQuoteVolume)
	return err
}
