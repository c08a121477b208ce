package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/handiism/hot100-history/internal/chart"
	"github.com/handiism/hot100-history/internal/config"
	"github.com/handiism/hot100-history/internal/dataset"
	"github.com/handiism/hot100-history/internal/logging"
	"github.com/handiism/hot100-history/internal/metrics"
	"github.com/handiism/hot100-history/internal/server"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file")
	addrFlag := flag.String("addr", "", "Listen address (overrides config)")
	dataFlag := flag.String("data", "", "Path to the Hot 100 CSV or zip (overrides config)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	settings, err := config.Load(*configFlag)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *addrFlag != "" {
		settings.ListenAddr = *addrFlag
	}
	if *dataFlag != "" {
		settings.DatasetPath = *dataFlag
	}

	logger := logging.New(settings.LogLevel, settings.LogFormat, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	store := dataset.NewStore()

	loaderOpts := settings.ToLoaderOptions()
	loaderOpts.Logger = logger
	refresher := dataset.NewRefresher(dataset.NewLoader(loaderOpts), store, dataset.RefresherOptions{
		Interval:  settings.Refresh(),
		OnRefresh: m.ObserveRefresh,
		Logger:    logger,
	})
	go func() {
		if err := refresher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("dataset refresher stopped", "error", err)
		}
	}()

	serviceOpts := chart.DefaultOptions()
	serviceOpts.Match = settings.ToMatchOptions()
	serviceOpts.History = settings.ToHistoryOptions()
	serviceOpts.Recorder = m
	serviceOpts.Logger = logger

	srv := server.New(server.Options{
		Lookup:         chart.NewService(store, serviceOpts),
		Dataset:        store,
		Metrics:        m,
		XLSX:           settings.ToXLSXOptions(),
		RequestTimeout: settings.Timeout(),
		Logger:         logger,
	})

	logger.Info("starting server", "addr", settings.ListenAddr, "dataset", settings.DatasetPath)
	if err := srv.ListenAndServe(ctx, settings.ListenAddr); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
