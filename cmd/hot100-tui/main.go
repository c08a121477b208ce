package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/handiism/hot100-history/internal/config"
	"github.com/handiism/hot100-history/internal/logging"
	"github.com/handiism/hot100-history/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file")
	logFlag := flag.String("log", "", "Write logs to this file instead of discarding them")
	flag.Parse()

	_ = godotenv.Load()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns the terminal, so logs go to a file or nowhere.
	logger := logging.Discard()
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = logging.New(settings.LogLevel, settings.LogFormat, f)
	}
	slog.SetDefault(logger)

	if err := tui.Run(settings, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
