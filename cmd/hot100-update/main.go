package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/handiism/hot100-history/internal/config"
	"github.com/handiism/hot100-history/internal/dataset"
	ioutils "github.com/handiism/hot100-history/internal/io"
	"github.com/handiism/hot100-history/internal/logging"
	"github.com/handiism/hot100-history/internal/model"
)

func main() {
	var (
		forceFlag  = flag.Bool("force", false, "Update even if today is not Wednesday")
		outputFlag = flag.String("output", "", "Where to write the normalized CSV (default: configured dataset path or "+dataset.PreferredFile+")")
		urlFlag    = flag.String("url", "", "Dataset download URL (overrides config)")
		configFlag = flag.String("config", "", "Path to config file")
	)
	flag.Parse()

	_ = godotenv.Load()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *urlFlag != "" {
		settings.DatasetURL = *urlFlag
	}

	logger := logging.New(settings.LogLevel, settings.LogFormat, os.Stderr)
	slog.SetDefault(logger)

	now := time.Now()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Hot 100 Weekly Updater")
	fmt.Printf("Today: %s\n", now.Format("Monday, January 02, 2006"))
	fmt.Println(strings.Repeat("=", 60))

	switch {
	case *forceFlag:
		fmt.Println("\n🔄 Force update requested...")
	case now.Weekday() == time.Wednesday:
		fmt.Println("\n📅 It's Wednesday! Time to update chart data...")
	default:
		fmt.Println("\n⏭️  Not Wednesday - skipping update")
		fmt.Println("💡 Run with -force to update anyway")
		return
	}

	output := *outputFlag
	if output == "" {
		output = settings.DatasetPath
	}
	if output == "" {
		output = dataset.PreferredFile
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := update(ctx, settings, output, logger); err != nil {
		fmt.Fprintf(os.Stderr, "\n❌ Update failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("\n✅ Update complete!")
}

func update(ctx context.Context, settings *config.Settings, output string, logger *slog.Logger) error {
	if settings.DatasetURL == "" {
		return dataset.ErrNoSource
	}

	fmt.Println("📥 Downloading latest chart data...")
	opts := settings.ToLoaderOptions()
	opts.Path = ""
	opts.Logger = logger
	// Always normalize what gets written to disk.
	opts.Parse.SnapToSaturday = true
	opts.Parse.CleanPipes = true

	table, err := dataset.NewLoader(opts).Load(ctx)
	if err != nil {
		return err
	}
	if table.Skipped > 0 {
		fmt.Printf("⚠️  Skipped %d malformed rows\n", table.Skipped)
	}

	fmt.Println("🔧 Writing normalized CSV...")
	err = ioutils.WriteFileAtomic(ctx, output, func(w io.Writer) error {
		return dataset.WriteCSV(w, table)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	info, err := os.Stat(output)
	if err != nil {
		return err
	}
	first, last := table.Span()
	fmt.Printf("✅ Updated %s (%.1f MB, %d rows)\n", output, float64(info.Size())/1024/1024, table.Len())
	fmt.Printf("📊 Date range: %s to %s\n", first.Format(model.DateLayout), last.Format(model.DateLayout))
	return nil
}
