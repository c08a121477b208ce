package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/handiism/hot100-history/internal/audio"
	"github.com/handiism/hot100-history/internal/chart"
	"github.com/handiism/hot100-history/internal/config"
	"github.com/handiism/hot100-history/internal/dataset"
	"github.com/handiism/hot100-history/internal/download"
	"github.com/handiism/hot100-history/internal/logging"
	"github.com/handiism/hot100-history/internal/match"
	"github.com/handiism/hot100-history/internal/model"
)

func main() {
	// Command line flags
	var (
		artistsFlag = flag.String("artist", "", "Artist name(s) to export (comma-separated or newline-separated; quote names containing commas)")
		libraryFlag = flag.String("library", "", "Directory of MP3 files whose artists are exported")
		dataFlag    = flag.String("data", "", "Path to the Hot 100 CSV or zip (overrides config)")
		urlFlag     = flag.String("url", "", "Dataset download URL (overrides config)")
		outputFlag  = flag.String("output", "", "Output directory (overrides config)")
		formatFlag  = flag.String("format", "", "Export format: xlsx or csv (overrides config)")
		configFlag  = flag.String("config", "", "Path to config file")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag  = flag.Bool("dry-run", false, "Look up artists without writing files")
	)

	flag.Parse()

	// CLI mode - require artists
	if *artistsFlag == "" && *libraryFlag == "" && flag.NArg() == 0 {
		fmt.Println("Hot 100 History - Billboard Hot 100 chart history per artist")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  hot100 -artist <NAME> [options]")
		fmt.Println("  hot100 <NAME> [options]")
		fmt.Println("  hot100 -library <DIR> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: hot100-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	_ = godotenv.Load()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *dataFlag != "" {
		settings.DatasetPath = *dataFlag
	}
	if *urlFlag != "" {
		settings.DatasetURL = *urlFlag
	}
	if *outputFlag != "" {
		settings.OutputDir = *outputFlag
	}
	if *formatFlag != "" {
		settings.ExportFormat = *formatFlag
	}
	if *verboseFlag {
		settings.LogLevel = "debug"
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid options: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(settings.LogLevel, settings.LogFormat, os.Stderr)
	slog.SetDefault(logger)

	// Handle interrupts
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Println("📈 Hot 100 History")
	fmt.Println(strings.Repeat("━", 40))
	fmt.Println()

	// Load dataset
	loaderOpts := settings.ToLoaderOptions()
	loaderOpts.Logger = logger
	if *verboseFlag {
		loaderOpts.OnProgress = progressPrinter()
	}
	table, err := dataset.NewLoader(loaderOpts).Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading chart data: %v\n", err)
		os.Exit(1)
	}
	first, last := table.Span()
	fmt.Printf("ℹ️  Loaded %d chart entries (%s to %s)\n", table.Len(), first.Format(model.DateLayout), last.Format(model.DateLayout))
	if table.Skipped > 0 {
		fmt.Printf("⚠️  Skipped %d malformed rows\n", table.Skipped)
	}

	store := dataset.NewStore()
	store.Swap(table)

	serviceOpts := chart.DefaultOptions()
	serviceOpts.Match = settings.ToMatchOptions()
	serviceOpts.History = settings.ToHistoryOptions()
	serviceOpts.Logger = logger
	service := chart.NewService(store, serviceOpts)

	// Create manager with progress callback
	manager, err := download.NewManager(settings, service, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "❌ "
		case download.LevelWarning:
			prefix = "⚠️  "
		case download.LevelSuccess:
			prefix = "✅ "
		case download.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	manager.SetDryRun(*dryRunFlag)

	// Collect artists
	manager.Initialize(*artistsFlag)
	// Positional arguments are taken whole, commas included.
	manager.AddArtists(flag.Args()...)

	if *libraryFlag != "" {
		scanner := audio.NewLibraryScanner(nil, match.NewMatcher(settings.ToMatchOptions()), logger)
		found, err := scanner.Scan(ctx, *libraryFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error scanning library: %v\n", err)
			os.Exit(1)
		}
		names := make([]string, 0, len(found))
		for _, a := range found {
			names = append(names, a.Name)
		}
		added := manager.AddArtists(names...)
		fmt.Printf("ℹ️  Found %d artists in %s\n", added, *libraryFlag)
	}

	if len(manager.Artists()) == 0 {
		fmt.Fprintln(os.Stderr, "No artists to export")
		os.Exit(1)
	}

	if *dryRunFlag {
		fmt.Println("\n[Dry run - not writing files]")
	}

	fmt.Println("\n📥 Starting exports...")
	fmt.Println()

	if err := manager.StartExports(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nExport cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during export: %v\n", err)
		os.Exit(1)
	}

	exported, failed, total := manager.GetProgress()
	fmt.Println()
	fmt.Println(strings.Repeat("━", 40))
	fmt.Printf("✨ Complete! Exported %d/%d artists to %s\n", exported, total, settings.OutputDir)
	if failed > 0 {
		fmt.Printf("   (%d failed, see messages above)\n", failed)
		os.Exit(2)
	}
}

// progressPrinter reports dataset download progress in 10% steps.
func progressPrinter() func(written, total int64) {
	last := int64(-1)
	return func(written, total int64) {
		if total <= 0 {
			return
		}
		step := written * 10 / total
		if step != last {
			last = step
			fmt.Printf("   downloading chart data: %d%%\n", step*10)
		}
	}
}
