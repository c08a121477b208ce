package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/handiism/hot100-history/internal/dataset"
	"github.com/handiism/hot100-history/internal/export"
	"github.com/handiism/hot100-history/internal/history"
	"github.com/handiism/hot100-history/internal/match"
)

// EnvPrefix prefixes every environment override, e.g. HOT100_DATASET_PATH.
const EnvPrefix = "HOT100"

// DefaultDatasetURL is the Kaggle archive refreshed by the weekly updater.
const DefaultDatasetURL = "https://www.kaggle.com/api/v1/datasets/download/ludmin/billboard"

// Settings holds all configuration options.
type Settings struct {
	// Dataset settings
	DatasetPath      string `json:"dataset_path" envconfig:"DATASET_PATH"`
	DatasetURL       string `json:"dataset_url" envconfig:"DATASET_URL"`
	KaggleUsername   string `json:"kaggle_username,omitempty" envconfig:"KAGGLE_USERNAME"`
	KaggleKey        string `json:"kaggle_key,omitempty" envconfig:"KAGGLE_KEY"`
	SnapToSaturday   bool   `json:"snap_to_saturday" envconfig:"SNAP_TO_SATURDAY"`
	CleanArtistPipes bool   `json:"clean_artist_pipes" envconfig:"CLEAN_ARTIST_PIPES"`
	RefreshInterval  string `json:"refresh_interval" envconfig:"REFRESH_INTERVAL"` // e.g. "24h", empty disables

	// Download settings
	DownloadMaxRetries    int     `json:"download_max_retries" envconfig:"DOWNLOAD_MAX_RETRIES"`
	DownloadRetryCooldown float64 `json:"download_retry_cooldown" envconfig:"DOWNLOAD_RETRY_COOLDOWN"`
	DownloadRetryExponent float64 `json:"download_retry_exponent" envconfig:"DOWNLOAD_RETRY_EXPONENT"`
	DownloadTimeout       string  `json:"download_timeout" envconfig:"DOWNLOAD_TIMEOUT"`

	// Matching and run detection
	SymbolSeparators []string `json:"symbol_separators" envconfig:"SYMBOL_SEPARATORS"`
	WordSeparators   []string `json:"word_separators" envconfig:"WORD_SEPARATORS"`
	CadenceDays      int      `json:"cadence_days" envconfig:"CADENCE_DAYS"`
	SlackDays        int      `json:"slack_days" envconfig:"SLACK_DAYS"`

	// Export settings
	OutputDir            string `json:"output_dir" envconfig:"OUTPUT_DIR"`
	ExportFormat         string `json:"export_format" envconfig:"EXPORT_FORMAT"` // xlsx, csv
	IncludeCharts        bool   `json:"include_charts" envconfig:"INCLUDE_CHARTS"`
	MaxConcurrentExports int    `json:"max_concurrent_exports" envconfig:"MAX_CONCURRENT_EXPORTS"`

	// Server settings
	ListenAddr     string `json:"listen_addr" envconfig:"LISTEN_ADDR"`
	RequestTimeout string `json:"request_timeout" envconfig:"REQUEST_TIMEOUT"`

	// Logging
	LogLevel  string `json:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat string `json:"log_format" envconfig:"LOG_FORMAT"` // text, json
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		DatasetPath:      filepath.Join("data", dataset.PreferredFile),
		DatasetURL:       DefaultDatasetURL,
		SnapToSaturday:   true,
		CleanArtistPipes: true,
		RefreshInterval:  "24h",

		DownloadMaxRetries:    7,
		DownloadRetryCooldown: 0.2,
		DownloadRetryExponent: 4.0,
		DownloadTimeout:       "5m",

		SymbolSeparators: append([]string(nil), match.DefaultSymbolSeparators...),
		WordSeparators:   append([]string(nil), match.DefaultWordSeparators...),
		CadenceDays:      7,
		SlackDays:        7,

		OutputDir:            filepath.Join(homeDir, "Documents", "Hot100"),
		ExportFormat:         string(export.FormatXLSX),
		IncludeCharts:        false,
		MaxConcurrentExports: 4,

		ListenAddr:     ":5000",
		RequestTimeout: "60s",

		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads settings from a JSON file and applies environment overrides.
//
// A missing file is not an error: defaults are used instead. An empty path
// skips the file entirely.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, err
		default:
			if err := json.Unmarshal(data, settings); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, settings); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings no component can work with.
func (s *Settings) Validate() error {
	var problems []string
	if s.DatasetPath == "" && s.DatasetURL == "" {
		problems = append(problems, "dataset_path or dataset_url is required")
	}
	if s.DownloadMaxRetries < 1 {
		problems = append(problems, "download_max_retries must be at least 1")
	}
	if s.DownloadRetryCooldown < 0 || s.DownloadRetryExponent < 1 {
		problems = append(problems, "download retry cooldown must be >= 0 and exponent >= 1")
	}
	if s.CadenceDays < 1 {
		problems = append(problems, "cadence_days must be at least 1")
	}
	if s.SlackDays < 0 {
		problems = append(problems, "slack_days must not be negative")
	}
	if s.MaxConcurrentExports < 1 {
		problems = append(problems, "max_concurrent_exports must be at least 1")
	}
	if _, err := export.ParseFormat(s.ExportFormat); err != nil {
		problems = append(problems, err.Error())
	}
	for name, value := range map[string]string{
		"refresh_interval": s.RefreshInterval,
		"request_timeout":  s.RequestTimeout,
		"download_timeout": s.DownloadTimeout,
	} {
		if _, err := parseDuration(value); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", name, err))
		}
	}
	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log_format %q must be text or json", s.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
	}
	return nil
}

func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", value)
	}
	return d, nil
}

// Refresh returns the dataset refresh interval; zero disables refreshes.
func (s *Settings) Refresh() time.Duration {
	d, _ := parseDuration(s.RefreshInterval)
	return d
}

// Timeout returns the per-request timeout of the web server.
func (s *Settings) Timeout() time.Duration {
	d, _ := parseDuration(s.RequestTimeout)
	return d
}

// Format returns the configured export format.
func (s *Settings) Format() export.Format {
	f, err := export.ParseFormat(s.ExportFormat)
	if err != nil {
		return export.FormatXLSX
	}
	return f
}

// ToMatchOptions converts settings to matcher options.
func (s *Settings) ToMatchOptions() match.Options {
	return match.Options{
		SymbolSeparators: s.SymbolSeparators,
		WordSeparators:   s.WordSeparators,
	}
}

// ToHistoryOptions converts settings to run detection options.
func (s *Settings) ToHistoryOptions() history.Options {
	day := 24 * time.Hour
	return history.Options{
		Cadence: time.Duration(s.CadenceDays) * day,
		Slack:   time.Duration(s.SlackDays) * day,
	}
}

// ToLoaderOptions converts settings to dataset loader options.
func (s *Settings) ToLoaderOptions() dataset.LoaderOptions {
	return dataset.LoaderOptions{
		Path: s.DatasetPath,
		URL:  s.DatasetURL,
		Parse: dataset.ParseOptions{
			SnapToSaturday: s.SnapToSaturday,
			CleanPipes:     s.CleanArtistPipes,
		},
		Client:        s.HTTPClient(),
		MaxRetries:    s.DownloadMaxRetries,
		RetryCooldown: s.DownloadRetryCooldown,
		RetryExponent: s.DownloadRetryExponent,
	}
}

// ToXLSXOptions converts settings to workbook options.
func (s *Settings) ToXLSXOptions() export.XLSXOptions {
	return export.XLSXOptions{IncludeCharts: s.IncludeCharts}
}
