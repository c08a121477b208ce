// Package config provides configuration management for hot100-history.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Environment overrides (HOT100_ prefix)
//   - Default configuration values
//   - Conversion to options for the dataset, match, history and export packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Reads data/hot100.csv, downloading it from Kaggle when missing
//	// Weekly cadence with one week of slack between chart runs
//	// Exports xlsx workbooks to ~/Documents/Hot100
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Invalid JSON, environment value or setting
//	}
//
// # Environment Overrides
//
// Every setting can be overridden with an environment variable named after
// its envconfig tag, e.g. HOT100_DATASET_PATH or HOT100_LOG_LEVEL. The
// unprefixed name is accepted too, so the standard KAGGLE_USERNAME and
// KAGGLE_KEY variables work as is. Binaries also read a .env file from the
// working directory.
//
// # Saving Settings
//
//	settings.OutputDir = "/custom/path"
//	err := settings.Save("/path/to/config.json")
package config
