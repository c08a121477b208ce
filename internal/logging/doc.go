// Package logging builds the slog loggers used by the binaries.
package logging
