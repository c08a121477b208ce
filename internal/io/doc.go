// Package ioutils provides file system utilities.
//
// This package contains functions for:
//   - Filename sanitization for cross-platform compatibility
//   - Atomic file writes for exports and dataset updates
//   - Directory creation
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("AC/DC: Live") // Returns "AC_DC_ Live"
//
// # Atomic Writes
//
// WriteFileAtomic writes to a temporary file in the destination directory
// and renames it into place, so readers never see a half-written file:
//
//	err := ioutils.WriteFileAtomic(ctx, "/data/hot100.csv", func(w io.Writer) error {
//	    return dataset.WriteCSV(w, table)
//	})
package ioutils
