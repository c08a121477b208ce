package export

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	ioutils "github.com/handiism/hot100-history/internal/io"
	"github.com/handiism/hot100-history/internal/model"
)

// Sink encodes a report into a file format.
type Sink interface {
	// Write encodes the report.
	Write(report *model.Report) ([]byte, error)

	// ContentType is the MIME type of the encoded file.
	ContentType() string

	// Extension is the file extension, including the dot.
	Extension() string
}

// Format names an export format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat resolves a format name, defaulting to xlsx for an empty name.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", name)
	}
}

// NewSink returns the sink for a format.
func NewSink(format Format, opts XLSXOptions) (Sink, error) {
	switch format {
	case FormatXLSX:
		return NewXLSXWriter(opts), nil
	case FormatCSV:
		return NewCSVWriter(true), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// FileName returns the download name for an artist's export.
//
// Example:
//
//	FileName("taylor swift", ".xlsx") // "Taylor_Swift_Chart_History.xlsx"
func FileName(artist, ext string) string {
	title := cases.Title(language.English).String(strings.TrimSpace(artist))
	base := strings.ReplaceAll(ioutils.SanitizeFileName(title), " ", "_")
	if base == "" {
		base = "Artist"
	}
	return base + "_Chart_History" + ext
}
