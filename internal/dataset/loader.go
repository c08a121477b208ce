package dataset

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path"
	"strings"
	"time"

	"github.com/handiism/hot100-history/internal/http"
)

// PreferredFile is the archive member read when a zip holds several CSVs.
const PreferredFile = "hot100.csv"

var zipMagic = []byte("PK\x03\x04")

// ErrNoSource is returned when a Loader has neither a path nor a URL.
var ErrNoSource = errors.New("no dataset path or url configured")

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// Path is a local CSV or zip file. It is preferred over URL when it
	// exists.
	Path string

	// URL is downloaded when Path is empty or missing.
	URL string

	Parse ParseOptions

	// Client downloads URL. Defaults to http.NewClient with default options.
	Client *http.Client

	// Retry settings for downloads: the n-th retry waits
	// RetryCooldown * RetryExponent^n seconds.
	MaxRetries    int
	RetryCooldown float64
	RetryExponent float64

	// OnProgress, if set, receives download progress.
	OnProgress func(written, total int64)

	Logger *slog.Logger
}

// Loader reads a chart dataset from disk or the network.
type Loader struct {
	opts   LoaderOptions
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(opts LoaderOptions) *Loader {
	if opts.Client == nil {
		opts.Client = http.NewClient(http.Options{})
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Parse.Logger == nil {
		opts.Parse.Logger = opts.Logger
	}
	return &Loader{opts: opts, logger: opts.Logger}
}

// Load reads the dataset into a new Table.
func (l *Loader) Load(ctx context.Context) (*Table, error) {
	if l.opts.Path != "" {
		if _, err := os.Stat(l.opts.Path); err == nil || l.opts.URL == "" {
			return l.loadFile(l.opts.Path, l.opts.Path)
		}
		l.logger.Info("dataset file not found, downloading", "path", l.opts.Path, "url", l.opts.URL)
	}
	if l.opts.URL == "" {
		return nil, ErrNoSource
	}
	return l.loadURL(ctx)
}

func (l *Loader) loadURL(ctx context.Context) (*Table, error) {
	tmp, err := os.CreateTemp("", "hot100-*.download")
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := l.download(ctx, tmpPath); err != nil {
		return nil, fmt.Errorf("download %s: %w", l.opts.URL, err)
	}
	return l.loadFile(tmpPath, l.opts.URL)
}

func (l *Loader) download(ctx context.Context, dest string) error {
	var err error
	for tries := 0; tries < l.opts.MaxRetries; tries++ {
		err = l.opts.Client.DownloadFile(ctx, l.opts.URL, dest, l.opts.OnProgress)
		if err == nil || !retryable(ctx, err) {
			return err
		}
		if tries+1 < l.opts.MaxRetries {
			l.logger.Warn("download failed, retrying", "attempt", tries+1, "max", l.opts.MaxRetries, "error", err)
			l.waitForRetry(ctx, tries)
		}
	}
	return err
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var statusErr *http.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return true
}

func (l *Loader) waitForRetry(ctx context.Context, tries int) {
	cooldown := l.opts.RetryCooldown * math.Pow(l.opts.RetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (l *Loader) loadFile(filePath, source string) (*Table, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	magic := make([]byte, len(zipMagic))
	n, _ := io.ReadFull(f, magic)
	if bytes.Equal(magic[:n], zipMagic) {
		f.Close()
		return l.loadZip(filePath, source)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	opts := l.opts.Parse
	opts.Source = source
	table, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	l.logger.Info("dataset loaded", "source", source, "rows", table.Len(), "skipped", table.Skipped, "version", table.Version)
	return table, nil
}

func (l *Loader) loadZip(filePath, source string) (*Table, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", source, err)
	}
	defer zr.Close()

	member := pickCSV(zr.File)
	if member == nil {
		return nil, fmt.Errorf("archive %s holds no csv file", source)
	}

	rc, err := member.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	opts := l.opts.Parse
	opts.Source = source + "#" + member.Name
	table, err := Parse(rc, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", opts.Source, err)
	}
	l.logger.Info("dataset loaded", "source", opts.Source, "rows", table.Len(), "skipped", table.Skipped, "version", table.Version)
	return table, nil
}

func pickCSV(files []*zip.File) *zip.File {
	var first *zip.File
	for _, f := range files {
		name := strings.ToLower(path.Base(f.Name))
		if f.FileInfo().IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		if name == PreferredFile {
			return f
		}
		if first == nil {
			first = f
		}
	}
	return first
}
