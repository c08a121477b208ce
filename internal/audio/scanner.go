package audio

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/handiism/hot100-history/internal/match"
)

// ArtistFrames selects which ID3 frames name an artist.
type ArtistFrames int

const (
	// FrameArtist reads the TPE1 (Lead artist) frame.
	FrameArtist ArtistFrames = 1 << iota

	// FrameAlbumArtist reads the TPE2 (Album artist) frame.
	FrameAlbumArtist
)

// ScanConfig controls what the LibraryScanner reads.
//
// Example:
//
//	cfg := &ScanConfig{
//	    Frames:       FrameArtist | FrameAlbumArtist,
//	    SplitCredits: true,      // "A feat. B" counts for A and B
//	    Extensions:   []string{".mp3"},
//	}
type ScanConfig struct {
	// Frames lists the frames to read.
	Frames ArtistFrames

	// SplitCredits breaks multi-artist credits into single performers.
	SplitCredits bool

	// Extensions are the file suffixes to open, compared case-insensitively.
	Extensions []string
}

// DefaultScanConfig reads both artist frames of MP3 files and splits
// credits.
func DefaultScanConfig() *ScanConfig {
	return &ScanConfig{
		Frames:       FrameArtist | FrameAlbumArtist,
		SplitCredits: true,
		Extensions:   []string{".mp3"},
	}
}

// LibraryArtist is an artist found in the library.
type LibraryArtist struct {
	// Name is the most common spelling among the tags.
	Name string

	// Tracks counts the files crediting the artist.
	Tracks int
}

// LibraryScanner collects artist names from ID3 tags.
type LibraryScanner struct {
	config  *ScanConfig
	matcher *match.Matcher
	logger  *slog.Logger
}

// NewLibraryScanner creates a scanner. A nil config means
// DefaultScanConfig, a nil matcher the default separators and a nil logger
// slog.Default.
func NewLibraryScanner(config *ScanConfig, matcher *match.Matcher, logger *slog.Logger) *LibraryScanner {
	if config == nil {
		config = DefaultScanConfig()
	}
	if matcher == nil {
		matcher = match.NewMatcher(match.DefaultOptions())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LibraryScanner{config: config, matcher: matcher, logger: logger}
}

type artistCount struct {
	spellings map[string]int
	tracks    int
}

// Scan walks root and returns every tagged artist, most tracks first.
//
// Files whose tags cannot be read are logged and skipped.
func (s *LibraryScanner) Scan(ctx context.Context, root string) ([]LibraryArtist, error) {
	counts := make(map[string]*artistCount)
	var files, failed int

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !s.wanted(path) {
			return nil
		}

		files++
		names, err := s.ReadArtists(path)
		if err != nil {
			failed++
			s.logger.Warn("cannot read tags", "path", path, "error", err)
			return nil
		}

		// A track naming one artist in both frames counts once.
		seen := make(map[string]bool)
		for _, name := range names {
			key := match.Normalize(name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			c, ok := counts[key]
			if !ok {
				c = &artistCount{spellings: make(map[string]int)}
				counts[key] = c
			}
			c.spellings[name]++
			c.tracks++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	artists := make([]LibraryArtist, 0, len(counts))
	for _, c := range counts {
		artists = append(artists, LibraryArtist{Name: commonSpelling(c.spellings), Tracks: c.tracks})
	}
	sort.Slice(artists, func(i, j int) bool {
		if artists[i].Tracks != artists[j].Tracks {
			return artists[i].Tracks > artists[j].Tracks
		}
		return artists[i].Name < artists[j].Name
	})

	s.logger.Info("library scanned", "root", root, "files", files, "failed", failed, "artists", len(artists))
	return artists, nil
}

// ReadArtists returns the artist names tagged in one file.
func (s *LibraryScanner) ReadArtists(path string) ([]string, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer tag.Close()

	var credits []string
	if s.config.Frames&FrameArtist != 0 {
		credits = append(credits, tag.Artist())
	}
	if s.config.Frames&FrameAlbumArtist != 0 {
		credits = append(credits, tag.GetTextFrame("TPE2").Text)
	}

	var names []string
	for _, credit := range credits {
		credit = strings.TrimSpace(strings.Trim(credit, "\x00"))
		if credit == "" {
			continue
		}
		if s.config.SplitCredits {
			names = append(names, s.matcher.Components(credit)...)
		} else {
			names = append(names, credit)
		}
	}
	return names, nil
}

func (s *LibraryScanner) wanted(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range s.config.Extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func commonSpelling(spellings map[string]int) string {
	best, bestCount := "", 0
	for name, n := range spellings {
		if n > bestCount || (n == bestCount && name < best) {
			best, bestCount = name, n
		}
	}
	return best
}
