package audio

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeTrack(t *testing.T, path, artist, albumArtist string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer tag.Close()

	tag.SetArtist(artist)
	if albumArtist != "" {
		tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, albumArtist)
	}
	if err := tag.Save(); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
}

func TestLibraryScanner_ReadArtists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duet.mp3")
	writeTrack(t, path, "Artist A Featuring Artist B", "Artist A")

	tests := []struct {
		name   string
		config *ScanConfig
		want   []string
	}{
		{
			name:   "split both frames",
			config: DefaultScanConfig(),
			want:   []string{"Artist A", "Artist B", "Artist A"},
		},
		{
			name:   "lead artist only, unsplit",
			config: &ScanConfig{Frames: FrameArtist, Extensions: []string{".mp3"}},
			want:   []string{"Artist A Featuring Artist B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewLibraryScanner(tt.config, nil, quiet).ReadArtists(path)
			if err != nil {
				t.Fatalf("ReadArtists() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ReadArtists() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ReadArtists()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLibraryScanner_Scan(t *testing.T) {
	root := t.TempDir()
	writeTrack(t, filepath.Join(root, "a", "1.mp3"), "Artist A", "")
	writeTrack(t, filepath.Join(root, "a", "2.MP3"), "artist a", "Artist A")
	writeTrack(t, filepath.Join(root, "b", "1.mp3"), "Artist B & Artist A", "")
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("Artist Z"), 0644); err != nil {
		t.Fatal(err)
	}

	artists, err := NewLibraryScanner(nil, nil, quiet).Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []LibraryArtist{
		{Name: "Artist A", Tracks: 3},
		{Name: "Artist B", Tracks: 1},
	}
	if len(artists) != len(want) {
		t.Fatalf("Scan() = %+v, want %+v", artists, want)
	}
	for i := range want {
		if artists[i] != want[i] {
			t.Errorf("Scan()[%d] = %+v, want %+v", i, artists[i], want[i])
		}
	}
}

func TestLibraryScanner_ScanCancelled(t *testing.T) {
	root := t.TempDir()
	writeTrack(t, filepath.Join(root, "1.mp3"), "Artist A", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewLibraryScanner(nil, nil, quiet).Scan(ctx, root); err == nil {
		t.Error("Scan() should fail on a cancelled context")
	}
}

func TestLibraryScanner_MissingRoot(t *testing.T) {
	_, err := NewLibraryScanner(nil, nil, quiet).Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("Scan() should fail for a missing directory")
	}
}
