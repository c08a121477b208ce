// Package audio reads artist names from a local music library.
//
// # Library Scanning
//
// Use the LibraryScanner to collect the artists tagged in MP3 files:
//
//	scanner := audio.NewLibraryScanner(audio.DefaultScanConfig(), matcher, logger)
//	artists, err := scanner.Scan(ctx, "/home/me/Music")
//	for _, a := range artists {
//	    fmt.Println(a.Name, a.Tracks)
//	}
//
// The scanner reads these ID3 frames:
//   - TPE1 (Lead artist)
//   - TPE2 (Album artist)
//
// Credits naming several performers ("A feat. B") can be split into one
// entry per performer, using the same separators as artist lookups.
package audio
