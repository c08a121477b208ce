// Package http provides the HTTP client used to fetch chart datasets.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Optional basic authentication (Kaggle API credentials)
//   - File downloads with progress tracking
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{Timeout: 5 * time.Minute})
//
//	// Download the dataset archive with a progress callback
//	err := client.DownloadFile(ctx, datasetURL, "/tmp/hot100.zip", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
