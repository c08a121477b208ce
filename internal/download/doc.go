// Package download provides the batch export logic for writing the chart
// history of many artists.
//
// # Manager
//
// The Manager coordinates the whole batch:
//
//  1. Parse the input artist list
//  2. Look up every artist against the loaded dataset
//  3. Encode each report as xlsx or CSV
//  4. Write the files to the output directory concurrently
//
// # Basic Usage
//
//	manager, err := download.NewManager(settings, service, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	manager.Initialize("Taylor Swift\nDrake")
//
//	err = manager.StartExports(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// At most settings.MaxConcurrentExports artists are processed in parallel.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// The callback may be called from several goroutines at once.
package download
