// Package dataset loads the Billboard Hot 100 chart dataset and shares it
// between requests.
//
// A dataset is a CSV file with one row per song per chart week. Parse reads
// it into an immutable Table, skipping malformed rows. The Loader fetches
// the file from a local path or a URL (plain CSV or a zip archive), the
// Store publishes the current Table to concurrent readers without locking,
// and the Refresher reloads it periodically.
//
// # Loading
//
//	loader := dataset.NewLoader(dataset.LoaderOptions{
//	    Path: "data/hot100.csv",
//	    URL:  "https://www.kaggle.com/api/v1/datasets/download/ludmin/billboard",
//	})
//	table, err := loader.Load(ctx)
//
// # Sharing
//
//	store := dataset.NewStore()
//	store.Swap(table)
//
//	// In request handlers:
//	snapshot := store.Snapshot()
package dataset
