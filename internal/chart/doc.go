// Package chart answers artist lookups against the shared chart dataset.
//
// A lookup takes one snapshot of the dataset, keeps the entries whose
// artist credit matches the query, groups them into per-song timelines and
// builds a Report ready for export:
//
//	svc := chart.NewService(store, chart.DefaultOptions())
//	report, err := svc.Lookup(ctx, "Taylor Swift")
//	switch {
//	case errors.Is(err, chart.ErrNoMatch):
//	    // not found; err is a *chart.NoMatchError with suggestions
//	case errors.Is(err, chart.ErrDatasetUnavailable):
//	    // dataset not loaded yet
//	}
package chart
