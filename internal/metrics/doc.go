// Package metrics exposes Prometheus collectors for lookups, exports and
// dataset refreshes.
//
// Collectors live in their own registry so tests and several servers in
// one process never clash:
//
//	m := metrics.New()
//	svc := chart.NewService(store, chart.Options{Recorder: m})
//	router.Handle("/metrics", m.Handler())
package metrics
