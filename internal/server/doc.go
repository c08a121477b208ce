// Package server is the web front end of hot100-history.
//
// Routes:
//
//	GET  /                                      artist form
//	POST /analyze                               form submit, downloads the xlsx workbook
//	GET  /api/v1/artists/{artist}/history       report as JSON
//	GET  /api/v1/artists/{artist}/export        report as a file (?format=xlsx|csv)
//	GET  /healthz                               dataset status
//	GET  /metrics                               Prometheus metrics
//
// Every request gets a request ID, panic recovery, a slog access log line
// and a timeout.
package server
