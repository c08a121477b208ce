// Package history turns matched chart entries into per-song timelines.
//
// The Aggregator groups entries by song, orders each song's weeks by date,
// resolves same-date duplicates by keeping the better rank, and splits every
// timeline into chart runs.
//
// # Grouping
//
// Songs are grouped case-insensitively on (title, artist credit). Two
// different songs that happen to share a title stay apart when their credits
// differ. The displayed title and credit are the most frequent original
// spelling within the group.
//
// # Runs
//
// A run ends when the next chart week is further away than Cadence + Slack.
// With the defaults (7 days each) a single missing chart week does not break
// a run, while a longer absence starts a re-entry.
package history
