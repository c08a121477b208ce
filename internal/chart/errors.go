package chart

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyQuery is returned for a blank artist name.
	ErrEmptyQuery = errors.New("artist name is empty")

	// ErrNoMatch is returned when no chart entry matches the artist.
	ErrNoMatch = errors.New("no chart entries found")

	// ErrDatasetUnavailable is returned while no chart data is loaded.
	ErrDatasetUnavailable = errors.New("chart dataset is unavailable")
)

// NoMatchError reports an artist that never charted, with close names
// that did.
type NoMatchError struct {
	Artist      string
	Suggestions []string
}

func (e *NoMatchError) Error() string {
	msg := fmt.Sprintf("%v for %q", ErrNoMatch, e.Artist)
	if len(e.Suggestions) > 0 {
		msg += "; did you mean " + strings.Join(e.Suggestions, ", ") + "?"
	}
	return msg
}

func (e *NoMatchError) Unwrap() error {
	return ErrNoMatch
}
