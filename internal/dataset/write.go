package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/handiism/hot100-history/internal/model"
)

// Header is the column layout written by WriteCSV.
var Header = []string{"Date", "Song", "Artist", "Rank"}

// WriteCSV writes the table as a normalized chart CSV that Parse can read
// back.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range t.Entries() {
		record := []string{e.Date.Format(model.DateLayout), e.Song, e.Artist, strconv.Itoa(e.Rank)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
