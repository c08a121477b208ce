package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/handiism/hot100-history/internal/model"
)

// CSVHeader is the column order of CSV exports.
var CSVHeader = []string{"Song", "Artist", model.ColumnDate, model.ColumnRank, model.ColumnRun}

// CSVWriter writes reports as one long-format CSV table, one line per song
// and chart week.
type CSVWriter struct {
	bom bool
}

// NewCSVWriter creates a CSVWriter. With bom set, output starts with a UTF-8
// byte order mark so Excel detects the encoding.
func NewCSVWriter(bom bool) *CSVWriter {
	return &CSVWriter{bom: bom}
}

// ContentType implements Sink.
func (w *CSVWriter) ContentType() string {
	return "text/csv; charset=utf-8"
}

// Extension implements Sink.
func (w *CSVWriter) Extension() string {
	return ".csv"
}

// Write implements Sink.
func (w *CSVWriter) Write(report *model.Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("nil report")
	}

	var buf bytes.Buffer
	if w.bom {
		buf.Write([]byte{0xEF, 0xBB, 0xBF})
	}

	cw := csv.NewWriter(&buf)
	if err := cw.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, table := range report.Tables {
		for _, row := range table.Rows {
			run := row.Run
			if run == 0 {
				run = 1
			}
			record := []string{
				table.Song,
				table.Artist,
				row.Date.Format(model.DateLayout),
				strconv.Itoa(row.Rank),
				strconv.Itoa(run),
			}
			if err := cw.Write(record); err != nil {
				return nil, fmt.Errorf("write %s: %w", table.Name, err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
