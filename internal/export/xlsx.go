package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/handiism/hot100-history/internal/model"
)

// Sheet titles of the fixed sheets.
const (
	SummarySheet = "Summary"
	PivotSheet   = "Chart History"
)

// XLSXOptions configures the workbook layout.
type XLSXOptions struct {
	// IncludeCharts adds a rank-over-time line chart to every song sheet.
	IncludeCharts bool

	// OmitPivot leaves out the Chart History sheet.
	OmitPivot bool
}

// XLSXWriter writes reports as Excel workbooks.
type XLSXWriter struct {
	opts XLSXOptions
}

// NewXLSXWriter creates an XLSXWriter.
func NewXLSXWriter(opts XLSXOptions) *XLSXWriter {
	return &XLSXWriter{opts: opts}
}

// ContentType implements Sink.
func (w *XLSXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension implements Sink.
func (w *XLSXWriter) Extension() string {
	return ".xlsx"
}

// Write implements Sink.
func (w *XLSXWriter) Write(report *model.Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("nil report")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	names := newSheetNamer()
	summary := names.Name(SummarySheet)
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, fmt.Errorf("rename default sheet: %w", err)
	}
	if err := w.writeSummary(f, summary, report, headerStyle); err != nil {
		return nil, err
	}

	if !w.opts.OmitPivot {
		pivot := names.Name(PivotSheet)
		if _, err := f.NewSheet(pivot); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", pivot, err)
		}
		if err := w.writePivot(f, pivot, report.Pivot, headerStyle); err != nil {
			return nil, err
		}
	}

	for _, table := range report.Tables {
		sheet := names.Name(table.Name)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", sheet, err)
		}
		if err := w.writeTable(f, sheet, table, headerStyle); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *XLSXWriter) writeSummary(f *excelize.File, sheet string, report *model.Report, style int) error {
	header := make([]any, len(model.SummaryHeader))
	for i, h := range model.SummaryHeader {
		header[i] = h
	}
	if err := writeHeader(f, sheet, header, style); err != nil {
		return err
	}

	for i, s := range report.Summary {
		if err := setRow(f, sheet, i+2, s.Values()); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "B", 36); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return f.SetColWidth(sheet, "C", "G", 14)
}

func (w *XLSXWriter) writePivot(f *excelize.File, sheet string, pivot model.PivotTable, style int) error {
	header := make([]any, 0, len(pivot.Columns)+1)
	header = append(header, model.ColumnDate)
	for _, c := range pivot.Columns {
		header = append(header, c)
	}
	if err := writeHeader(f, sheet, header, style); err != nil {
		return err
	}

	for i, date := range pivot.Dates {
		values := make([]any, 0, len(pivot.Columns)+1)
		values = append(values, date.Format(model.DateLayout))
		for _, rank := range pivot.Ranks[i] {
			if rank == 0 {
				values = append(values, nil)
				continue
			}
			values = append(values, rank)
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheet, "A", "A", 12)
}

func (w *XLSXWriter) writeTable(f *excelize.File, sheet string, table model.Table, style int) error {
	header := make([]any, len(table.Header))
	for i, h := range table.Header {
		header[i] = h
	}
	if err := writeHeader(f, sheet, header, style); err != nil {
		return err
	}

	for i, row := range table.Rows {
		if err := setRow(f, sheet, i+2, row.Values(table.Header)); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 12); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if w.opts.IncludeCharts && len(table.Rows) > 1 {
		return addRankChart(f, sheet, table)
	}
	return nil
}

// addRankChart plots rank over time with the axis reversed so that #1 sits
// at the top.
func addRankChart(f *excelize.File, sheet string, table model.Table) error {
	ref := sheetRef(sheet)
	last := len(table.Rows) + 1

	anchor, err := excelize.CoordinatesToCellName(len(table.Header)+2, 2)
	if err != nil {
		return err
	}

	err = f.AddChart(sheet, anchor, &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", ref),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", ref, last),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", ref, last),
		}},
		Title:  []excelize.RichTextRun{{Text: table.Name}},
		Legend: excelize.ChartLegend{Position: "none"},
		YAxis:  excelize.ChartAxis{ReverseOrder: true},
	})
	if err != nil {
		return fmt.Errorf("add chart to %q: %w", sheet, err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, header []any, style int) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("style header of %q: %w", sheet, err)
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d of %q: %w", row, sheet, err)
	}
	return nil
}
