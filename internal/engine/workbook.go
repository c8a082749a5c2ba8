package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/tartampluch/go-vakitmatik/internal/config"
	"github.com/xuri/excelize/v2"
)

// RowSource defines the contract for retrieving raw schedule rows.
// This interface allows for mocking in tests and decoupling from the spreadsheet library.
type RowSource interface {
	Rows(ctx context.Context) ([]Row, error)
}

// WorkbookSource reads the first worksheet of a Diyanet yearly Excel export.
type WorkbookSource struct {
	// Path is used when Open is nil.
	Path string

	// Open, when set, supplies the workbook stream (e.g. an uploaded file).
	Open func() (io.ReadCloser, error)
}

// NewWorkbookSource creates a source reading the workbook at path.
func NewWorkbookSource(path string) *WorkbookSource {
	return &WorkbookSource{Path: path}
}

// Rows loads every row of the first sheet and classifies each cell into a CellValue.
func (s *WorkbookSource) Rows(ctx context.Context) ([]Row, error) {
	f, err := s.openFile()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrWorkbookOpen, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(config.ErrWorkbookNoSheet)
	}
	sheet := sheets[config.SheetIndexFirst]

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompWorkbook),
		slog.String(config.LogKeySheet, sheet),
	)

	// Formatted values, as a spreadsheet application would display them.
	display, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrWorkbookRead, err)
	}

	rows := make([]Row, 0, len(display))
	for r, cols := range display {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row := make(Row, len(cols))
		for c, text := range cols {
			row[c] = classifyCell(f, sheet, c, r, text)
		}
		rows = append(rows, row)
	}

	log.Debug(config.MsgRowsLoaded, slog.Int(config.LogKeyRows, len(rows)))
	return rows, nil
}

func (s *WorkbookSource) openFile() (*excelize.File, error) {
	if s.Open == nil {
		if s.Path == "" {
			return nil, errors.New(config.ErrInputPathEmpty)
		}
		return excelize.OpenFile(s.Path)
	}

	rc, err := s.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return excelize.OpenReader(rc)
}

// classifyCell inspects a single cell (0-based col/row) and picks the matching
// CellValue variant. Only the date column is ever treated as a native date:
// clock cells round-trip poorly through serial numbers and their formatted
// text is already what the device needs.
func classifyCell(f *excelize.File, sheet string, col, row int, text string) CellValue {
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return PlainText{Text: text}
	}

	if formula, err := f.GetCellFormula(sheet, ref); err == nil && formula != "" {
		return FormulaResult{Formula: formula, Result: text}
	}

	if runs, err := f.GetCellRichText(sheet, ref); err == nil && isRich(runs) {
		parts := make([]string, len(runs))
		for i, run := range runs {
			parts[i] = run.Text
		}
		return RichText{Runs: parts}
	}

	if col == config.ColDate {
		if d, ok := nativeDate(f, sheet, ref, text); ok {
			return d
		}
	}

	return PlainText{Text: text}
}

// isRich reports whether the runs carry formatting. Plain shared strings come
// back as a single unformatted run.
func isRich(runs []excelize.RichTextRun) bool {
	if len(runs) > 1 {
		return true
	}
	return len(runs) == 1 && runs[0].Font != nil
}

// nativeDate detects a numeric cell rendered through a date format: its raw
// value is an Excel serial that differs from its display text.
func nativeDate(f *excelize.File, sheet, ref, text string) (DateValue, bool) {
	typ, err := f.GetCellType(sheet, ref)
	if err != nil {
		return DateValue{}, false
	}
	if typ != excelize.CellTypeUnset && typ != excelize.CellTypeNumber && typ != excelize.CellTypeDate {
		return DateValue{}, false
	}

	raw, err := f.GetCellValue(sheet, ref, excelize.Options{RawCellValue: true})
	if err != nil || raw == "" || raw == text {
		return DateValue{}, false
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial <= 0 {
		return DateValue{}, false
	}

	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return DateValue{}, false
	}
	return DateValue{Time: t}, true
}
