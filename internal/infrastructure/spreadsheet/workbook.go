package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MaxDataRows bounds the number of data rows read from a workbook.
// The limit is enforced before mapping begins so an oversized upload
// fails fast instead of occupying a worker for minutes.
const MaxDataRows = 10000

// Row is one data row of a workbook keyed by header name. LineNumber
// is the 1-based spreadsheet row, kept for error reporting.
type Row struct {
	LineNumber int
	Cells      map[string]string
}

// Get returns the trimmed cell under the given header, empty if the
// column does not exist in this file.
func (r Row) Get(header string) string {
	return strings.TrimSpace(r.Cells[header])
}

// Workbook is the header-indexed content of the first sheet of an
// uploaded spreadsheet.
type Workbook struct {
	Headers []string
	Rows    []Row
}

// HasHeaders reports whether every given header is present.
func (w *Workbook) HasHeaders(names ...string) bool {
	set := make(map[string]struct{}, len(w.Headers))
	for _, h := range w.Headers {
		set[h] = struct{}{}
	}
	for _, n := range names {
		if _, ok := set[n]; !ok {
			return false
		}
	}
	return true
}

// ReadWorkbook opens an xlsx file and indexes the first sheet by its
// header row. The first non-empty row is taken as the header.
func ReadWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	headerIdx := -1
	for i, row := range rows {
		if !rowEmpty(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrEmptyFile
	}

	headers := make([]string, len(rows[headerIdx]))
	for i, h := range rows[headerIdx] {
		headers[i] = strings.TrimSpace(h)
	}

	dataRows := rows[headerIdx+1:]
	if len(dataRows) > MaxDataRows {
		return nil, fmt.Errorf("%w: %d rows exceeds the %d row limit", ErrTooManyRows, len(dataRows), MaxDataRows)
	}

	wb := &Workbook{Headers: headers, Rows: make([]Row, 0, len(dataRows))}
	for i, raw := range dataRows {
		if rowEmpty(raw) {
			continue
		}
		cells := make(map[string]string, len(headers))
		for j, h := range headers {
			if h == "" {
				continue
			}
			if j < len(raw) {
				cells[h] = raw[j]
			}
		}
		wb.Rows = append(wb.Rows, Row{LineNumber: headerIdx + i + 2, Cells: cells})
	}
	if len(wb.Rows) == 0 {
		return nil, ErrEmptyFile
	}
	return wb, nil
}

func rowEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
