package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"keyword-mapping-service/internal/utils"
)

// Table is a parsed tabular file: ordered headers plus one map per data row.
type Table struct {
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

// ReadAny picks a parser by extension and returns the parsed table.
// headerRow is the 1-based header row (ignored for JSON records).
func ReadAny(r io.Reader, filename string, headerRow int) (*Table, error) {
	if headerRow < 1 {
		return nil, fmt.Errorf("header row must be >= 1, got %d", headerRow)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv":
		return readCSV(r, headerRow)
	case ".json":
		return readJSON(r)
	default:
		return nil, fmt.Errorf("unsupported file: %s", filename)
	}
}

func normalizeCell(s string) string { return utils.CleanCell(s) }

// checkHeaderRow rejects a header row past the end of the file; silently
// treating row 1 as the header there would yield an empty, confusing result.
func checkHeaderRow(rows [][]string, headerRow int) error {
	if headerRow > len(rows) {
		return fmt.Errorf("header row %d out of range: file has %d rows", headerRow, len(rows))
	}
	return nil
}

// pickHeader takes the header row and substitutes Column N for blanks.
// headerRow must be validated against the grid first.
func pickHeader(rows [][]string, headerRow int) []string {
	h := rows[headerRow-1]
	out := make([]string, len(h))
	for i, v := range h {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

// rowsToTable converts the raw grid into records by header, skipping fully empty rows.
func rowsToTable(rows [][]string, headers []string, headerRow int) *Table {
	t := &Table{Headers: headers, Rows: []map[string]string{}}
	for r := headerRow; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			m[headers[c]] = v
			if strings.TrimSpace(v) != "" {
				empty = false
			}
		}
		if !empty {
			t.Rows = append(t.Rows, m)
		}
	}
	return t
}
