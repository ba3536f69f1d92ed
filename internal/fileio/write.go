package fileio

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	excelize "github.com/xuri/excelize/v2"
)

// WriteAny serializes the table in the requested format: "csv", "xlsx" or "json".
func WriteAny(w io.Writer, t *Table, format string) error {
	switch format {
	case "csv":
		return writeCSV(w, t)
	case "xlsx":
		return writeXLSX(w, t)
	case "json":
		return writeJSON(w, t)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// ContentType returns the MIME type for a supported export format.
func ContentType(format string) string {
	switch format {
	case "csv":
		return "text/csv; charset=utf-8"
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "json":
		return "application/json; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

func writeCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	rec := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for i, h := range t.Headers {
			rec[i] = row[h]
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	row := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return err
	}
	for r, rec := range t.Rows {
		for i, h := range t.Headers {
			row[i] = rec[h]
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// writeJSON emits records with fields in header order; encoding/json would
// sort map keys, so objects are assembled by hand.
func writeJSON(w io.Writer, t *Table) error {
	var buf bytes.Buffer
	buf.WriteString("[")
	for r, rec := range t.Rows {
		if r > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n    {")
		for i, h := range t.Headers {
			if i > 0 {
				buf.WriteString(",")
			}
			buf.WriteString("\n        ")
			k, err := json.Marshal(h)
			if err != nil {
				return err
			}
			v, err := json.Marshal(rec[h])
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteString(": ")
			buf.Write(v)
		}
		buf.WriteString("\n    }")
	}
	buf.WriteString("\n]\n")
	_, err := w.Write(buf.Bytes())
	return err
}
