package handler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"keyword-mapping-service/internal/fileio"
	"keyword-mapping-service/internal/mapping/model"
	"keyword-mapping-service/internal/mapping/service"
	"keyword-mapping-service/internal/utils"
)

var nonAlnum = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normHeaderKey normalizes a column name for lookup: lower case, special
// spaces and punctuation collapsed to single spaces.
func normHeaderKey(s string) string {
	s = strings.ToLower(utils.CleanCell(s))
	s = nonAlnum.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveColumns maps each requested column name to the actual header,
// exact match first, then normalized. Unknown columns are an error — the
// selection came from the user and must be reported, not guessed around.
func resolveColumns(headers []string, wanted []string) ([]string, error) {
	norm := make(map[string]string, len(headers))
	exact := make(map[string]bool, len(headers))
	for _, h := range headers {
		exact[h] = true
		if k := normHeaderKey(h); k != "" {
			if _, dup := norm[k]; !dup {
				norm[k] = h
			}
		}
	}

	out := make([]string, 0, len(wanted))
	for _, w := range wanted {
		if exact[w] {
			out = append(out, w)
			continue
		}
		if h, ok := norm[normHeaderKey(w)]; ok {
			out = append(out, h)
			continue
		}
		return nil, fmt.Errorf("column %q not found", w)
	}
	return out, nil
}

// concatColumns joins the selected cells with single spaces, dropping
// empty values; a fully empty selection falls back to "-".
func concatColumns(row map[string]string, cols []string) string {
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		if v := utils.CleanCell(row[c]); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// buildIndexFromTable registers every keyword of the selected keyword
// columns with the row's full product list. Rows later in the file
// overwrite earlier registrations of the same keyword.
func buildIndexFromTable(t *fileio.Table, keyCols, prodCols []string, opts model.Options) *service.Index {
	ix := service.NewIndex(opts)
	for _, row := range t.Rows {
		var products []string
		for _, c := range prodCols {
			if v := utils.CleanCell(row[c]); v != "" {
				products = append(products, v)
			}
		}
		for _, c := range keyCols {
			if kw := utils.CleanCell(row[c]); kw != "" {
				ix.Add(kw, products)
			}
		}
	}
	return ix
}

// buildIndexFromManual turns a comma-separated entry into keywords with no
// products; duplicates collapse, empty tokens drop.
func buildIndexFromManual(raw string, opts model.Options) *service.Index {
	ix := service.NewIndex(opts)
	for _, kw := range utils.SplitList(raw) {
		ix.Add(kw, nil)
	}
	return ix
}

func splitSelection(s string) []string { return utils.SplitList(s) }

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func toBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
