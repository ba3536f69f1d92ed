package utils

import "strings"

// CleanCell normalizes a raw table cell: special spaces (NBSP/NNBSP/thin)
// become regular spaces, runs of whitespace collapse, ends are trimmed.
func CleanCell(s string) string {
	if s == "" {
		return ""
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', ' ':
			return ' '
		default:
			return r
		}
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// SplitList splits a comma-separated value into cleaned non-empty tokens.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := CleanCell(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
