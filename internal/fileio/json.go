package fileio

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// readJSON parses an array of flat records. Column order follows first
// appearance across records (token-level walk; a plain map decode would
// lose it). null cells become "", other values keep their literal form.
func readJSON(r io.Reader) (*Table, error) {
	dec := json.NewDecoder(bufio.NewReader(r))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errors.New("json: expected an array of records")
	}

	t := &Table{Rows: []map[string]string{}}
	seen := map[string]bool{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, errors.New("json: record is not an object")
		}

		m := map[string]string{}
		empty := true
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("json: %w", err)
			}
			key := kt.(string)

			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("json: field %q: %w", key, err)
			}
			v := cellFromJSON(raw)
			m[key] = v
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			if !seen[key] {
				seen[key] = true
				t.Headers = append(t.Headers, key)
			}
		}
		if _, err := dec.Token(); err != nil { // closing '}'
			return nil, fmt.Errorf("json: %w", err)
		}
		if !empty {
			t.Rows = append(t.Rows, m)
		}
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return nil, fmt.Errorf("json: %w", err)
	}
	return t, nil
}

func cellFromJSON(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	switch {
	case s == "null":
		return ""
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(raw, &v); err == nil {
			return v
		}
		return s
	default:
		// numbers, booleans, nested values: keep the literal text
		return s
	}
}
