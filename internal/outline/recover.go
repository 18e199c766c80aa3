package outline

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Recover extracts a structured value from raw oracle output.
//
// The whole text is tried first and returned as-is if it is valid JSON, whatever its type.
// Otherwise every brace-balanced {...} span is tried in order of its opening brace, and the
// first one that decodes to an object carrying both Chapter and Topics wins. A span that
// fails does not consume the text it covers, so objects nested inside a broken or
// unrelated wrapper are still reachable. ok is false when nothing qualifies.
func Recover(raw string) (v any, ok bool) {
	if v, err := decode(raw); err == nil {
		return v, true
	}
	ends := closers(raw)
	rescans := 0
	for start := 0; start < len(raw); start++ {
		if raw[start] != '{' {
			continue
		}
		end, scanned := ends[start]
		if !scanned {
			// The single pass saw this brace inside a string; scan it on its own.
			if rescans == maxRescans {
				continue
			}
			rescans++
			end = matchBrace(raw, start)
		}
		if end > start {
			if v, err := decode(raw[start : end+1]); err == nil && isRecord(v) {
				return v, true
			}
		}
	}
	return nil, false
}

// maxRescans bounds the per-brace scans Recover falls back to, keeping it linear on
// long runs of braces inside an unterminated string.
const maxRescans = 64

// closers maps every '{' outside a string literal to its matching '}', or -1 when it
// never closes, in one pass. Quotes outside any object do not open a string, so each
// entry equals matchBrace from that position.
func closers(s string) map[int]int {
	ends := make(map[int]int)
	var open []int
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = len(open) > 0
		case '{':
			open = append(open, i)
			ends[i] = -1
		case '}':
			if n := len(open); n > 0 {
				ends[open[n-1]] = i
				open = open[:n-1]
			}
		}
	}
	return ends
}

// decode parses exactly one JSON value, keeping numbers in their literal form.
func decode(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	// Reject trailing data such as a second object or commentary.
	if rest := strings.TrimSpace(s[dec.InputOffset():]); rest != "" {
		return nil, errTrailingData
	}
	return v, nil
}

// matchBrace returns the index of the '}' closing the '{' at start, or -1 if the
// braces never balance. Braces inside string literals are ignored.
func matchBrace(s string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// isRecord reports whether v is an object with both Chapter and Topics keys.
func isRecord(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, hasChapter := m[KeyChapter]
	_, hasTopics := m[KeyTopics]
	return hasChapter && hasTopics
}

var errTrailingData = errors.New("trailing data after json value")

// compact renders a decoded value as compact JSON for display.
func compact(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
