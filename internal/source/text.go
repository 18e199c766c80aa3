package source

import (
	"context"
	"os"
	"strings"
	"unicode/utf8"
)

// Text reads plain text files as-is.
type Text struct{}

func (t *Text) Name() string         { return "text" }
func (t *Text) Extensions() []string { return []string{".txt"} }

func (t *Text) Extract(_ context.Context, path string) (string, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, err
	}
	s := string(data)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}
	return strings.TrimPrefix(s, "\uFEFF"), 0, nil
}
