package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
)

// EPUB reads the spine documents of an EPUB book in reading order.
type EPUB struct{}

func (e *EPUB) Name() string         { return "EPUB" }
func (e *EPUB) Extensions() []string { return []string{".epub"} }

func (e *EPUB) Extract(ctx context.Context, path string) (string, int, error) {
	rc, err := epub.OpenReader(path)
	if err != nil {
		return "", 0, fmt.Errorf("open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return "", 0, errors.New("no rootfiles found in epub")
	}

	book := rc.Rootfiles[0]
	var sections []string
	for _, ref := range book.Spine.Itemrefs {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		text, err := htmlText(r)
		r.Close()
		if err != nil || text == "" {
			continue
		}
		sections = append(sections, text)
	}
	return strings.Join(sections, "\n\n"), 0, nil
}
