// Package source extracts plain text from the document files of a subject folder.
package source

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_text_source.go -package=mocks github.com/dgallion1/docoutline/internal/source TextSource

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dgallion1/docoutline/internal/document"
)

// ErrUnsupportedFormat is returned for a file whose extension has no registered format.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// TextSource turns one document file into its text.
type TextSource interface {
	ExtractText(ctx context.Context, path string) (*document.Document, error)
}

// Format reads one family of file types.
type Format interface {
	Name() string
	Extensions() []string
	// Extract returns the document text and its page count (0 when the format has no pages).
	Extract(ctx context.Context, path string) (text string, pages int, err error)
}

// Files dispatches extraction by file extension.
type Files struct {
	formats []Format
}

// Options selects extraction behaviour for the default format set.
type Options struct {
	PDFFallbackPdftotext bool
}

// NewFiles returns a Files with every built-in format registered.
func NewFiles(opts Options) *Files {
	return NewFilesWith(
		&PDF{FallbackPdftotext: opts.PDFFallbackPdftotext},
		&DOCX{},
		&HTML{},
		&Markdown{},
		&Text{},
		&EPUB{},
	)
}

// NewFilesWith returns a Files backed by the given formats only.
func NewFilesWith(formats ...Format) *Files {
	return &Files{formats: formats}
}

// ExtractText reads path with the format registered for its extension.
func (f *Files) ExtractText(ctx context.Context, path string) (*document.Document, error) {
	format := f.formatFor(path)
	if format == nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, pages, err := format.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract %s text from %s: %w", format.Name(), filepath.Base(path), err)
	}
	return &document.Document{
		Path:  path,
		Title: document.TitleFromPath(path),
		Text:  text,
		Pages: pages,
	}, nil
}

// Supports reports whether path has a registered extension.
func (f *Files) Supports(path string) bool {
	return f.formatFor(path) != nil
}

// Extensions lists every registered extension, sorted.
func (f *Files) Extensions() []string {
	var out []string
	for _, format := range f.formats {
		out = append(out, format.Extensions()...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func (f *Files) formatFor(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range f.formats {
		if slices.Contains(format.Extensions(), ext) {
			return format
		}
	}
	return nil
}
