// Package sink writes flattened outline rows to a table file.
package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
)

// ErrUnsupportedFormat is returned by ForFile for an output extension with no sink.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// TableSink stores an ordered set of rows under the fixed outline header.
type TableSink interface {
	Write(ctx context.Context, rows []outline.Row) error
}

// ForFile picks a sink by the extension of path: .xlsx, .csv, or .db/.sqlite/.sqlite3.
// Writing zero rows through the returned sink is a logged no-op and leaves path untouched.
func ForFile(path string, log *slog.Logger) (TableSink, error) {
	if log == nil {
		log = slog.Default()
	}
	var inner TableSink
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		inner = &XLSX{Path: path}
	case ".csv":
		inner = &CSV{Path: path}
	case ".db", ".sqlite", ".sqlite3":
		inner = &SQLite{Path: path}
	default:
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}
	return &skipEmpty{inner: inner, path: path, log: log}, nil
}

type skipEmpty struct {
	inner TableSink
	path  string
	log   *slog.Logger
}

func (s *skipEmpty) Write(ctx context.Context, rows []outline.Row) error {
	if len(rows) == 0 {
		s.log.Info("no rows to write, skipping output", "path", s.path)
		return nil
	}
	if err := s.inner.Write(ctx, rows); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.log.Info("wrote outline rows", "path", s.path, "rows", len(rows))
	return nil
}

// replaceFile writes through a temporary file in the target directory and renames it over path.
func replaceFile(path string, write func(f *os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".docoutline-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
