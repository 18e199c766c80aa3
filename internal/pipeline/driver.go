package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/document"
	"github.com/dgallion1/docoutline/internal/metrics"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/sink"
)

// Driver runs a DocumentProcessor over every matching file of a folder.
type Driver struct {
	proc       DocumentProcessor
	extensions []string
	workers    int
	runs       *RunStore
	metrics    *metrics.Metrics
	log        *slog.Logger
}

// NewDriver creates a driver. cfg supplies the document extensions and worker count.
func NewDriver(cfg config.Config, proc DocumentProcessor, runs *RunStore, m *metrics.Metrics, log *slog.Logger) *Driver {
	workers := max(cfg.DocWorkers, 1)
	exts := make([]string, 0, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		exts = append(exts, strings.ToLower(ext))
	}
	if runs == nil {
		runs = NewRunStore()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Driver{
		proc:       proc,
		extensions: exts,
		workers:    workers,
		runs:       runs,
		metrics:    m,
		log:        log,
	}
}

// Runs returns the registry that every run is recorded in.
func (d *Driver) Runs() *RunStore { return d.runs }

// Run processes folder and returns the rows of all its documents in path order.
func (d *Driver) Run(ctx context.Context, folder string) []outline.Row {
	return d.RunSubject(ctx, filepath.Base(folder), folder)
}

// RunSubject is Run with an explicit subject name for logs, metrics and the run registry.
func (d *Driver) RunSubject(ctx context.Context, subject, folder string) []outline.Row {
	run := NewRun(subject, folder)
	d.runs.Put(run)
	done := d.metrics.RunStarted()
	defer done()

	log := d.log.With("run_id", run.ID, "subject", subject, "folder", folder)

	paths, err := d.list(folder)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("folder not found")
		} else {
			log.Error("cannot list folder", "error", err)
		}
		run.Finish(RunCompleted, 0)
		return nil
	}
	if len(paths) == 0 {
		log.Warn("no documents found", "extensions", d.extensions)
		run.Finish(RunCompleted, 0)
		return nil
	}
	log.Info("processing folder", "documents", len(paths), "workers", d.workers)

	jobs := make([]*Job, len(paths))
	for i, path := range paths {
		jobs[i] = NewJob(path, document.TitleFromPath(path))
		run.AddJob(jobs[i])
	}

	// Each document writes only its own slot, so output order is path order.
	slots := make([][]outline.Row, len(jobs))
	var g errgroup.Group
	g.SetLimit(d.workers)
	for i, job := range jobs {
		g.Go(func() error {
			if ctx.Err() != nil {
				job.AddError("run canceled before start")
				job.SetStatus(StatusFailed)
				return nil
			}
			log.Info("processing document", "index", i+1, "of", len(jobs), "path", job.Path)
			slots[i] = d.proc.Process(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	var rows []outline.Row
	for _, s := range slots {
		rows = append(rows, s...)
	}

	status := RunCompleted
	if ctx.Err() != nil {
		status = RunCanceled
	}
	run.Finish(status, len(rows))
	d.metrics.ObserveRows(subject, len(rows))
	log.Info("folder done", "rows", len(rows), "status", status)
	return rows
}

// list returns regular files in folder with a configured extension, sorted by path.
func (d *Driver) list(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() && e.Type()&fs.ModeSymlink == 0 {
			continue
		}
		if !slices.Contains(d.extensions, strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		paths = append(paths, filepath.Join(folder, e.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

// Export runs the subject's folder and writes its rows to out.
// When the folder yields no rows the sink is not called.
func (d *Driver) Export(ctx context.Context, subject config.Subject, out sink.TableSink) (int, error) {
	rows := d.RunSubject(ctx, subject.Name, subject.Folder)
	if len(rows) == 0 {
		d.log.Warn("no rows extracted, output not written", "subject", subject.Name, "output", subject.Output)
		return 0, nil
	}
	if err := out.Write(ctx, rows); err != nil {
		return 0, fmt.Errorf("export %s: %w", subject.Name, err)
	}
	return len(rows), nil
}
