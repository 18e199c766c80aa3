package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/chunker"
	"github.com/dgallion1/docoutline/internal/metrics"
	"github.com/dgallion1/docoutline/internal/oracle"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/source"
)

// previewChars is how much of each oracle answer is logged.
const previewChars = 100

// DocumentProcessor turns one document into outline rows.
// Failures are recorded on the job; they never stop the run.
type DocumentProcessor interface {
	Process(ctx context.Context, job *Job) []outline.Row
}

// Oracle answers one prompt; ok is false when no answer was obtained.
type Oracle interface {
	Invoke(ctx context.Context, prompt string) (text string, ok bool)
}

// Processor runs the extract, chunk, query, merge and flatten stages for a document.
// Chunks are queried one after another.
type Processor struct {
	source   source.TextSource
	oracle   Oracle
	maxWords int
	metrics  *metrics.Metrics
	log      *slog.Logger
}

func NewProcessor(src source.TextSource, o Oracle, maxWords int, m *metrics.Metrics, log *slog.Logger) *Processor {
	if maxWords <= 0 {
		maxWords = chunker.DefaultMaxWords
	}
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		source:   src,
		oracle:   o,
		maxWords: maxWords,
		metrics:  m,
		log:      log,
	}
}

// Process runs the full pipeline for a job.
func (p *Processor) Process(ctx context.Context, job *Job) []outline.Row {
	log := p.log.With("job_id", job.ID, "document", job.Title)

	// Phase 1: Extract
	job.SetStatus(StatusExtracting)
	doc, err := p.source.ExtractText(ctx, job.Path)
	if err != nil {
		log.Error("text extraction failed", "path", job.Path, "error", err)
		return p.fail(job, fmt.Sprintf("extract: %s", err))
	}

	// Phase 2: Chunk
	job.SetStatus(StatusChunking)
	total := chunker.Count(doc.Text, p.maxWords)
	job.SetTotalChunks(total)
	if total == 0 {
		log.Warn("no text in document")
		return p.empty(job)
	}
	log.Info("chunked document", "chunks", total, "pages", doc.Pages)

	// Phase 3: Query the oracle once per chunk.
	job.SetStatus(StatusQuerying)
	responses := make([]outline.Response, 0, total)
	for chunk := range chunker.Split(doc.Text, p.maxWords) {
		if err := ctx.Err(); err != nil {
			log.Warn("document canceled", "chunks_done", len(responses), "error", err)
			return p.fail(job, fmt.Sprintf("canceled after %d of %d chunks", len(responses), total))
		}
		clog := log.With("chunk", chunk.Index+1, "of", total)
		clog.Debug("querying oracle", "tokens_est", chunker.EstimateTokens(chunk.Text))

		text, ok := p.oracle.Invoke(ctx, oracle.BuildPrompt(chunk.Text))
		responses = append(responses, outline.Response{Chunk: chunk.Index, Text: text, Absent: !ok})
		job.ChunkDone(ok)
		if !ok {
			job.AddError(fmt.Sprintf("chunk %d: no oracle answer", chunk.Index+1))
			p.metrics.ObserveChunk("absent")
			continue
		}
		p.metrics.ObserveChunk("answered")
		clog.Info("oracle response", "preview", preview(text, previewChars))
	}

	// Phase 4: Merge and flatten.
	job.SetStatus(StatusMerging)
	rows := outline.Flatten(outline.Merge(responses, log), log)
	job.SetRows(len(rows))
	if len(rows) == 0 {
		log.Warn("no outline rows recovered")
		return p.empty(job)
	}

	job.SetStatus(StatusCompleted)
	p.metrics.ObserveDocument(string(StatusCompleted))
	log.Info("document processed", "rows", len(rows))
	return rows
}

func (p *Processor) fail(job *Job, msg string) []outline.Row {
	job.AddError(msg)
	job.SetStatus(StatusFailed)
	p.metrics.ObserveDocument(string(StatusFailed))
	return nil
}

func (p *Processor) empty(job *Job) []outline.Row {
	job.SetStatus(StatusEmpty)
	p.metrics.ObserveDocument(string(StatusEmpty))
	return nil
}

// preview returns at most n runes of s.
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
