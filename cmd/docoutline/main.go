package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dgallion1/docoutline/internal/api"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/metrics"
	"github.com/dgallion1/docoutline/internal/oracle"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/sink"
	"github.com/dgallion1/docoutline/internal/source"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	log := newLogger(cfg)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	stats := oracle.NewStats(time.Hour)
	client := oracle.NewClient(newGenerator(cfg), oracle.Options{
		Timeout: cfg.OracleTimeout,
		Pacing:  pacing(cfg.OraclePacing),
		Stats:   stats,
		Metrics: m,
	}, log.With("component", "oracle"))

	src := source.NewFiles(source.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext})
	proc := pipeline.NewProcessor(src, client, cfg.ChunkWords, m, log.With("component", "processor"))
	runs := pipeline.NewRunStore()
	driver := pipeline.NewDriver(cfg, proc, runs, m, log.With("component", "driver"))

	if cfg.StatusAddr != "" {
		srv := api.NewServer(api.Options{
			Runs:        runs,
			OracleStats: stats,
			OracleModel: cfg.OracleModel,
			Gatherer:    reg,
			APIKey:      cfg.StatusAPIKey,
		}, log.With("component", "api"))
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.StatusAddr); err != nil {
				log.Error("status server error", "error", err)
			}
		}()
	}

	log.Info("starting docoutline",
		"subjects", len(cfg.Subjects),
		"backend", cfg.OracleBackend,
		"model", cfg.OracleModel,
		"chunk_words", cfg.ChunkWords,
		"extensions", cfg.Extensions,
	)

	code := 0
	for _, subject := range cfg.Subjects {
		if ctx.Err() != nil {
			log.Warn("interrupted, skipping remaining subjects", "subject", subject.Name)
			break
		}
		out, err := sink.ForFile(subject.Output, log.With("component", "sink", "subject", subject.Name))
		if err != nil {
			log.Error("invalid output", "subject", subject.Name, "error", err)
			code = 1
			continue
		}
		n, err := driver.Export(ctx, subject, out)
		if err != nil {
			log.Error("writing output failed", "subject", subject.Name, "error", err)
			code = 1
			continue
		}
		log.Info("subject done", "subject", subject.Name, "rows", n, "output", subject.Output)
	}

	snap := stats.Snapshot()
	log.Info("docoutline finished", "oracle_calls", snap.Count, "oracle_outcomes", snap.Outcomes, "p50_ms", snap.P50Ms)
	return code
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func newGenerator(cfg config.Config) oracle.Generator {
	if cfg.OracleBackend == config.BackendOpenAI {
		return oracle.NewOpenAI(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OracleModel)
	}
	return oracle.NewProcess(cfg.OracleCommand, "run", cfg.OracleModel)
}

// pacing maps a configured zero to "no delay"; the client treats zero as its default.
func pacing(d time.Duration) time.Duration {
	if d == 0 {
		return -1
	}
	return d
}
