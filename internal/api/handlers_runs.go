package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/docoutline/internal/pipeline"
)

// runSummary is a run without its per-document jobs.
type runSummary struct {
	pipeline.RunSnapshot
	Documents int `json:"documents"`
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.opts.Runs == nil {
		writeJSON(w, http.StatusOK, map[string]any{"runs": []runSummary{}})
		return
	}
	runs := s.opts.Runs.List()
	out := make([]runSummary, 0, len(runs))
	for _, run := range runs {
		snap := run.Snapshot()
		sum := runSummary{RunSnapshot: snap, Documents: len(snap.Jobs)}
		sum.Jobs = nil
		out = append(out, sum)
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": out})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	var run *pipeline.Run
	if s.opts.Runs != nil {
		run = s.opts.Runs.Get(runID)
	}
	if run == nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, run.Snapshot())
}
