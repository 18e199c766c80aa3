package api

import "net/http"

func (s *Server) handleOracleStats(w http.ResponseWriter, r *http.Request) {
	if s.opts.OracleStats == nil {
		jsonError(w, "oracle stats unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"model": s.opts.OracleModel,
		"stats": s.opts.OracleStats.Snapshot(),
	})
}
