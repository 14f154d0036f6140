package routes

import (
	"net/http"

	"github.com/kilianp07/vrppd/pkg/export"
)

// Snapshot is a rendered copy of a scored solution. Handlers serve it without
// touching the live solution, which only its director may read.
type Snapshot struct {
	SessionID string
	Score     string
	Stops     []export.Stop
	Chart     []byte
}

// Source yields the latest snapshot, or false before the first score.
type Source interface {
	Snapshot() (Snapshot, bool)
}

var contentTypes = map[export.Format]string{
	export.JSON: "application/json",
	export.CSV:  "text/csv",
	export.YAML: "application/yaml",
	export.HTML: "text/html; charset=utf-8",
}

// NewRouteHandler returns an HTTP handler exposing the vehicle routes via
// GET /api/routes?format=json|csv|yaml|html.
func NewRouteHandler(src Source, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		f := export.JSON
		if s := r.URL.Query().Get("format"); s != "" {
			var err error
			if f, err = export.ParseFormat(s); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		snap, ok := src.Snapshot()
		if !ok {
			http.Error(w, "solution not scored yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", contentTypes[f])
		w.Header().Set("X-Session-ID", snap.SessionID)
		w.Header().Set("X-Score", snap.Score)
		if f == export.HTML {
			_, _ = w.Write(snap.Chart)
			return
		}
		stops := snap.Stops
		if stops == nil {
			stops = []export.Stop{}
		}
		if err := export.Write(w, f, stops); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
