package scores

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/vrppd/core/scorelog"
)

// NewLogHandler returns an HTTP handler exposing the score log via GET /api/scores.
// Requests must include an Authorization header with "Bearer <token>" when token is non-empty.
func NewLogHandler(store scorelog.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		q, err := parseQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []scorelog.Record{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func parseQuery(r *http.Request) (scorelog.Query, error) {
	v := r.URL.Query()
	q := scorelog.Query{
		SessionID: v.Get("session_id"),
		Solution:  v.Get("solution"),
	}
	var err error
	if s := v.Get("start"); s != "" {
		if q.Start, err = time.Parse(time.RFC3339, s); err != nil {
			return q, err
		}
	}
	if s := v.Get("end"); s != "" {
		if q.End, err = time.Parse(time.RFC3339, s); err != nil {
			return q, err
		}
	}
	if s := v.Get("feasible"); s != "" {
		if q.FeasibleOnly, err = strconv.ParseBool(s); err != nil {
			return q, err
		}
	}
	return q, nil
}
