package scores

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kilianp07/vrppd/core/scorelog"
)

type memStore struct{ recs []scorelog.Record }

func (m *memStore) Append(ctx context.Context, r scorelog.Record) error {
	m.recs = append(m.recs, r)
	return nil
}

func (m *memStore) Query(ctx context.Context, q scorelog.Query) ([]scorelog.Record, error) {
	var res []scorelog.Record
	for _, r := range m.recs {
		if q.SessionID != "" && r.SessionID != q.SessionID {
			continue
		}
		if q.FeasibleOnly && !r.Feasible() {
			continue
		}
		res = append(res, r)
	}
	return res, nil
}

func (m *memStore) Close() error { return nil }

func TestLogHandler_AuthAndFilters(t *testing.T) {
	store := &memStore{}
	now := time.Now()
	for _, r := range []scorelog.Record{
		{ID: "a", SessionID: "s1", Timestamp: now, Solution: "demo", Hard: -20, Soft: -12000},
		{ID: "b", SessionID: "s1", Timestamp: now, Solution: "demo", Hard: 0, Soft: -14000},
		{ID: "c", SessionID: "s2", Timestamp: now, Solution: "demo"},
	} {
		if err := store.Append(context.Background(), r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	h := NewLogHandler(store, "tok")

	req := httptest.NewRequest("GET", "/api/scores?session_id=s1&feasible=true", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []scorelog.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 || out[0].ID != "b" {
		t.Fatalf("unexpected records %#v", out)
	}
	// unauthorized
	req = httptest.NewRequest("GET", "/api/scores", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestLogHandler_BadRequest(t *testing.T) {
	h := NewLogHandler(&memStore{}, "")
	for _, target := range []string{"/api/scores?start=yesterday", "/api/scores?feasible=maybe"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", target, nil))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", target, rr.Code)
		}
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/api/scores", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}
}

func TestLogHandler_EmptyIsArray(t *testing.T) {
	h := NewLogHandler(scorelog.NopStore{}, "")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/scores", nil))
	if got := rr.Body.String(); got != "[]\n" {
		t.Fatalf("unexpected body %q", got)
	}
}
