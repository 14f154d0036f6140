package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kilianp07/vrppd/pkg/export"
)

type staticSource struct {
	snap  Snapshot
	ready bool
}

func (s staticSource) Snapshot() (Snapshot, bool) { return s.snap, s.ready }

func fixture() staticSource {
	arr := int64(3000)
	return staticSource{ready: true, snap: Snapshot{
		SessionID: "s1",
		Score:     "0hard/-12000soft",
		Stops: []export.Stop{
			{VehicleID: 10, Sequence: 1, RideID: 2, Demand: 80, DistanceFrom: 4000, Arrival: &arr},
			{VehicleID: 11, Sequence: 1, RideID: 3, Demand: 40, DistanceFrom: 3000},
		},
		Chart: []byte("<html>chart</html>"),
	}}
}

func TestRouteHandler_JSON(t *testing.T) {
	h := NewRouteHandler(fixture(), "")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/routes", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if rr.Header().Get("X-Score") != "0hard/-12000soft" || rr.Header().Get("X-Session-ID") != "s1" {
		t.Fatalf("missing headers %v", rr.Header())
	}
	var out []export.Stop
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].RideID != 2 || *out[0].Arrival != 3000 {
		t.Fatalf("unexpected output %#v", out)
	}
}

func TestRouteHandler_Formats(t *testing.T) {
	h := NewRouteHandler(fixture(), "tok")
	for format, want := range map[string]string{
		"csv":  "vehicle_id",
		"yaml": "ride_id: 3",
		"html": "<html>chart</html>",
	} {
		req := httptest.NewRequest("GET", "/api/routes?format="+format, nil)
		req.Header.Set("Authorization", "Bearer tok")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status %d", format, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), want) {
			t.Fatalf("%s: body %q lacks %q", format, rr.Body.String(), want)
		}
		if rr.Header().Get("Content-Type") != contentTypes[export.Format(format)] {
			t.Fatalf("%s: content type %q", format, rr.Header().Get("Content-Type"))
		}
	}
}

func TestRouteHandler_Errors(t *testing.T) {
	cases := []struct {
		name   string
		src    Source
		token  string
		target string
		code   int
	}{
		{"unknown format", fixture(), "", "/api/routes?format=xml", http.StatusBadRequest},
		{"not scored", staticSource{}, "", "/api/routes", http.StatusServiceUnavailable},
		{"unauthorized", fixture(), "tok", "/api/routes", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			NewRouteHandler(tc.src, tc.token).ServeHTTP(rr, httptest.NewRequest("GET", tc.target, nil))
			if rr.Code != tc.code {
				t.Fatalf("expected %d got %d", tc.code, rr.Code)
			}
		})
	}
}
