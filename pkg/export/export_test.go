package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/vrppd/core/geo"
	"github.com/kilianp07/vrppd/core/location"
	"github.com/kilianp07/vrppd/core/model"
)

func routed(t *testing.T, windowed bool) *model.Solution {
	t.Helper()
	l1 := location.NewAirPoint(1, "", geo.NewPoint(0, 0, 0))
	l2 := location.NewAir(2, "", geo.NewPoint(0, 0, 4), geo.NewPoint(0, 0, 6))
	l3 := location.NewAirPoint(3, "", geo.NewPoint(0, 3, 0))
	depot := &model.Depot{ID: 1, Location: l1}
	rides := []model.Ride{{ID: 2, Location: l2, Demand: 5}, {ID: 3, Location: l3, Demand: 7}}
	if windowed {
		depot.Window = &model.TimeWindow{Ready: 0, Due: 100_000}
		for i := range rides {
			rides[i].Window = &model.TimeWindow{Ready: 0, Due: 100_000}
		}
	}
	s, err := model.New(model.Problem{
		Locations: []*location.Location{l1, l2, l3},
		Depots:    []*model.Depot{depot},
		Vehicles:  []model.Vehicle{{ID: 10, Capacity: 20, Depot: depot}, {ID: 11, Capacity: 20, Depot: depot}},
		Rides:     rides,
	})
	require.NoError(t, err)
	require.NoError(t, s.AssignAll(1, 1, 0))
	return s
}

func TestStops(t *testing.T) {
	stops := Stops(routed(t, false))
	require.Len(t, stops, 2)
	assert.Equal(t, Stop{VehicleID: 11, Sequence: 1, RideID: 3, Demand: 7, PickupLat: 3, DeliveryLat: 3, DistanceFrom: 3000}, stops[0])
	assert.Equal(t, int64(2), stops[1].RideID)
	assert.Equal(t, 2, stops[1].Sequence)
	assert.Equal(t, float64(6), stops[1].DeliveryLon)
	assert.Nil(t, stops[1].Arrival)
}

func TestStopsWindowed(t *testing.T) {
	stops := Stops(routed(t, true))
	require.NotNil(t, stops[0].Arrival)
	assert.Equal(t, int64(3000), *stops[0].Arrival)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Stops(routed(t, false))))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "vehicle_id", rows[0][0])
	assert.Equal(t, []string{"11", "1", "3", "7", "3", "0", "3", "0", "3000", ""}, rows[1])
}

func TestWriteJSONAndYAML(t *testing.T) {
	stops := Stops(routed(t, true))

	var jb bytes.Buffer
	require.NoError(t, Write(&jb, JSON, stops))
	var fromJSON []Stop
	require.NoError(t, json.Unmarshal(jb.Bytes(), &fromJSON))
	assert.Equal(t, stops, fromJSON)

	var yb bytes.Buffer
	require.NoError(t, Write(&yb, YAML, stops))
	assert.True(t, strings.Contains(yb.String(), "vehicle_id: 11"))
	var fromYAML []Stop
	require.NoError(t, yaml.Unmarshal(yb.Bytes(), &fromYAML))
	assert.Equal(t, stops, fromYAML)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)
	assert.Error(t, Write(&bytes.Buffer{}, Format("xml"), nil))
}

func TestWriteHTML(t *testing.T) {
	s := routed(t, false)
	var buf bytes.Buffer
	require.NoError(t, WriteSolution(&buf, HTML, s))
	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "vehicle 11")
	assert.Contains(t, html, "ride 2 delivery")
	// vehicle 10 has no rides and gets no series
	assert.NotContains(t, html, "vehicle 10")
}

func TestWriteSolutionStops(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSolution(&buf, CSV, routed(t, false)))
	assert.Equal(t, 3, strings.Count(strings.TrimSpace(buf.String()), "\n")+1)
}
