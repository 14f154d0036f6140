package model

import (
	"testing"

	"github.com/kilianp07/vrppd/core/geo"
	"github.com/kilianp07/vrppd/core/location"
)

var (
	loc1 = location.NewAirPoint(1, "", geo.NewPoint(1, 0, 0))
	loc2 = location.NewAirPoint(2, "", geo.NewPoint(2, 0, 4))
	loc3 = location.NewAirPoint(3, "", geo.NewPoint(3, 3, 0))
	loc4 = location.NewAirPoint(4, "", geo.NewPoint(4, 3, 4))
)

// plainSolution has one vehicle of capacity 100 at loc1 and rides at loc2,
// loc3 and loc4 with demands 80, 40 and 10.
func plainSolution(t *testing.T) *Solution {
	t.Helper()
	depot := &Depot{ID: 1, Location: loc1}
	s, err := New(Problem{
		Name:      "plain",
		Locations: []*location.Location{loc1, loc2, loc3, loc4},
		Depots:    []*Depot{depot},
		Vehicles:  []Vehicle{{ID: 1, Capacity: 100, Depot: depot}},
		Rides: []Ride{
			{ID: 2, Location: loc2, Demand: 80},
			{ID: 3, Location: loc3, Demand: 40},
			{ID: 4, Location: loc4, Demand: 10},
		},
	})
	if err != nil {
		t.Fatalf("new solution: %v", err)
	}
	return s
}

// windowedSolution mirrors the lateness fixture: depot open 8_00_00 to
// 18_00_00, service 1_00_00 everywhere and the second ride due at 9_00_00.
func windowedSolution(t *testing.T) *Solution {
	t.Helper()
	depot := &Depot{ID: 1, Location: loc1, Window: &TimeWindow{Ready: 8_00_00, Due: 18_00_00}}
	s, err := New(Problem{
		Name:      "windowed",
		Locations: []*location.Location{loc1, loc2, loc3, loc4},
		Depots:    []*Depot{depot},
		Vehicles: []Vehicle{
			{ID: 1, Capacity: 100, Depot: depot},
			{ID: 2, Capacity: 100, Depot: depot},
		},
		Rides: []Ride{
			{ID: 2, Location: loc2, Demand: 1, Window: &TimeWindow{Ready: 8_00_00, Due: 18_00_00, Service: 1_00_00}},
			{ID: 3, Location: loc3, Demand: 40, Window: &TimeWindow{Ready: 8_00_00, Due: 9_00_00, Service: 1_00_00}},
			{ID: 4, Location: loc4, Demand: 5, Window: &TimeWindow{Ready: 12_00_00, Due: 13_00_00, Service: 1_00_00}},
		},
	})
	if err != nil {
		t.Fatalf("new solution: %v", err)
	}
	return s
}
