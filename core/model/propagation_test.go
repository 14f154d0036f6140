package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextArrival(t *testing.T) {
	tests := []struct {
		name      string
		dep, dist int64
		ready     int64
		fromDepot bool
		want      int64
	}{
		{"depot waits for ready", 8_00_00, 4000, 9_00_00, true, 9_00_00},
		{"depot late start", 8_00_00, 4000, 8_00_00, true, 84000},
		{"ride ignores ready", 9_40_00, 5000, 12_00_00, false, 99000},
	}
	for _, tt := range tests {
		if got := NextArrival(tt.dep, tt.dist, tt.ready, tt.fromDepot); got != tt.want {
			t.Fatalf("%s: got %d want %d", tt.name, got, tt.want)
		}
	}
}

func TestPropagationOnInsert(t *testing.T) {
	s := windowedSolution(t)
	require.NoError(t, s.AssignAll(0, 0, 1))

	assert.Equal(t, int64(8_00_00+4000), arrival(t, s, 0))
	dep, ok := s.Ride(0).Departure()
	require.True(t, ok)
	assert.Equal(t, int64(8_00_00+4000+1_00_00), dep)
	assert.Equal(t, int64(8_00_00+4000+1_00_00+5000), arrival(t, s, 1))
	assert.True(t, s.Ride(1).ArrivalAfterDue())
	assert.Equal(t, int64(90_00), s.Ride(1).Lateness())

	_, ok = s.Ride(2).Arrival()
	assert.False(t, ok)
	require.NoError(t, s.Validate())
}

func TestPropagationWaitsForReadyTime(t *testing.T) {
	s := windowedSolution(t)
	require.NoError(t, s.AssignAll(0, 0, 1, 2))

	// (3,0) to (3,4) from a departure of 10_90_00
	assert.Equal(t, int64(11_30_00), arrival(t, s, 2))
	assert.True(t, s.Ride(2).ArrivalBeforeReady())
	dep, _ := s.Ride(2).Departure()
	assert.Equal(t, int64(13_00_00), dep)
	assert.False(t, s.Ride(2).ArrivalAfterDue())
}

func TestPropagationUpdatesSuffix(t *testing.T) {
	s := windowedSolution(t)
	require.NoError(t, s.AssignAll(0, 0, 1))
	require.NoError(t, s.InsertAfter(AtVehicle(0), 2))

	assert.Equal(t, []int{2, 0, 1}, s.Rides(0))
	assert.Equal(t, int64(12_00_00), arrival(t, s, 2))
	assert.Equal(t, int64(13_30_00), arrival(t, s, 0))
	assert.Equal(t, int64(14_80_00), arrival(t, s, 1))
	require.NoError(t, s.Validate())
}

func TestPropagationIsIdempotent(t *testing.T) {
	s := windowedSolution(t)
	require.NoError(t, s.AssignAll(0, 0, 1, 2))
	before := s.Clone()

	assert.Equal(t, 0, s.PropagateFrom(s.Vehicle(0).FirstRide()))
	assert.Equal(t, 0, s.PropagateAll())
	assert.Equal(t, before.rides, s.rides)
}

func TestPropagationStopsAtUnchangedRide(t *testing.T) {
	s := windowedSolution(t)
	require.NoError(t, s.AssignAll(0, 0, 1, 2))

	s.rides[0].arrival = 0
	// ride 0 is fixed, ride 1 and 2 were already right
	assert.Equal(t, 1, s.PropagateFrom(0))
	require.NoError(t, s.Validate())
}

func TestRemoveCollapsesSuffix(t *testing.T) {
	fresh := windowedSolution(t)
	require.NoError(t, fresh.AssignAll(0, 0, 1))

	s := windowedSolution(t)
	require.NoError(t, s.AssignAll(0, 2, 0, 1))
	require.NoError(t, s.Remove(2))

	assert.Equal(t, fresh.rides, s.rides)
	_, ok := s.Ride(2).Arrival()
	assert.False(t, ok)
}

func TestPlainProblemHasNoArrivals(t *testing.T) {
	s := plainSolution(t)
	require.NoError(t, s.AssignAll(0, 0, 1))
	_, ok := s.Ride(0).Arrival()
	assert.False(t, ok)
	assert.Equal(t, 0, s.PropagateFrom(0))
	assert.Equal(t, 0, s.PropagateAll())
}

func TestPropagateAllRepairsEverything(t *testing.T) {
	s := windowedSolution(t)
	require.NoError(t, s.AssignAll(0, 0, 1, 2))
	s.rides[0].arrival = 1
	s.rides[2].arrival = 1
	assert.Equal(t, 2, s.PropagateAll())
	require.NoError(t, s.Validate())
}
