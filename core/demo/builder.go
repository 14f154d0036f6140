// Package demo generates reproducible pickup-delivery problems inside a
// bounding box.
package demo

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/samber/lo"

	"github.com/kilianp07/vrppd/core/geo"
	"github.com/kilianp07/vrppd/core/location"
	"github.com/kilianp07/vrppd/core/model"
)

// Sequence hands out identities. Each problem gets its own sequence.
type Sequence struct {
	last int64
}

// NewSequence returns a sequence whose first value is start+1.
func NewSequence(start int64) *Sequence { return &Sequence{last: start} }

// Next returns the next identity.
func (s *Sequence) Next() int64 {
	s.last++
	return s.last
}

// Windows configures time windowed generation. All values use the geo.Scale
// fixed point unit.
type Windows struct {
	DayStart int64 `json:"day_start"`
	DayEnd   int64 `json:"day_end"`
	Length   int64 `json:"length"`
	Service  int64 `json:"service"`
}

// Builder describes a random problem. Demands are drawn from
// [MinDemand, MaxDemand).
type Builder struct {
	Name            string
	MinDemand       int
	MaxDemand       int
	VehicleCapacity int
	RideCount       int
	VehicleCount    int
	DepotCount      int
	SouthWest       geo.Point
	NorthEast       geo.Point
	Seed            uint64
	DistanceUnit    string
	Windows         *Windows
}

// Florence returns the builder of the default demo data set.
func Florence() Builder {
	return Builder{
		Name:            "demo",
		MinDemand:       1,
		MaxDemand:       2,
		VehicleCapacity: 40,
		RideCount:       77,
		VehicleCount:    2,
		DepotCount:      1,
		SouthWest:       geo.Point{Latitude: 43.751466, Longitude: 11.177210},
		NorthEast:       geo.Point{Latitude: 43.809291, Longitude: 11.290195},
		Seed:            2,
		DistanceUnit:    "km",
	}
}

// Validate reports every invalid parameter at once.
func (b Builder) Validate() error {
	var errs []error
	if b.MinDemand < 1 {
		errs = append(errs, fmt.Errorf("minDemand (%d) must be greater than zero", b.MinDemand))
	}
	if b.MaxDemand < 1 {
		errs = append(errs, fmt.Errorf("maxDemand (%d) must be greater than zero", b.MaxDemand))
	}
	if b.MinDemand >= b.MaxDemand {
		errs = append(errs, fmt.Errorf("maxDemand (%d) must be greater than minDemand (%d)", b.MaxDemand, b.MinDemand))
	}
	counts := []struct {
		name string
		v    int
	}{
		{"vehicleCapacity", b.VehicleCapacity},
		{"rideCount", b.RideCount},
		{"vehicleCount", b.VehicleCount},
		{"depotCount", b.DepotCount},
	}
	for _, c := range counts {
		if c.v < 1 {
			errs = append(errs, fmt.Errorf("%s (%d) must be greater than zero", c.name, c.v))
		}
	}
	if b.NorthEast.Latitude <= b.SouthWest.Latitude {
		errs = append(errs, fmt.Errorf("northEast latitude (%g) must be greater than southWest latitude (%g)",
			b.NorthEast.Latitude, b.SouthWest.Latitude))
	}
	if b.NorthEast.Longitude <= b.SouthWest.Longitude {
		errs = append(errs, fmt.Errorf("northEast longitude (%g) must be greater than southWest longitude (%g)",
			b.NorthEast.Longitude, b.SouthWest.Longitude))
	}
	if w := b.Windows; w != nil {
		if w.DayEnd <= w.DayStart {
			errs = append(errs, fmt.Errorf("day end (%d) must be after day start (%d)", w.DayEnd, w.DayStart))
		}
		if w.Length <= 0 || w.Length > w.DayEnd-w.DayStart {
			errs = append(errs, fmt.Errorf("window length (%d) must fit in the day", w.Length))
		}
		if w.Service < 0 {
			errs = append(errs, fmt.Errorf("service duration (%d) must not be negative", w.Service))
		}
	}
	return errors.Join(errs...)
}

// Build validates b and generates the problem. The same builder and seed
// always produce the same solution.
func (b Builder) Build(seq *Sequence) (*model.Solution, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("demo builder: %w", err)
	}
	if seq == nil {
		seq = NewSequence(0)
	}
	rng := rand.New(rand.NewPCG(b.Seed, b.Seed^0x9e3779b97f4a7c15))
	randomPoint := func() geo.Point {
		lat := b.SouthWest.Latitude + rng.Float64()*(b.NorthEast.Latitude-b.SouthWest.Latitude)
		lon := b.SouthWest.Longitude + rng.Float64()*(b.NorthEast.Longitude-b.SouthWest.Longitude)
		return geo.NewPoint(seq.Next(), lat, lon)
	}

	depots := lo.Times(b.DepotCount, func(int) *model.Depot {
		d := &model.Depot{ID: seq.Next()}
		d.Location = location.NewAirPoint(seq.Next(), "", randomPoint())
		if b.Windows != nil {
			d.Window = &model.TimeWindow{Ready: b.Windows.DayStart, Due: b.Windows.DayEnd}
		}
		return d
	})
	vehicles := lo.Times(b.VehicleCount, func(int) model.Vehicle {
		return model.Vehicle{ID: seq.Next(), Capacity: b.VehicleCapacity, Depot: depots[rng.IntN(b.DepotCount)]}
	})
	rides := lo.Times(b.RideCount, func(int) model.Ride {
		r := model.Ride{ID: seq.Next()}
		r.Location = location.NewAir(seq.Next(), "", randomPoint(), randomPoint())
		r.Demand = b.MinDemand + rng.IntN(b.MaxDemand-b.MinDemand)
		if w := b.Windows; w != nil {
			ready := w.DayStart + rng.Int64N(w.DayEnd-w.DayStart-w.Length+1)
			r.Window = &model.TimeWindow{Ready: ready, Due: ready + w.Length, Service: w.Service}
		}
		return r
	})

	locs := make([]*location.Location, 0, len(rides)+len(depots))
	for _, r := range rides {
		locs = append(locs, r.Location)
	}
	for _, d := range depots {
		locs = append(locs, d.Location)
	}
	return model.New(model.Problem{
		Name:         b.Name,
		DistanceType: location.KindAir,
		DistanceUnit: b.DistanceUnit,
		Locations:    locs,
		Depots:       depots,
		Vehicles:     vehicles,
		Rides:        rides,
		SouthWest:    b.SouthWest,
		NorthEast:    b.NorthEast,
	})
}
