package config

import (
	"github.com/kilianp07/vrppd/core/demo"
	"github.com/kilianp07/vrppd/core/geo"
	"github.com/kilianp07/vrppd/core/heuristic"
)

// Corner is a map corner in degrees.
type Corner struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ProblemConfig describes the generated demo problem. Zero values take the
// Florence data set defaults.
type ProblemConfig struct {
	Name            string        `json:"name"`
	RideCount       int           `json:"ride_count"`
	VehicleCount    int           `json:"vehicle_count"`
	DepotCount      int           `json:"depot_count"`
	MinDemand       int           `json:"min_demand"`
	MaxDemand       int           `json:"max_demand"`
	VehicleCapacity int           `json:"vehicle_capacity"`
	Seed            uint64        `json:"seed"`
	DistanceUnit    string        `json:"distance_unit"`
	SouthWest       *Corner       `json:"south_west"`
	NorthEast       *Corner       `json:"north_east"`
	Windows         *demo.Windows `json:"windows"`
	// Order is the difficulty order used to seed routes: angle or distance.
	Order string `json:"order"`
}

// SetDefaults copies the Florence defaults into unset fields.
func (c *ProblemConfig) SetDefaults() {
	d := demo.Florence()
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.RideCount == 0 {
		c.RideCount = d.RideCount
	}
	if c.VehicleCount == 0 {
		c.VehicleCount = d.VehicleCount
	}
	if c.DepotCount == 0 {
		c.DepotCount = d.DepotCount
	}
	if c.MinDemand == 0 && c.MaxDemand == 0 {
		c.MinDemand, c.MaxDemand = d.MinDemand, d.MaxDemand
	}
	if c.VehicleCapacity == 0 {
		c.VehicleCapacity = d.VehicleCapacity
	}
	if c.Seed == 0 {
		c.Seed = d.Seed
	}
	if c.DistanceUnit == "" {
		c.DistanceUnit = d.DistanceUnit
	}
	if c.SouthWest == nil {
		c.SouthWest = &Corner{Latitude: d.SouthWest.Latitude, Longitude: d.SouthWest.Longitude}
	}
	if c.NorthEast == nil {
		c.NorthEast = &Corner{Latitude: d.NorthEast.Latitude, Longitude: d.NorthEast.Longitude}
	}
	if c.Order == "" {
		c.Order = string(heuristic.DepotAngle)
	}
}

// Builder converts the section to a demo builder. SetDefaults must have run.
func (c ProblemConfig) Builder() demo.Builder {
	b := demo.Builder{
		Name:            c.Name,
		MinDemand:       c.MinDemand,
		MaxDemand:       c.MaxDemand,
		VehicleCapacity: c.VehicleCapacity,
		RideCount:       c.RideCount,
		VehicleCount:    c.VehicleCount,
		DepotCount:      c.DepotCount,
		Seed:            c.Seed,
		DistanceUnit:    c.DistanceUnit,
		Windows:         c.Windows,
	}
	if c.SouthWest != nil {
		b.SouthWest = geo.Point{Latitude: c.SouthWest.Latitude, Longitude: c.SouthWest.Longitude}
	}
	if c.NorthEast != nil {
		b.NorthEast = geo.Point{Latitude: c.NorthEast.Latitude, Longitude: c.NorthEast.Longitude}
	}
	return b
}

// Validate checks the builder parameters and the order name.
func (c ProblemConfig) Validate() error {
	if _, err := heuristic.ParseOrder(c.Order); err != nil {
		return err
	}
	return c.Builder().Validate()
}
