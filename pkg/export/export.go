// Package export writes vehicle routes in machine readable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/vrppd/core/model"
)

// Stop is one ride on a vehicle route. Distances and times use the
// fixed point unit of the solution. Arrival is nil for problems without
// time windows.
type Stop struct {
	VehicleID    int64   `json:"vehicle_id" yaml:"vehicle_id"`
	Sequence     int     `json:"sequence" yaml:"sequence"`
	RideID       int64   `json:"ride_id" yaml:"ride_id"`
	Demand       int     `json:"demand" yaml:"demand"`
	PickupLat    float64 `json:"pickup_lat" yaml:"pickup_lat"`
	PickupLon    float64 `json:"pickup_lon" yaml:"pickup_lon"`
	DeliveryLat  float64 `json:"delivery_lat" yaml:"delivery_lat"`
	DeliveryLon  float64 `json:"delivery_lon" yaml:"delivery_lon"`
	DistanceFrom int64   `json:"distance_from_previous" yaml:"distance_from_previous"`
	Arrival      *int64  `json:"arrival,omitempty" yaml:"arrival,omitempty"`
}

// Stops flattens the routes of s, vehicle by vehicle in route order.
func Stops(s *model.Solution) []Stop {
	var out []Stop
	for v := range s.NumVehicles() {
		seq := 0
		for i := range s.Chain(v) {
			seq++
			r := s.Ride(i)
			st := Stop{
				VehicleID:    s.Vehicle(v).ID,
				Sequence:     seq,
				RideID:       r.ID,
				Demand:       r.Demand,
				PickupLat:    r.Location.Pickup.Latitude,
				PickupLon:    r.Location.Pickup.Longitude,
				DeliveryLat:  r.Location.Delivery.Latitude,
				DeliveryLon:  r.Location.Delivery.Longitude,
				DistanceFrom: r.DistanceFromPrevious(),
			}
			if arr, ok := r.Arrival(); ok {
				st.Arrival = &arr
			}
			out = append(out, st)
		}
	}
	return out
}

// Format is an output encoding.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	YAML Format = "yaml"
	// HTML is an interactive route chart rather than a stop listing.
	HTML Format = "html"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case JSON, CSV, YAML, HTML:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// WriteSolution writes the routes of s in format f.
func WriteSolution(w io.Writer, f Format, s *model.Solution) error {
	if f == HTML {
		return WriteHTML(w, s)
	}
	return Write(w, f, Stops(s))
}

// Write encodes stops to w in format f. HTML needs the whole solution and is
// only available through WriteSolution.
func Write(w io.Writer, f Format, stops []Stop) error {
	switch f {
	case JSON:
		return WriteJSON(w, stops)
	case CSV:
		return WriteCSV(w, stops)
	case YAML:
		return WriteYAML(w, stops)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// WriteJSON writes the stops as a JSON array.
func WriteJSON(w io.Writer, stops []Stop) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stops)
}

// WriteYAML writes the stops as a YAML sequence.
func WriteYAML(w io.Writer, stops []Stop) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(stops); err != nil {
		return err
	}
	return enc.Close()
}

// WriteCSV writes one row per stop with a header line. Arrival is left
// empty when unknown.
func WriteCSV(w io.Writer, stops []Stop) error {
	cw := csv.NewWriter(w)
	header := []string{
		"vehicle_id", "sequence", "ride_id", "demand",
		"pickup_lat", "pickup_lon", "delivery_lat", "delivery_lon",
		"distance_from_previous", "arrival",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range stops {
		arrival := ""
		if s.Arrival != nil {
			arrival = strconv.FormatInt(*s.Arrival, 10)
		}
		rec := []string{
			strconv.FormatInt(s.VehicleID, 10),
			strconv.Itoa(s.Sequence),
			strconv.FormatInt(s.RideID, 10),
			strconv.Itoa(s.Demand),
			formatCoord(s.PickupLat),
			formatCoord(s.PickupLon),
			formatCoord(s.DeliveryLat),
			formatCoord(s.DeliveryLon),
			strconv.FormatInt(s.DistanceFrom, 10),
			arrival,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCoord(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
