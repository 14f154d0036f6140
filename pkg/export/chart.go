package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/vrppd/core/geo"
	"github.com/kilianp07/vrppd/core/model"
)

// WriteHTML renders every vehicle route as a line from its depot through the
// pickup and delivery points of its rides and back. Longitude is the x axis.
func WriteHTML(w io.Writer, s *model.Solution) error {
	line := charts.NewLine()
	subtitle := s.DistanceString()
	if s.Score != nil {
		subtitle = fmt.Sprintf("%s, %s", s.Score, subtitle)
	}
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: s.Name, Subtitle: subtitle}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "longitude", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "latitude", Scale: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	for v := range s.NumVehicles() {
		if s.LastRide(v) == model.NoRide {
			continue
		}
		line.AddSeries(fmt.Sprintf("vehicle %d", s.Vehicle(v).ID), routeData(s, v))
	}
	if err := line.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func routeData(s *model.Solution, v int) []opts.LineData {
	depot := s.Vehicle(v).Depot.Location.Pickup
	data := []opts.LineData{point(depot, "depot")}
	for i := range s.Chain(v) {
		r := s.Ride(i)
		data = append(data, point(r.Location.Pickup, fmt.Sprintf("ride %d pickup", r.ID)))
		if r.Location.Delivery != r.Location.Pickup {
			data = append(data, point(r.Location.Delivery, fmt.Sprintf("ride %d delivery", r.ID)))
		}
	}
	return append(data, point(depot, "depot"))
}

func point(p geo.Point, name string) opts.LineData {
	return opts.LineData{Name: name, Value: []float64{p.Longitude, p.Latitude}}
}
