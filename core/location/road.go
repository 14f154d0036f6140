package location

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// UnknownPairError is raised when a road distance is requested for a pair the
// table does not contain.
type UnknownPairError struct {
	From int64
	To   int64
}

func (e *UnknownPairError) Error() string {
	return fmt.Sprintf("no road distance from location %d to %d", e.From, e.To)
}

// RoadTable holds precomputed travel costs between location identities.
// Missing entries are stored as NaN.
type RoadTable struct {
	index map[int64]int
	dist  *mat.Dense
}

// NewRoadTable allocates an empty table for the given location identities.
func NewRoadTable(ids []int64) (*RoadTable, error) {
	if len(ids) == 0 {
		return nil, errors.New("road table needs at least one location")
	}
	idx := make(map[int64]int, len(ids))
	for i, id := range ids {
		if _, dup := idx[id]; dup {
			return nil, fmt.Errorf("duplicate location id %d", id)
		}
		idx[id] = i
	}
	n := len(ids)
	data := make([]float64, n*n)
	for i := range data {
		data[i] = math.NaN()
	}
	return &RoadTable{index: idx, dist: mat.NewDense(n, n, data)}, nil
}

// Set stores the cost of travelling from one location to another.
func (t *RoadTable) Set(from, to int64, d float64) error {
	i, ok := t.index[from]
	if !ok {
		return fmt.Errorf("unknown location id %d", from)
	}
	j, ok := t.index[to]
	if !ok {
		return fmt.Errorf("unknown location id %d", to)
	}
	if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return fmt.Errorf("invalid road distance %v from %d to %d", d, from, to)
	}
	t.dist.Set(i, j, d)
	return nil
}

// Distance returns the stored cost and whether the pair is known.
func (t *RoadTable) Distance(from, to int64) (float64, bool) {
	if t == nil {
		return 0, false
	}
	i, ok := t.index[from]
	if !ok {
		return 0, false
	}
	j, ok := t.index[to]
	if !ok {
		return 0, false
	}
	d := t.dist.At(i, j)
	if math.IsNaN(d) {
		return 0, false
	}
	return d, true
}

// Validate reports every ordered pair of distinct road locations the table
// cannot answer. It is meant to run once when a problem is assembled so
// queries during solving never hit a missing entry.
func (t *RoadTable) Validate(locs []*Location) error {
	var errs []error
	for _, a := range locs {
		if a.Kind != KindRoad {
			continue
		}
		if a.road != t {
			errs = append(errs, fmt.Errorf("location %d uses a different road table", a.ID))
			continue
		}
		for _, b := range locs {
			if a.ID == b.ID {
				continue
			}
			if _, ok := t.Distance(a.ID, b.ID); !ok {
				errs = append(errs, &UnknownPairError{From: a.ID, To: b.ID})
			}
		}
	}
	return errors.Join(errs...)
}
