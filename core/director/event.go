package director

import "time"

// Op names a director action. The values double as metric labels.
type Op string

const (
	OpInsert Op = "insert"
	OpRemove Op = "remove"
	OpMove   Op = "move"
	OpScore  Op = "score"
)

// Event is published on the director's bus after every successful action.
// Vehicle and ride ids are zero when they do not apply.
type Event struct {
	SessionID    string
	Op           Op
	RideID       int64
	VehicleID    int64
	RidesUpdated int
	Score        string
	Time         time.Time
}
