package model

import "time"

// Event is the unit of input flowing through the engine: one measured value
// belonging to a ranking group, observed at an event time. The value is the
// ranked quantity (e.g. a frame length); its multiplicity within a window is
// the number of events that carried it.
type Event struct {
	Timestamp time.Time
	Group     string
	Value     int64
}
