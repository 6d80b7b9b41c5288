package quicktrace

import (
	"fmt"
	"time"
)

// Measurement is one recorded checkpoint: the time elapsed since the
// previous checkpoint (or since the tracer started, for the first one).
// Measurements are values and compare structurally.
type Measurement struct {
	Label   Label         `json:"label"`
	Elapsed time.Duration `json:"elapsed"`
}

// GroupedMeasurement aggregates measurements with similar durations.
// It is produced by the grouping stage only and never stored in a Tracer.
type GroupedMeasurement struct {
	Name    string        `json:"name"`
	Count   int           `json:"count"`
	Total   time.Duration `json:"total"`
	Average time.Duration `json:"average"`
	Min     time.Duration `json:"min"`
	Max     time.Duration `json:"max"`
}

// Item is a display item handed to renderers: either a Measurement or a
// GroupedMeasurement. The set is closed; renderers can switch on the type.
//
//	switch v := item.(type) {
//	case quicktrace.Measurement:
//	case quicktrace.GroupedMeasurement:
//	}
type Item interface {
	// DisplayName is the label shown for the item.
	DisplayName() string
	// Duration is the representative duration: the elapsed time of a single
	// measurement or the average of a group.
	Duration() time.Duration

	item()
}

// DisplayName returns the measurement label.
func (m Measurement) DisplayName() string { return m.Label }

// Duration returns the elapsed time.
func (m Measurement) Duration() time.Duration { return m.Elapsed }

func (Measurement) item() {}

// String formats the measurement as "label: elapsed".
func (m Measurement) String() string {
	return fmt.Sprintf("%s: %v", m.Label, m.Elapsed)
}

// DisplayName returns the group name.
func (g GroupedMeasurement) DisplayName() string { return g.Name }

// Duration returns the group average.
func (g GroupedMeasurement) Duration() time.Duration { return g.Average }

func (GroupedMeasurement) item() {}

// Items converts measurements to display items, preserving order.
func Items(ms []Measurement) []Item {
	items := make([]Item, len(ms))
	for i, m := range ms {
		items[i] = m
	}
	return items
}
