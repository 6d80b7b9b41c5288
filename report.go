package quicktrace

import (
	"time"

	"github.com/google/uuid"
)

// Report is the finalized view of a trace handed to renderers and handlers.
// Measurements exclude the terminal "End" checkpoint; Items are the
// measurements after filtering and grouping.
type Report struct {
	ID           string
	Name         string
	StartedAt    time.Time
	Total        time.Duration
	Caller       *Caller
	Measurements []Measurement
	Items        []Item
	Filters      FilterConfig
}

func (t *Tracer) buildReport(total time.Duration) *Report {
	spans := t.Spans()

	r := &Report{
		ID:           uuid.NewString(),
		Name:         t.name,
		StartedAt:    t.start,
		Total:        total,
		Measurements: spans,
		Items:        t.filters.Apply(spans),
		Filters:      t.filters,
	}
	if t.caller != nil {
		c := *t.caller
		r.Caller = &c
	}
	return r
}

// Percent returns d as a percentage of the report total.
func (r *Report) Percent(d time.Duration) float64 {
	return Percent(d, r.Total)
}

// Slowest returns the measurement with the longest elapsed time. Ties go to
// the earliest measurement.
func (r *Report) Slowest() (Measurement, bool) {
	if len(r.Measurements) == 0 {
		return Measurement{}, false
	}
	slowest := r.Measurements[0]
	for _, m := range r.Measurements[1:] {
		if m.Elapsed > slowest.Elapsed {
			slowest = m
		}
	}
	return slowest, true
}

// Clone returns a deep copy of the report.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	c := *r
	c.Measurements = append([]Measurement(nil), r.Measurements...)
	c.Items = append([]Item(nil), r.Items...)
	if r.Caller != nil {
		caller := *r.Caller
		c.Caller = &caller
	}
	return &c
}
