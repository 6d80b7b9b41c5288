package quicktrace

import (
	"encoding/json"
	"fmt"
	"io"
)

type jsonReport struct {
	ID            string      `json:"id"`
	TracerName    string      `json:"tracer_name"`
	TotalDuration string      `json:"total_duration"`
	TotalNS       int64       `json:"total_ns"`
	CallerInfo    *jsonCaller `json:"caller_info,omitempty"`
	Spans         []jsonSpan  `json:"spans"`
	Filters       []string    `json:"filters,omitempty"`
}

type jsonCaller struct {
	File     string `json:"file"`
	FullPath string `json:"full_path"`
	Line     int    `json:"line"`
}

//nolint:govet // Field order matches the emitted document
type jsonSpan struct {
	Name          string  `json:"name"`
	Duration      string  `json:"duration"`
	NS            int64   `json:"ns"`
	Percent       float64 `json:"percent"`
	Bucket        string  `json:"bucket"`
	PercentBucket string  `json:"percent_bucket"`
	Grouped       bool    `json:"grouped"`
	Count         int     `json:"count,omitempty"`
	TotalNS       int64   `json:"total_ns,omitempty"`
	MinNS         int64   `json:"min_ns,omitempty"`
	MaxNS         int64   `json:"max_ns,omitempty"`
}

// jsonRenderer writes the report as an indented JSON document.
type jsonRenderer struct{}

func (jsonRenderer) Render(w io.Writer, r *Report) error {
	doc := jsonReport{
		ID:            r.ID,
		TracerName:    r.Name,
		TotalDuration: r.Total.String(),
		TotalNS:       r.Total.Nanoseconds(),
		Spans:         make([]jsonSpan, 0, len(r.Items)),
		Filters:       r.Filters.Summary(),
	}
	if r.Caller != nil {
		doc.CallerInfo = &jsonCaller{
			File:     r.Caller.Short(),
			FullPath: r.Caller.File,
			Line:     r.Caller.Line,
		}
	}

	for _, item := range r.Items {
		d := item.Duration()
		pct := r.Percent(d)
		span := jsonSpan{
			Name:          item.DisplayName(),
			Duration:      d.String(),
			NS:            d.Nanoseconds(),
			Percent:       pct,
			Bucket:        ClassifyDuration(d).String(),
			PercentBucket: ClassifyPercentage(pct).String(),
		}
		if g, ok := item.(GroupedMeasurement); ok {
			span.Grouped = true
			span.Count = g.Count
			span.TotalNS = g.Total.Nanoseconds()
			span.MinNS = g.Min.Nanoseconds()
			span.MaxNS = g.Max.Nanoseconds()
		}
		doc.Spans = append(doc.Spans, span)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
