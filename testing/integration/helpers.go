package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/zoobzio/clockz"

	"github.com/LeDuyViet/quicktrace"
)

// Step is one simulated operation: the clock advances by Cost, then a
// checkpoint labeled Label is recorded.
type Step struct {
	Label string
	Cost  time.Duration
}

// Workload is an ordered list of simulated operations.
type Workload []Step

// Total returns the summed cost of every step.
func (w Workload) Total() time.Duration {
	var total time.Duration
	for _, s := range w {
		total += s.Cost
	}
	return total
}

// Repeat returns a workload calling label n times at the given cost.
func Repeat(label string, n int, cost time.Duration) Workload {
	w := make(Workload, n)
	for i := range w {
		w[i] = Step{Label: label, Cost: cost}
	}
	return w
}

// Then concatenates workloads.
func (w Workload) Then(next ...Workload) Workload {
	out := append(Workload(nil), w...)
	for _, n := range next {
		out = append(out, n...)
	}
	return out
}

// Harness drives tracers against a fake clock and captures their output.
//
//nolint:govet // Field alignment optimized for test helper readability
type Harness struct {
	Clock     *clockz.FakeClock
	Out       bytes.Buffer
	Collector *quicktrace.Collector
	t         *testing.T
}

// NewHarness creates a harness with an unbounded collector.
func NewHarness(t *testing.T) *Harness {
	t.Helper()
	return &Harness{
		Clock:     clockz.NewFakeClock(),
		Collector: quicktrace.NewCollector(0),
		t:         t,
	}
}

// Tracer starts a tracer wired to the harness clock, output and collector.
// Rendering is forced to plain text unless opts override the renderer.
func (h *Harness) Tracer(name string, opts ...quicktrace.Option) *quicktrace.Tracer {
	base := []quicktrace.Option{
		quicktrace.WithClock(h.Clock),
		quicktrace.WithOutput(&h.Out),
		quicktrace.WithCaller(false),
		quicktrace.WithRenderer(quicktrace.RendererFor(quicktrace.StyleDetailed,
			quicktrace.WithColorProfile(termenv.Ascii))),
	}
	tracer := quicktrace.New(name, append(base, opts...)...)
	tracer.OnReport(h.Collector.Collect)
	return tracer
}

// Run plays the workload against tracer and ends it.
func (h *Harness) Run(tracer *quicktrace.Tracer, w Workload) {
	for _, s := range w {
		h.Clock.Advance(s.Cost)
		tracer.Span(s.Label)
	}
	tracer.End()
}

// Reports exports every collected report.
func (h *Harness) Reports() []*quicktrace.Report {
	return h.Collector.Export()
}

// OnlyReport exports the collected reports and fails unless there is exactly one.
func (h *Harness) OnlyReport() *quicktrace.Report {
	h.t.Helper()
	reports := h.Reports()
	if len(reports) != 1 {
		h.t.Fatalf("expected 1 report, got %d", len(reports))
	}
	return reports[0]
}

// ItemNames lists the display names of the report items in order.
func ItemNames(r *quicktrace.Report) []string {
	names := make([]string, len(r.Items))
	for i, item := range r.Items {
		names[i] = item.DisplayName()
	}
	return names
}

// RenderJSON renders r with the JSON renderer and decodes it generically,
// keeping numbers as json.Number.
func RenderJSON(t *testing.T, r *quicktrace.Report) (raw []byte, doc interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if err := quicktrace.RendererFor(quicktrace.StyleJSON).Render(&buf, r); err != nil {
		t.Fatalf("render json: %v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(buf.Bytes()))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	return buf.Bytes(), doc
}

// discard is a renderer that writes nothing.
func discard(io.Writer, *quicktrace.Report) error { return nil }
