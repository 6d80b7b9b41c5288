package quicktrace_test

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/LeDuyViet/quicktrace"
)

func Example() {
	clock := clockz.NewFakeClock()
	tracer := quicktrace.New("checkout",
		quicktrace.WithClock(clock),
		quicktrace.WithSilent(true),
	)

	clock.Advance(30 * time.Millisecond)
	tracer.Span("validate cart")
	clock.Advance(120 * time.Millisecond)
	tracer.Span("charge card")
	clock.Advance(5 * time.Millisecond)
	tracer.End()

	for _, m := range tracer.Measurements() {
		fmt.Println(m)
	}
	final, _ := tracer.FinalDuration()
	fmt.Println("total:", final)
	// Output:
	// validate cart: 30ms
	// charge card: 120ms
	// End: 5ms
	// total: 155ms
}

func ExampleWithRenderer() {
	clock := clockz.NewFakeClock()
	summary := quicktrace.RenderFunc(func(w io.Writer, r *quicktrace.Report) error {
		for _, item := range r.Items {
			fmt.Fprintf(w, "%-12s %v\n", item.DisplayName(), item.Duration())
		}
		return nil
	})

	tracer := quicktrace.New("import",
		quicktrace.WithClock(clock),
		quicktrace.WithOutput(os.Stdout),
		quicktrace.WithRenderer(summary),
		quicktrace.WithShowSlowOnly(50*time.Millisecond),
	)

	clock.Advance(20 * time.Millisecond)
	tracer.Span("open")
	clock.Advance(300 * time.Millisecond)
	tracer.Span("parse")
	clock.Advance(80 * time.Millisecond)
	tracer.Span("index")
	tracer.End()
	// Output:
	// parse        300ms
	// index        80ms
}

func ExampleGroupSimilar() {
	ms := []quicktrace.Measurement{
		{Label: "fetch a", Elapsed: 10 * time.Millisecond},
		{Label: "fetch b", Elapsed: 15 * time.Millisecond},
		{Label: "fetch c", Elapsed: 20 * time.Millisecond},
	}

	for _, g := range quicktrace.GroupSimilar(ms, 6*time.Millisecond) {
		fmt.Printf("%s (count=%d avg=%v)\n", g.Name, g.Count, g.Average)
	}
	// Output:
	// fetch a + 1 similar (count=2 avg=12.5ms)
	// fetch c (count=1 avg=20ms)
}

func ExampleClassifyDuration() {
	for _, d := range []time.Duration{5 * time.Millisecond, 200 * time.Millisecond, 199 * time.Millisecond, 4 * time.Second} {
		fmt.Printf("%v: %s\n", d, quicktrace.ClassifyDuration(d))
	}
	// Output:
	// 5ms: Ultra Fast
	// 200ms: Medium
	// 199ms: Normal
	// 4s: Very Slow
}

func ExampleCollector() {
	clock := clockz.NewFakeClock()
	collector := quicktrace.NewCollector(10)

	tracer := quicktrace.New("batch",
		quicktrace.WithClock(clock),
		quicktrace.WithOutput(io.Discard),
	)
	tracer.OnReport(collector.Collect)

	clock.Advance(150 * time.Millisecond)
	tracer.Span("load")
	tracer.End()

	for _, r := range collector.Export() {
		slowest, _ := r.Slowest()
		fmt.Printf("%s took %v, slowest %s\n", r.Name, r.Total, slowest.Label)
	}
	// Output:
	// batch took 150ms, slowest load
}
