package benchmarks

import (
	"io"
	"testing"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/LeDuyViet/quicktrace"
)

func discard(io.Writer, *quicktrace.Report) error { return nil }

// BenchmarkSpanRecording measures raw checkpoint throughput.
func BenchmarkSpanRecording(b *testing.B) {
	tracer := quicktrace.New("bench", quicktrace.WithSilent(true), quicktrace.WithCaller(false))

	b.ReportAllocs()
	b.ResetTimer()
	start := time.Now()

	for i := 0; i < b.N; i++ {
		tracer.Span("op")
	}

	elapsed := time.Since(start)
	b.ReportMetric(float64(b.N)/elapsed.Seconds(), "spans/sec")
}

// BenchmarkSpanRecordingDisabled measures the cost left in production code
// when tracing is switched off.
func BenchmarkSpanRecordingDisabled(b *testing.B) {
	tracer := quicktrace.New("bench", quicktrace.WithEnabled(false), quicktrace.WithCaller(false))

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		tracer.Span("op")
	}
}

// BenchmarkTracerLifecycle creates, fills and ends a tracer per iteration.
func BenchmarkTracerLifecycle(b *testing.B) {
	for _, spans := range []int{1, 10, 100} {
		b.Run(spanCountName(spans), func(b *testing.B) {
			clock := clockz.NewFakeClock()
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				tracer := quicktrace.New("lifecycle",
					quicktrace.WithClock(clock),
					quicktrace.WithCaller(false),
					quicktrace.WithCustomCondition(quicktrace.Always()),
					quicktrace.WithRenderer(quicktrace.RenderFunc(discard)),
				)
				for j := 0; j < spans; j++ {
					clock.Advance(time.Millisecond)
					tracer.Span("step")
				}
				tracer.End()
			}
		})
	}
}

// BenchmarkGateRejection measures End when the default gate suppresses the
// report, the common case for fast requests.
func BenchmarkGateRejection(b *testing.B) {
	clock := clockz.NewFakeClock()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		tracer := quicktrace.New("fast",
			quicktrace.WithClock(clock),
			quicktrace.WithCaller(false),
			quicktrace.WithOutput(io.Discard),
		)
		clock.Advance(time.Millisecond)
		tracer.Span("op")
		tracer.End()
	}
}

// BenchmarkTracerPerGoroutine runs independent tracers in parallel, one per
// goroutine, feeding a shared collector.
func BenchmarkTracerPerGoroutine(b *testing.B) {
	collector := quicktrace.NewCollector(1024)

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		clock := clockz.NewFakeClock()
		for pb.Next() {
			tracer := quicktrace.New("parallel",
				quicktrace.WithClock(clock),
				quicktrace.WithCaller(false),
				quicktrace.WithCustomCondition(quicktrace.Always()),
				quicktrace.WithRenderer(quicktrace.RenderFunc(discard)),
			)
			tracer.OnReport(collector.Collect)
			clock.Advance(time.Millisecond)
			tracer.Span("op")
			tracer.End()

			if collector.Count() >= 1024 {
				collector.Export()
			}
		}
	})
}
