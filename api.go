// Package quicktrace provides a lightweight, in-process span timer.
//
// quicktrace records labeled checkpoints while code runs and, when the trace
// ends, prints a summary of the time spent between them. It is meant for
// ad-hoc instrumentation of a single flow of execution, not for distributed
// tracing or continuous telemetry.
//
// Core Components:
//   - Tracer: Append-only ledger of checkpoints for one trace.
//   - Measurement: A single labeled elapsed time.
//   - FilterConfig: Slow-only, ultra-fast and similarity grouping stages.
//   - Gate: Decides whether a finished trace is reported.
//   - Renderer: Turns a Report into text or JSON.
//   - Collector: Buffers emitted reports for later inspection.
//
// Basic Usage:
//
//	tracer := quicktrace.New("checkout")
//	defer tracer.End()
//
//	loadCart()
//	tracer.Span("load cart")
//
//	charge()
//	tracer.Span("charge card")
//
// Each Span records the time elapsed since the previous Span (or since New for
// the first one). End appends a terminal "End" checkpoint, evaluates the gate
// (by default: total duration of at least 100ms) and renders the report.
//
// Thread Safety:
//
// Tracer is NOT safe for concurrent use. A tracer belongs to one logical flow
// of execution. Collector is safe for concurrent use by many tracers.
//
// Filtering:
//
// The filter pipeline always runs in the same order: slow-only, then
// ultra-fast suppression, then similarity grouping. Grouping is anchored on
// the first member of each group and is not transitive.
package quicktrace

// Label names a checkpoint.
type Label = string

// EndLabel is the label of the terminal checkpoint appended by End.
const EndLabel Label = "End"
