package quicktrace

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/zoobzio/clockz"

	"github.com/LeDuyViet/quicktrace/internal/log"
)

// ReportHandler is called with every report a tracer emits.
type ReportHandler func(r *Report)

type handlerEntry struct {
	handler ReportHandler
	id      uint64
}

// Tracer records checkpoints for one trace and reports them on End.
// Tracer is not safe for concurrent use.
//
// Filters are fixed when the tracer is created. Enabled, silent, output style
// and gate can be changed at runtime through setters.
//
//nolint:govet // Field order groups ledger state before presentation state
type Tracer struct {
	name         string
	clock        clockz.Clock
	start        time.Time
	last         time.Time
	measurements []Measurement
	filters      FilterConfig
	caller       *Caller
	withCaller   bool

	enabled  bool
	silent   bool
	style    OutputStyle
	gate     Gate
	renderer Renderer
	out      io.Writer
	logger   *slog.Logger

	handlers  []handlerEntry
	nextID    uint64
	panicHook func(handlerID uint64, r interface{})

	finished   bool
	final      time.Duration
	lastReport *Report
	err        error
}

// Option configures a Tracer at construction.
type Option func(*Tracer)

// New starts a tracer named name. The clock starts immediately; the first
// Span measures the time since New.
func New(name string, opts ...Option) *Tracer {
	t := &Tracer{
		name:       name,
		clock:      clockz.RealClock,
		enabled:    true,
		style:      StyleDefault,
		gate:       DefaultGate(),
		logger:     log.Discard(),
		withCaller: true,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.withCaller {
		t.caller = captureCaller(2)
	}

	if t.out == nil {
		t.out = colorable.NewColorableStdout()
	}
	t.start = t.clock.Now()
	t.last = t.start

	return t
}

// WithClock sets the clock used for all measurements.
// Enables clock injection for deterministic testing.
func WithClock(clock clockz.Clock) Option {
	return func(t *Tracer) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// WithEnabled turns data collection on or off.
func WithEnabled(enabled bool) Option {
	return func(t *Tracer) {
		t.enabled = enabled
	}
}

// WithSilent collects data but never renders.
func WithSilent(silent bool) Option {
	return func(t *Tracer) {
		t.silent = silent
	}
}

// WithOutputStyle selects the built-in renderer.
func WithOutputStyle(style OutputStyle) Option {
	return func(t *Tracer) {
		t.style = style
	}
}

// WithRenderer replaces the style-selected renderer.
func WithRenderer(r Renderer) Option {
	return func(t *Tracer) {
		t.renderer = r
	}
}

// WithOutput sets the writer reports are rendered to. Default: colorable stdout.
func WithOutput(w io.Writer) Option {
	return func(t *Tracer) {
		t.out = w
	}
}

// WithLogger sets the logger for suppressed reports and render failures.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithCaller turns call-site capture on or off. The last option wins.
func WithCaller(capture bool) Option {
	return func(t *Tracer) {
		t.withCaller = capture
	}
}

// WithMinTotalDuration reports only when the total duration is at least d.
func WithMinTotalDuration(d time.Duration) Option {
	return WithCustomCondition(MinTotalDuration(d))
}

// WithMinSpanDuration reports only when some checkpoint took at least d.
func WithMinSpanDuration(d time.Duration) Option {
	return WithCustomCondition(MinSpanDuration(d))
}

// WithCustomCondition sets an arbitrary gate. The last gate option wins.
func WithCustomCondition(gate Gate) Option {
	return func(t *Tracer) {
		t.gate = gate
	}
}

// WithShowSlowOnly renders only checkpoints with elapsed >= threshold.
func WithShowSlowOnly(threshold time.Duration) Option {
	return func(t *Tracer) {
		t.filters.SlowOnly = At(threshold)
	}
}

// WithHideUltraFast hides checkpoints with elapsed < threshold.
func WithHideUltraFast(threshold time.Duration) Option {
	return func(t *Tracer) {
		t.filters.HideUltraFast = At(threshold)
	}
}

// WithGroupSimilar groups checkpoints within tolerance of each other.
func WithGroupSimilar(tolerance time.Duration) Option {
	return func(t *Tracer) {
		t.filters.GroupSimilar = At(tolerance)
	}
}

// WithSmartFilter enables the three filter stages at once.
// A zero or negative value leaves the corresponding stage untouched.
func WithSmartFilter(slow, ultraFast, similar time.Duration) Option {
	return func(t *Tracer) {
		if slow > 0 {
			t.filters.SlowOnly = At(slow)
		}
		if ultraFast > 0 {
			t.filters.HideUltraFast = At(ultraFast)
		}
		if similar > 0 {
			t.filters.GroupSimilar = At(similar)
		}
	}
}

// WithFilters replaces the whole filter configuration.
func WithFilters(filters FilterConfig) Option {
	return func(t *Tracer) {
		t.filters = filters
	}
}

// Span records a checkpoint: the time elapsed since the previous checkpoint.
// No-op while the tracer is disabled. Labels need not be unique.
func (t *Tracer) Span(label Label) {
	if !t.enabled {
		return
	}

	now := t.clock.Now()
	t.measurements = append(t.measurements, Measurement{
		Label:   label,
		Elapsed: now.Sub(t.last),
	})
	t.last = now
}

// End appends the terminal "End" checkpoint and, unless the tracer is silent
// or the gate rejects the trace, filters and renders the report.
// No-op while the tracer is disabled.
func (t *Tracer) End() {
	if !t.enabled {
		return
	}

	t.Span(EndLabel)
	t.final = t.TotalDuration()
	t.finished = true

	if t.silent {
		return
	}

	if t.gate != nil && !t.gate(t) {
		t.logger.Debug("report suppressed by gate",
			slog.String(log.TracerKey, t.name),
			log.Duration(t.final),
		)
		return
	}

	report := t.buildReport(t.final)
	t.lastReport = report

	t.executeHandlers(report)
	t.render(report)
}

func (t *Tracer) render(report *Report) {
	renderer := t.renderer
	if renderer == nil {
		renderer = RendererFor(t.style)
	}

	err := safeRender(renderer, t.out, report)
	t.err = err
	if err != nil {
		t.logger.Error("render report",
			slog.String(log.TracerKey, t.name),
			slog.String(log.ReportIDKey, report.ID),
			slog.String(log.StyleKey, t.style.String()),
			log.Error(err),
		)
	}
}

// safeRender converts renderer panics into errors.
func safeRender(renderer Renderer, w io.Writer, report *Report) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer panic: %v", r)
		}
	}()
	return renderer.Render(w, report)
}

// OnReport registers a handler called with every emitted report, before it
// is rendered. Returns an id for RemoveHandler.
func (t *Tracer) OnReport(handler ReportHandler) uint64 {
	if handler == nil {
		return 0
	}

	t.nextID++
	t.handlers = append(t.handlers, handlerEntry{
		id:      t.nextID,
		handler: handler,
	})
	return t.nextID
}

// RemoveHandler removes a handler by ID.
func (t *Tracer) RemoveHandler(id uint64) {
	// Preserve order
	for i, h := range t.handlers {
		if h.id == id {
			copy(t.handlers[i:], t.handlers[i+1:])
			t.handlers = t.handlers[:len(t.handlers)-1]
			return
		}
	}
}

// SetPanicHook sets a function to be called when a handler panics.
func (t *Tracer) SetPanicHook(hook func(handlerID uint64, r interface{})) {
	t.panicHook = hook
}

func (t *Tracer) executeHandlers(report *Report) {
	for _, h := range t.handlers {
		t.safeCall(h, report)
	}
}

func (t *Tracer) safeCall(entry handlerEntry, report *Report) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("report handler panicked",
				slog.String(log.TracerKey, t.name),
				slog.Uint64(log.HandlerKey, entry.id),
				slog.Any("panic", r),
			)
			if t.panicHook != nil {
				t.panicHook(entry.id, r)
			}
		}
	}()
	entry.handler(report)
}

// SetEnabled turns data collection on or off at runtime.
func (t *Tracer) SetEnabled(enabled bool) {
	t.enabled = enabled
}

// SetSilent turns rendering off (true) or on (false) at runtime.
func (t *Tracer) SetSilent(silent bool) {
	t.silent = silent
}

// SetOutputStyle changes the built-in renderer at runtime.
func (t *Tracer) SetOutputStyle(style OutputStyle) {
	t.style = style
}

// SetGate replaces the gate. A nil gate reports every trace.
func (t *Tracer) SetGate(gate Gate) {
	t.gate = gate
}

// Name returns the tracer name.
func (t *Tracer) Name() string { return t.name }

// Enabled reports whether data collection is on.
func (t *Tracer) Enabled() bool { return t.enabled }

// Silent reports whether rendering is off.
func (t *Tracer) Silent() bool { return t.silent }

// OutputStyle returns the current output style.
func (t *Tracer) OutputStyle() OutputStyle { return t.style }

// Filters returns the filter configuration.
func (t *Tracer) Filters() FilterConfig { return t.filters }

// Caller returns the call site of New, if it was captured.
func (t *Tracer) Caller() (Caller, bool) {
	if t.caller == nil {
		return Caller{}, false
	}
	return *t.caller, true
}

// StartTime returns the instant the tracer started.
func (t *Tracer) StartTime() time.Time { return t.start }

// TotalDuration returns the time since the tracer started. It is always
// live, before and after End.
func (t *Tracer) TotalDuration() time.Duration {
	return t.clock.Now().Sub(t.start)
}

// total is the snapshotted total once ended, the live total before.
func (t *Tracer) total() time.Duration {
	if t.finished {
		return t.final
	}
	return t.TotalDuration()
}

// FinalDuration returns the total duration snapshotted by End.
func (t *Tracer) FinalDuration() (time.Duration, bool) {
	return t.final, t.finished
}

// Measurements returns a copy of every checkpoint, including "End".
func (t *Tracer) Measurements() []Measurement {
	return append([]Measurement(nil), t.measurements...)
}

// Spans returns a copy of the checkpoints, excluding the terminal "End"
// checkpoint once the tracer has ended.
func (t *Tracer) Spans() []Measurement {
	return append([]Measurement(nil), t.spans()...)
}

// spans excludes the terminal checkpoint appended by the most recent End.
func (t *Tracer) spans() []Measurement {
	n := len(t.measurements)
	if t.finished && n > 0 && t.measurements[n-1].Label == EndLabel {
		return t.measurements[:n-1]
	}
	return t.measurements
}

// LastReport returns the most recent emitted report, or nil.
func (t *Tracer) LastReport() *Report { return t.lastReport }

// Err returns the error of the most recent render, if any.
func (t *Tracer) Err() error { return t.err }
