// Package demo implements the demo command, which traces built-in
// simulated workloads.
package demo

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/zoobzio/clockz"

	"github.com/LeDuyViet/quicktrace"
	"github.com/LeDuyViet/quicktrace/config"
	"github.com/LeDuyViet/quicktrace/internal/commands/shared"
	"github.com/LeDuyViet/quicktrace/internal/log"
	"github.com/LeDuyViet/quicktrace/metrics"
)

type options struct {
	style    string
	slowOnly time.Duration
	hideFast time.Duration
	group    time.Duration
	minTotal time.Duration
	color    shared.ColorMode
	realTime bool
	repeat   int
	list     bool
	metrics  bool
}

// NewCommand creates the demo command.
func NewCommand() *cobra.Command {
	opts := options{color: shared.ColorAuto}

	cmd := &cobra.Command{
		Use:   "demo [scenario]",
		Short: "Trace a built-in simulated workload",
		Long: `Run a built-in workload under a tracer and print its report.

Scenarios: ` + strings.Join(names(), ", ") + ` (default: basic).

Workloads run on a simulated clock, so they finish instantly and always
produce the same durations. Use --real to sleep for real.

Flags override values from --config and the QUICKTRACE_* environment.`,
		Example: `  quicktrace demo
  quicktrace demo filtering --style detailed --hide-fast 2ms --group 10ms
  quicktrace demo real-world --style json
  quicktrace demo real-world --repeat 5 --metrics`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.style, "style", "", "output style: default, colorful, minimal, detailed, table or json")
	f.DurationVar(&opts.slowOnly, "slow-only", 0, "show only spans at least this slow")
	f.DurationVar(&opts.hideFast, "hide-fast", 0, "hide spans faster than this")
	f.DurationVar(&opts.group, "group", 0, "group spans within this tolerance of each other")
	f.DurationVar(&opts.minTotal, "min-total", 0, "report only traces at least this long")
	f.Var(&opts.color, "color", "color output: auto, always or never")
	f.BoolVar(&opts.realTime, "real", false, "sleep for real instead of using a simulated clock")
	f.IntVar(&opts.repeat, "repeat", 1, "number of times to run the workload")
	f.BoolVar(&opts.list, "list", false, "list scenarios and exit")
	f.BoolVar(&opts.metrics, "metrics", false, "print Prometheus metrics for the reported runs")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	out := cmd.OutOrStdout()

	if opts.list {
		return listScenarios(out)
	}

	name := "basic"
	if len(args) == 1 {
		name = args[0]
	}
	sc, ok := lookup(name)
	if !ok {
		return shared.NewInvalidArgsError(
			fmt.Sprintf("unknown scenario %q (available: %s)", name, strings.Join(names(), ", ")), nil)
	}
	if opts.repeat < 1 {
		return shared.NewInvalidArgsError("--repeat must be at least 1", nil)
	}

	cfg, err := config.Load(shared.GetConfigPath())
	if err != nil {
		return shared.NewInvalidArgsError("load config", err)
	}
	applyFlags(cmd, cfg, opts)
	if err := cfg.Validate(); err != nil {
		return shared.NewInvalidArgsError("invalid options", err)
	}

	logger := shared.Logger(cmd.ErrOrStderr())
	tracerOpts, err := cfg.Options(logger)
	if err != nil {
		return shared.NewInvalidArgsError("invalid options", err)
	}
	style, err := quicktrace.ParseOutputStyle(cfg.Style)
	if err != nil {
		return shared.NewInvalidArgsError("invalid style", err)
	}
	renderer := quicktrace.RendererFor(style, quicktrace.WithColorProfile(opts.color.Profile(out)))
	tracerOpts = append(tracerOpts, quicktrace.WithOutput(out), quicktrace.WithRenderer(renderer))

	log.WithTracer(logger, sc.title).Debug("running scenario",
		"scenario", sc.name,
		"repeat", opts.repeat,
		"simulated", !opts.realTime,
	)

	var reg *prometheus.Registry
	var sink *metrics.Sink
	if opts.metrics {
		reg = prometheus.NewRegistry()
		sink = metrics.New(reg, "quicktrace")
	}

	collector := quicktrace.NewCollector(opts.repeat)
	for i := 0; i < opts.repeat; i++ {
		clock, sleep := newClock(opts.realTime)
		tracer := quicktrace.New(sc.title, append(tracerOpts, quicktrace.WithClock(clock))...)
		tracer.OnReport(collector.Collect)
		if sink != nil {
			tracer.OnReport(sink.Observe)
		}

		sc.run(tracer, sleep)
		tracer.End()

		if err := tracer.Err(); err != nil {
			return shared.NewExecutionError("render report", err)
		}
	}

	if opts.repeat > 1 {
		printSummary(out, collector.Export(), opts.repeat)
	}
	if reg != nil {
		if err := writeMetrics(out, reg); err != nil {
			return shared.NewExecutionError("write metrics", err)
		}
	}
	return nil
}

// applyFlags lets explicitly set flags override the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *options) {
	f := cmd.Flags()
	if f.Changed("style") {
		cfg.Style = opts.style
	}
	if f.Changed("slow-only") {
		cfg.Filters.SlowOnly = opts.slowOnly
	}
	if f.Changed("hide-fast") {
		cfg.Filters.HideUltraFast = opts.hideFast
	}
	if f.Changed("group") {
		cfg.Filters.GroupSimilar = opts.group
	}
	if f.Changed("min-total") {
		cfg.Gate = config.Gate{MinTotal: config.Duration(opts.minTotal)}
	}
}

func newClock(realTime bool) (clockz.Clock, func(time.Duration)) {
	if realTime {
		return clockz.RealClock, clockz.RealClock.Sleep
	}
	fake := clockz.NewFakeClock()
	return fake, fake.Advance
}

func listScenarios(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSPANS\tTOTAL\tDESCRIPTION")
	for _, s := range scenarios {
		fmt.Fprintf(w, "%s\t%d\t%v\t%s\n", s.name, len(s.steps), s.total(), s.description)
	}
	return w.Flush()
}

func printSummary(out io.Writer, reports []*quicktrace.Report, runs int) {
	fmt.Fprintf(out, "\n%d/%d runs reported\n", len(reports), runs)
	if len(reports) == 0 {
		return
	}

	var sum, worst time.Duration
	for _, r := range reports {
		sum += r.Total
		worst = max(worst, r.Total)
	}
	fmt.Fprintf(out, "average total: %v, worst total: %v\n", sum/time.Duration(len(reports)), worst)
}

// writeMetrics prints every gathered family in the Prometheus text format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	fmt.Fprintln(w)
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
