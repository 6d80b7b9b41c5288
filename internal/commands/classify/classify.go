// Package classify implements the classify command.
package classify

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/LeDuyViet/quicktrace"
	"github.com/LeDuyViet/quicktrace/internal/commands/shared"
)

// Result is the classification of one input value.
type Result struct {
	Input  string `json:"input"`
	Kind   string `json:"kind"`
	Bucket string `json:"bucket"`
}

// NewCommand creates the classify command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <duration|percent>...",
		Short: "Show the bucket of durations or percentages",
		Long: `Classify durations and percentages with the rules used by reports.

Values ending in "%" are percentages of a trace total; everything else is
parsed as a Go duration such as 250ms or 1.5s.`,
		Example: `  quicktrace classify 250ms 3s 42%`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]Result, 0, len(args))
			for _, arg := range args {
				r, err := Classify(arg)
				if err != nil {
					return shared.NewInvalidArgsError(fmt.Sprintf("cannot classify %q", arg), err)
				}
				results = append(results, r)
			}
			return write(cmd.OutOrStdout(), results)
		},
	}
}

// Classify parses value as a percentage ("42%") or a duration ("250ms")
// and returns its bucket.
func Classify(value string) (Result, error) {
	value = strings.TrimSpace(value)

	if pct, ok := strings.CutSuffix(value, "%"); ok {
		p, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return Result{}, fmt.Errorf("parse percentage: %w", err)
		}
		return Result{Input: value, Kind: "percent", Bucket: quicktrace.ClassifyPercentage(p).String()}, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return Result{}, fmt.Errorf("parse duration: %w", err)
	}
	if d < 0 {
		return Result{}, fmt.Errorf("negative duration %v", d)
	}
	return Result{Input: value, Kind: "duration", Bucket: quicktrace.ClassifyDuration(d).String()}, nil
}

func write(out io.Writer, results []Result) error {
	if shared.GetJSON() {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tKIND\tBUCKET")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Input, r.Kind, r.Bucket)
	}
	return w.Flush()
}
