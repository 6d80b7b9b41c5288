// Package rules implements the rules command.
package rules

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LeDuyViet/quicktrace"
	"github.com/LeDuyViet/quicktrace/internal/commands/shared"
)

// Rule is one row of a classification table.
type Rule struct {
	Min    string `json:"min"`
	Bucket string `json:"bucket"`
}

// Tables holds both classification tables, slowest or largest first.
type Tables struct {
	Duration []Rule `json:"duration"`
	Percent  []Rule `json:"percent"`
}

// NewCommand creates the rules command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the duration and percentage classification rules",
		Long: `Print the thresholds used to classify spans. A value belongs to the
first row whose minimum it reaches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return write(cmd.OutOrStdout(), Current())
		},
	}
}

// Current returns the rule tables in effect.
func Current() Tables {
	var t Tables
	for _, r := range quicktrace.DurationRules() {
		t.Duration = append(t.Duration, Rule{Min: r.Threshold.String(), Bucket: r.Bucket.String()})
	}
	for _, r := range quicktrace.PercentRules() {
		t.Percent = append(t.Percent, Rule{Min: fmt.Sprintf("%g%%", r.Threshold), Bucket: r.Bucket.String()})
	}
	return t
}

func write(out io.Writer, t Tables) error {
	if shared.GetJSON() {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tBUCKET")
	for _, r := range t.Duration {
		fmt.Fprintf(w, ">= %s\t%s\n", r.Min, r.Bucket)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "SHARE OF TOTAL\tBUCKET")
	for _, r := range t.Percent {
		fmt.Fprintf(w, ">= %s\t%s\n", r.Min, r.Bucket)
	}
	return w.Flush()
}
