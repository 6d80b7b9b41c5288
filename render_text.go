package quicktrace

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// textRenderer draws the box and table layouts. Every layout is built in
// memory and written with a single call.
type textRenderer struct {
	style OutputStyle
	cfg   renderConfig
}

func (tr textRenderer) Render(w io.Writer, r *Report) error {
	p := newPalette(w, tr.cfg)
	var sb strings.Builder

	switch tr.style {
	case StyleColorful:
		renderColorful(&sb, p, r)
	case StyleMinimal:
		renderMinimal(&sb, p, r)
	case StyleTable:
		renderTable(&sb, p, r)
	default:
		renderDetailed(&sb, p, r)
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func renderColorful(sb *strings.Builder, p palette, r *Report) {
	const nameWidth = 35
	const width = nameWidth + 25 + 4
	inner := strings.Repeat("─", width-2)

	line(sb, p.bold(colorCyan, "┌"+inner+"┐"))
	line(sb, p.bold(colorYellow, "│"+center("🚀 "+r.Name, width-2)+"│"))
	if r.Caller != nil {
		line(sb, p.fg(colorBrightBlack, "│"+center("📍 File: "+r.Caller.String(), width-2)+"│"))
	}
	line(sb, p.bold(colorCyan, "├"+inner+"┤"))
	line(sb, p.bold(colorGreen, "│ "+pad("⏱️  Total Time:", nameWidth)+" │ "+r.Total.String()))
	line(sb, p.fg(colorCyan, "├"+inner+"┤"))
	line(sb, p.bold(colorMagenta, "│ "+pad("📋 Span", nameWidth)+" │ ⏰ Duration"))
	line(sb, p.fg(colorCyan, "├"+inner+"┤"))

	for _, item := range r.Items {
		bucket := ClassifyDuration(item.Duration())
		name := pad(truncate(item.DisplayName(), nameWidth), nameWidth)
		line(sb, "│ "+p.forDuration(bucket, name)+" │ "+p.forDuration(bucket, item.Duration().String()))
	}

	line(sb, p.bold(colorCyan, "└"+inner+"┘"))
}

func renderMinimal(sb *strings.Builder, p palette, r *Report) {
	const nameWidth = 35
	const width = nameWidth + 25 + 4
	inner := strings.Repeat("─", width-2)

	line(sb, p.bold(colorCyan, "┌"+inner+"┐"))
	title := pad(truncate("⚡ "+r.Name, nameWidth), nameWidth)
	line(sb, p.bold(colorCyan, "│ "+title+" │ "+r.Total.String()))
	if r.Caller != nil {
		caller := pad(truncate("📍 File: "+r.Caller.Short(), nameWidth), nameWidth)
		line(sb, p.fg(colorBrightBlack, "│ "+caller+" │ "))
	}
	line(sb, p.fg(colorCyan, "├"+inner+"┤"))

	for _, item := range r.Items {
		bucket := ClassifyDuration(item.Duration())
		name := pad(truncate("  └─ "+item.DisplayName(), nameWidth), nameWidth)
		line(sb, "│ "+p.forDuration(bucket, name)+" │ "+p.forDuration(bucket, item.Duration().String()))
	}

	line(sb, p.bold(colorCyan, "└"+inner+"┘"))
}

func renderDetailed(sb *strings.Builder, p palette, r *Report) {
	const (
		indexWidth    = 3
		nameWidth     = 30
		durationWidth = 15
		percentWidth  = 8
		barWidth      = 12
		width         = indexWidth + nameWidth + durationWidth + percentWidth + barWidth + 12
	)
	inner := strings.Repeat("═", width-2)
	thin := "╟" + strings.Repeat("─", width-2) + "╢"

	line(sb, p.bold(colorBlue, "╔"+inner+"╗"))
	line(sb, p.bold(colorMagenta, "║"+center("🎯 TRACE: "+r.Name, width-2)))
	line(sb, p.bold(colorBlue, "╠"+inner+"╣"))

	line(sb, p.bold(colorGreen, "║ 📊 SUMMARY"))
	line(sb, "║ • Total Execution Time: "+p.bold(colorGreen, r.Total.String()))
	line(sb, "║ • Number of Spans: "+p.bold(colorBlue, fmt.Sprintf("%d", len(r.Measurements))))
	if slowest, ok := r.Slowest(); ok {
		line(sb, "║ • Slowest Operation: "+p.bold(colorRed, truncate(slowest.Label, 25)))
		line(sb, "║ • Slowest Duration: "+p.bold(colorRed, slowest.Elapsed.String()))
	}
	if r.Caller != nil {
		line(sb, "║ • File: "+p.bold(colorBrightBlack, r.Caller.String()))
	}
	line(sb, p.bold(colorBlue, "╠"+inner+"╣"))

	line(sb, p.bold(colorMagenta, "║ 🔍 DETAILED BREAKDOWN"))
	line(sb, p.bold(colorBlue, thin))
	line(sb, "║"+p.bold(colorMagenta, fmt.Sprintf(" %*s", indexWidth, "#"))+" │"+
		p.bold(colorMagenta, " "+pad("Operation", nameWidth-1))+" │"+
		p.bold(colorMagenta, fmt.Sprintf(" %*s", durationWidth-1, "Duration"))+" │"+
		p.bold(colorMagenta, fmt.Sprintf(" %*s", percentWidth-1, "Percent"))+" │"+
		p.bold(colorMagenta, " "+pad("Progress", barWidth-1)))
	line(sb, p.fg(colorCyan, thin))

	for i, item := range r.Items {
		d := item.Duration()
		pct := r.Percent(d)
		bucket := ClassifyDuration(d)

		name := truncate(item.DisplayName(), nameWidth-1)
		if _, grouped := item.(GroupedMeasurement); grouped {
			name = "📦 " + name
		}

		line(sb, fmt.Sprintf("║ %*d │ ", indexWidth, i+1)+
			p.forDuration(bucket, pad(name, nameWidth-1))+" │ "+
			p.forDuration(bucket, fmt.Sprintf("%*v", durationWidth-2, d))+" │ "+
			p.forDuration(bucket, fmt.Sprintf("%*s", percentWidth-2, fmt.Sprintf("%.1f%%", pct)))+" │ "+
			p.forPercent(ClassifyPercentage(pct), progressBar(pct, barWidth-1)))
	}

	if r.Filters.Active() {
		line(sb, p.fg(colorCyan, thin))
		info := fmt.Sprintf("🔍 Filtered: %d/%d spans | Active: %s",
			len(r.Items), len(r.Measurements), strings.Join(r.Filters.Summary(), ", "))
		line(sb, "║ "+p.fg(colorBrightBlack, pad(info, width-4))+" ║")
	}

	line(sb, p.bold(colorBlue, "╚"+inner+"╝"))
}

func renderTable(sb *strings.Builder, p palette, r *Report) {
	const (
		indexWidth    = 4
		nameWidth     = 45
		durationWidth = 20
		width         = indexWidth + nameWidth + durationWidth + 3
	)
	cols := func(left, mid, right string) string {
		return left + strings.Repeat("─", indexWidth) + mid + strings.Repeat("─", nameWidth) + mid +
			strings.Repeat("─", durationWidth) + right
	}

	line(sb, p.bold(colorBlue, cols("┌", "┬", "┐")))
	line(sb, p.bold(colorMagenta, "│"+center("🚀 "+r.Name, width-2)))
	if r.Caller != nil {
		line(sb, p.fg(colorBrightBlack, "│"+center("📍 File: "+r.Caller.String(), width-2)))
	}
	line(sb, p.bold(colorBlue, cols("├", "┼", "┤")))
	line(sb, "│"+p.bold(colorMagenta, " No ")+"│"+
		p.bold(colorMagenta, " "+pad("Span Name", nameWidth-1))+"│"+
		p.bold(colorMagenta, " Duration"))
	line(sb, p.fg(colorCyan, cols("├", "┼", "┤")))
	line(sb, "│"+p.bold(colorGreen, "    ")+"│"+
		p.bold(colorGreen, " "+pad("📊 TOTAL EXECUTION TIME", nameWidth-1))+"│ "+
		p.forDuration(ClassifyDuration(r.Total), r.Total.String()))
	line(sb, p.fg(colorCyan, cols("├", "┼", "┤")))

	for i, item := range r.Items {
		bucket := ClassifyDuration(item.Duration())
		line(sb, fmt.Sprintf("│ %*d │ ", indexWidth-2, i+1)+
			p.forDuration(bucket, pad(truncate(item.DisplayName(), nameWidth-2), nameWidth-1))+"│ "+
			p.forDuration(bucket, item.Duration().String()))
	}

	line(sb, p.bold(colorBlue, cols("└", "┴", "┘")))
	line(sb, "")

	summary := fmt.Sprintf("📈 Spans: %d", len(r.Measurements))
	if slowest, ok := r.Slowest(); ok {
		summary += fmt.Sprintf(" | 🐌 Slowest: %s (%v)", slowest.Label, slowest.Elapsed)
	}
	line(sb, p.fg(colorBrightBlack, summary))
}

func progressBar(pct float64, width int) string {
	filled := int(pct / 8)
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func line(sb *strings.Builder, s string) {
	sb.WriteString(s)
	sb.WriteByte('\n')
}

// pad right-pads s with spaces to display width n.
func pad(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

// center places s in the middle of a field of display width n.
func center(s string, n int) string {
	w := lipgloss.Width(s)
	left := max(1, (n-w)/2)
	right := max(1, n-w-left)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
