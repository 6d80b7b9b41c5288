package quicktrace

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// OutputStyle selects a built-in renderer.
type OutputStyle int

// Output styles.
const (
	StyleDefault OutputStyle = iota
	StyleColorful
	StyleMinimal
	StyleDetailed
	StyleTable
	StyleJSON
)

var styleNames = [...]string{
	StyleDefault:  "default",
	StyleColorful: "colorful",
	StyleMinimal:  "minimal",
	StyleDetailed: "detailed",
	StyleTable:    "table",
	StyleJSON:     "json",
}

func (s OutputStyle) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("OutputStyle(%d)", int(s))
	}
	return styleNames[s]
}

// ParseOutputStyle parses a style name such as "detailed". Matching is
// case-insensitive; the empty string is StyleDefault.
func ParseOutputStyle(name string) (OutputStyle, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return StyleDefault, nil
	}
	for i, n := range styleNames {
		if n == name {
			return OutputStyle(i), nil
		}
	}
	return StyleDefault, fmt.Errorf("unknown output style %q", name)
}

// Renderer writes a report to w.
type Renderer interface {
	Render(w io.Writer, r *Report) error
}

// RenderFunc adapts a function to the Renderer interface.
type RenderFunc func(w io.Writer, r *Report) error

// Render calls f(w, r).
func (f RenderFunc) Render(w io.Writer, r *Report) error { return f(w, r) }

// RenderOption configures a built-in renderer.
type RenderOption func(*renderConfig)

type renderConfig struct {
	profile *termenv.Profile
}

// WithColorProfile forces a color profile instead of detecting one from the
// output writer. termenv.Ascii disables color.
func WithColorProfile(p termenv.Profile) RenderOption {
	return func(c *renderConfig) {
		c.profile = &p
	}
}

// RendererFor returns the built-in renderer for style. StyleDefault and
// unknown styles use the detailed layout.
func RendererFor(style OutputStyle, opts ...RenderOption) Renderer {
	var cfg renderConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	switch style {
	case StyleJSON:
		return jsonRenderer{}
	case StyleColorful, StyleMinimal, StyleTable:
		return textRenderer{style: style, cfg: cfg}
	default:
		return textRenderer{style: StyleDetailed, cfg: cfg}
	}
}

// palette styles text for one output writer. Writers that are not color
// terminals get plain text.
type palette struct {
	r *lipgloss.Renderer
}

func newPalette(w io.Writer, cfg renderConfig) palette {
	r := lipgloss.NewRenderer(w)
	if cfg.profile != nil {
		r.SetColorProfile(*cfg.profile)
	}
	return palette{r: r}
}

// ANSI color indexes.
const (
	colorRed         = lipgloss.Color("1")
	colorGreen       = lipgloss.Color("2")
	colorYellow      = lipgloss.Color("3")
	colorBlue        = lipgloss.Color("4")
	colorMagenta     = lipgloss.Color("5")
	colorCyan        = lipgloss.Color("6")
	colorBrightBlack = lipgloss.Color("8")
	colorBrightGreen = lipgloss.Color("10")
	colorBrightBlue  = lipgloss.Color("12")
)

type colorSpec struct {
	color lipgloss.Color
	bold  bool
}

var durationColors = map[DurationBucket]colorSpec{
	VerySlow:   {colorRed, true},
	Slow:       {colorRed, false},
	MediumSlow: {colorYellow, false},
	Medium:     {colorBrightBlue, false},
	Normal:     {colorCyan, false},
	Fast:       {colorGreen, false},
	VeryFast:   {colorBrightGreen, false},
	UltraFast:  {colorBrightBlack, false},
}

var percentColors = map[PercentBucket]colorSpec{
	Critical:    {colorRed, true},
	High:        {colorRed, false},
	MediumShare: {colorMagenta, false},
	Low:         {colorBlue, false},
	VeryLow:     {colorGreen, false},
	Minimal:     {colorCyan, false},
}

func (p palette) paint(spec colorSpec, s string) string {
	style := p.r.NewStyle().Foreground(spec.color)
	if spec.bold {
		style = style.Bold(true)
	}
	return style.Render(s)
}

func (p palette) fg(c lipgloss.Color, s string) string {
	return p.paint(colorSpec{color: c}, s)
}

func (p palette) bold(c lipgloss.Color, s string) string {
	return p.paint(colorSpec{color: c, bold: true}, s)
}

func (p palette) forDuration(bucket DurationBucket, s string) string {
	return p.paint(durationColors[bucket], s)
}

func (p palette) forPercent(bucket PercentBucket, s string) string {
	return p.paint(percentColors[bucket], s)
}
