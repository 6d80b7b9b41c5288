package shared

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// ColorMode selects when command output is colored.
type ColorMode string

// Color modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

var _ pflag.Value = (*ColorMode)(nil)

func (m *ColorMode) String() string {
	if *m == "" {
		return string(ColorAuto)
	}
	return string(*m)
}

// Set parses a color mode flag value.
func (m *ColorMode) Set(s string) error {
	switch mode := ColorMode(strings.ToLower(s)); mode {
	case ColorAuto, ColorAlways, ColorNever:
		*m = mode
		return nil
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
	}
}

// Type names the flag value type in help output.
func (m *ColorMode) Type() string {
	return "mode"
}

// Profile returns the color profile for writing to w. In auto mode color is
// used only for terminals, and never when NO_COLOR is set or TERM is dumb.
func (m *ColorMode) Profile(w io.Writer) termenv.Profile {
	switch *m {
	case ColorAlways:
		return termenv.ANSI
	case ColorNever:
		return termenv.Ascii
	}

	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if t := os.Getenv("TERM"); t == "dumb" {
		return termenv.Ascii
	}
	if f, ok := w.(interface{ Fd() uintptr }); ok && term.IsTerminal(int(f.Fd())) {
		return termenv.ANSI
	}
	return termenv.Ascii
}
