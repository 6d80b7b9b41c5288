package shared

import (
	"bytes"
	"errors"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", cause, ExitExecutionFailed},
		{"invalid args", NewInvalidArgsError("bad flag", cause), ExitInvalidArgs},
		{"execution", NewExecutionError("run failed", nil), ExitExecutionFailed},
		{"wrapped", errors.Join(errors.New("outer"), NewInvalidArgsError("bad", nil)), ExitInvalidArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	cause := errors.New("disk full")

	err := NewExecutionError("write report", cause)
	assert.Equal(t, "write report: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "bad flag", NewInvalidArgsError("bad flag", nil).Error())
}

func TestColorModeSet(t *testing.T) {
	var m ColorMode
	assert.Equal(t, "auto", m.String())
	assert.Equal(t, "mode", m.Type())

	require.NoError(t, m.Set("ALWAYS"))
	assert.Equal(t, ColorAlways, m)

	err := m.Set("sometimes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid color mode")
	assert.Equal(t, ColorAlways, m, "failed Set keeps the previous mode")
}

func TestColorModeProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm-256color")
	var buf bytes.Buffer

	always, never, auto := ColorAlways, ColorNever, ColorAuto
	assert.Equal(t, termenv.ANSI, always.Profile(&buf))
	assert.Equal(t, termenv.Ascii, never.Profile(&buf))
	assert.Equal(t, termenv.Ascii, auto.Profile(&buf), "buffers are not terminals")

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.ANSI, always.Profile(&buf), "explicit mode ignores NO_COLOR")
}

func TestLoggerVerbose(t *testing.T) {
	t.Setenv("QUICKTRACE_DEBUG", "")
	t.Setenv("QUICKTRACE_LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Cleanup(ResetFlagsForTest)

	var quiet bytes.Buffer
	Logger(&quiet).Debug("hidden")
	assert.Empty(t, quiet.String())

	verbose, _, _ := RegisterFlagPointers()
	*verbose = true

	var loud bytes.Buffer
	Logger(&loud).Debug("shown")
	assert.Contains(t, loud.String(), "shown")
	assert.Contains(t, loud.String(), "component=cli")
}

func TestFlagAccessors(t *testing.T) {
	t.Cleanup(ResetFlagsForTest)

	verbose, asJSON, cfg := RegisterFlagPointers()
	*verbose, *asJSON, *cfg = true, true, "quicktrace.yaml"

	assert.True(t, GetVerbose())
	assert.True(t, GetJSON())
	assert.Equal(t, "quicktrace.yaml", GetConfigPath())

	ResetFlagsForTest()
	assert.False(t, GetVerbose())
	assert.False(t, GetJSON())
	assert.Empty(t, GetConfigPath())
}
