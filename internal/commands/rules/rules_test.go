package rules

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeDuyViet/quicktrace/internal/commands/shared"
)

func TestCurrent(t *testing.T) {
	tables := Current()

	require.Len(t, tables.Duration, 8)
	assert.Equal(t, Rule{Min: "3s", Bucket: "Very Slow"}, tables.Duration[0])
	assert.Equal(t, Rule{Min: "0s", Bucket: "Ultra Fast"}, tables.Duration[7])

	require.Len(t, tables.Percent, 6)
	assert.Equal(t, Rule{Min: "75%", Bucket: "Critical"}, tables.Percent[0])
	assert.Equal(t, Rule{Min: "0%", Bucket: "Minimal"}, tables.Percent[5])
}

func TestRulesCommand(t *testing.T) {
	shared.ResetFlagsForTest()
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "DURATION")
	assert.Regexp(t, `>= 200ms\s+Medium`, out.String())
	assert.Regexp(t, `>= 25%\s+Medium`, out.String())
}

func TestRulesCommandRejectsArgs(t *testing.T) {
	cmd := NewCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})

	assert.Error(t, cmd.Execute())
}
