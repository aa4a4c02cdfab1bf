package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTableAlignsWideCells(t *testing.T) {
	lines := renderTable(
		[]string{"Token", "Balance"},
		[][]string{{"DAI", "1.5"}, {"日本", "20"}},
		func(s string) string { return s },
	)
	require.Len(t, lines, 6)
	assert.Equal(t, "┌───────┬─────────┐", lines[0])
	assert.Equal(t, "│ Token │ Balance │", lines[1])
	assert.Equal(t, "│ 日本  │ 20      │", lines[4])
	for _, l := range lines {
		assert.Equal(t, displayWidth(lines[0]), displayWidth(l))
	}
}

func TestRenderTableIgnoresColorCodes(t *testing.T) {
	lines := renderTable(nil, [][]string{{"\x1b[31mred\x1b[0m", "x"}, {"plain", "y"}}, func(s string) string { return s })
	require.Len(t, lines, 4)
	assert.Equal(t, displayWidth(lines[1]), displayWidth(lines[2]))
	assert.Nil(t, renderTable(nil, nil, func(s string) string { return s }))
}

func TestTerminalUIPlainOutput(t *testing.T) {
	out := &bytes.Buffer{}
	u := NewTerminalUIWith(out, strings.NewReader(""), false)
	u.Info("hello %s", "world")
	u.Indent().Warn("careful")
	u.KeyValue([][2]string{{"Version", "1.3.0"}, {"Threshold", "2"}})

	assert.Equal(t, "hello world\n  careful\nVersion    1.3.0\nThreshold  2\n", out.String())
}

func TestTerminalUIConfirm(t *testing.T) {
	out := &bytes.Buffer{}
	u := NewTerminalUIWith(out, strings.NewReader("maybe\nY\n\n"), false)
	assert.True(t, u.Confirm("continue?", false))
	assert.Contains(t, out.String(), "please enter y or n")
	assert.True(t, u.Confirm("again?", true))
	// input exhausted
	assert.False(t, u.Confirm("last?", false))
}

func TestRecordingUI(t *testing.T) {
	r := NewRecordingUI("n")
	r.Section("Owners")
	r.Indent().Info("0x01")
	assert.False(t, r.Confirm("revoke?", true))
	require.NoError(t, r.JSON(map[string]int{"a": 1}))

	assert.Equal(t, []string{"0x01"}, r.Messages("Info"))
	assert.True(t, r.HasMessage("owners"))
	assert.Len(t, r.Entries(), 4)
	assert.Panics(t, func() { r.Confirm("again?", true) })
}
