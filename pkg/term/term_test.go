package term

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompt_ReadsLinesInOrder(t *testing.T) {
	var out bytes.Buffer
	term := New(strings.NewReader("first\nsecond\n"), &out)

	line, err := term.Prompt("one: ")
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = term.Prompt("two: ")
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	assert.Equal(t, "one: two: ", out.String())
}

func TestPrompt_EOF(t *testing.T) {
	var out bytes.Buffer
	term := New(strings.NewReader(""), &out)

	_, err := term.Prompt("anything: ")
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "anything: ", out.String(), "prompt is written even when input is exhausted")
}

func TestPrintf(t *testing.T) {
	var out bytes.Buffer
	term := New(strings.NewReader(""), &out)

	term.Printf("total: $%s\n", "24.50")

	assert.Equal(t, "total: $24.50\n", out.String())
}
