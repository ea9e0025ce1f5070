// Package term provides line-oriented prompt/response IO over an arbitrary
// reader/writer pair, so interactive flows can be driven by scripted input
// in tests.
package term

import (
	"bufio"
	"fmt"
	"io"
)

// Terminal reads input one line at a time and writes plain-text output.
type Terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

// New creates a Terminal reading lines from in and writing to out.
func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Printf writes formatted text to the terminal output.
func (t *Terminal) Printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

// Prompt writes the prompt and reads one line of input. It returns io.EOF
// once the input stream is exhausted, and the underlying read error otherwise.
func (t *Terminal) Prompt(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return t.in.Text(), nil
}
