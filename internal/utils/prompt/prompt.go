// Package prompt reads interactive user input without blocking cancellation.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"mediadl/internal/utils/logging"
)

// ErrCancelled is returned when the context ends while waiting for input.
var ErrCancelled = errors.New("input cancelled")

type readResult struct {
	line string
	err  error
}

// Prompter writes prompts to out and reads answers line by line from in.
type Prompter struct {
	in  io.Reader
	out io.Writer

	once  sync.Once
	input chan readResult
}

// New returns a prompter over in and out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:    in,
		out:   out,
		input: make(chan readResult),
	}
}

// Out returns the writer prompts are printed to.
func (p *Prompter) Out() io.Writer {
	return p.out
}

// startReader initializes the user input reader in a goroutine.
func (p *Prompter) startReader() {
	go func() {
		defer close(p.input)

		reader := bufio.NewReader(p.in)
		for {
			line, err := reader.ReadString('\n')
			if line != "" || err == nil {
				p.input <- readResult{line: strings.TrimRight(line, "\r\n")}
			}
			if err != nil {
				p.input <- readResult{err: err}
				return
			}
		}
	}()
}

// Ask prints msg and waits for one line of input, returned without surrounding space.
//
// io.EOF is returned once input is exhausted, and ErrCancelled when ctx ends first.
func (p *Prompter) Ask(ctx context.Context, msg string) (string, error) {
	p.once.Do(p.startReader)

	if msg != "" {
		fmt.Fprint(p.out, msg)
	}

	select {
	case res, ok := <-p.input:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			if !errors.Is(res.err, io.EOF) {
				logging.E("Failed to read input: %v", res.err)
			}
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil

	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
	}
}
