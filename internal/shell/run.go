package shell

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/logging"
)

// RunOptions controls how Run reads its input.
type RunOptions struct {
	// Prompt is printed before each line when non-empty.
	Prompt string
	// KeepGoing reports errors and continues instead of stopping at the
	// first failing line.
	KeepGoing bool
	// Source names the input in error messages, e.g. a script path.
	Source string
}

// LineError ties a command failure to its input line.
type LineError struct {
	Source string
	Line   int
	Err    error
}

func (e *LineError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Run executes r line by line until EOF, an exit command, or ctx is done.
// Every failing line is reported through the runtime's formatter and
// counted. Unless KeepGoing is set, Run stops at the first failure and
// returns it as a *LineError. Cancelling ctx ends Run even while it is
// waiting for input.
func (s *Shell) Run(ctx context.Context, r io.Reader, opts RunOptions) (failures int, err error) {
	stop := make(chan struct{})
	defer close(stop)
	lines := readLines(r, stop)

	logger := logging.LoggerFromContext(ctx)
	line := 0

	for {
		if err := ctx.Err(); err != nil {
			return failures, err
		}
		if opts.Prompt != "" {
			s.rt.Formatter.Print(opts.Prompt)
		}

		var next scanResult
		var ok bool
		select {
		case <-ctx.Done():
			return failures, ctx.Err()
		case next, ok = <-lines:
		}
		if !ok {
			return failures, nil
		}
		if next.err != nil {
			logging.WarnContext(ctx, "shell input failed", logging.KeyLine, line, logging.KeyError, next.err)
			return failures, errors.NewSystemErrorWithOp("read", "cannot read input", next.err)
		}
		line++

		execErr := s.Exec(next.text)
		if execErr == nil {
			continue
		}
		if stderrors.Is(execErr, ErrQuit) {
			return failures, nil
		}

		failures++
		lerr := &LineError{Source: opts.Source, Line: line, Err: execErr}
		logger.Debug("shell command failed", logging.KeyLine, line, logging.KeyError, execErr)
		s.rt.PrintError(reportable(lerr, execErr))
		if !opts.KeepGoing {
			return failures, lerr
		}
	}
}

// scanResult is one line of input, or the error that ended the input.
type scanResult struct {
	text string
	err  error
}

// readLines scans r on its own goroutine. The channel is closed at EOF,
// after a read error has been delivered, or once stop is closed.
func readLines(r io.Reader, stop <-chan struct{}) <-chan scanResult {
	out := make(chan scanResult)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case out <- scanResult{text: scanner.Text()}:
			case <-stop:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case out <- scanResult{err: err}:
			case <-stop:
			}
		}
	}()
	return out
}

// reportable keeps the UserError suggestion attached when adding the
// line position to the message.
func reportable(lerr *LineError, cause error) error {
	if ue, ok := errors.AsUserError(cause); ok {
		return &errors.UserError{
			Message:    lerr.Error(),
			Suggestion: ue.Suggestion,
			Cause:      cause,
		}
	}
	return lerr
}
