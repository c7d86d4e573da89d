// Package shell is a line-oriented interpreter that edits the scene of a
// runtime.Context through its undo system.
//
// Mutating commands issued outside begin/commit run as their own
// operation, named after the command line, so every change is undoable.
package shell

import (
	stderrors "errors"
	"sort"
	"strings"

	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/logging"
	"github.com/manav03panchal/mapundo/internal/runtime"
	"github.com/manav03panchal/mapundo/internal/signal"
	"github.com/manav03panchal/mapundo/internal/undo"
	"github.com/manav03panchal/mapundo/internal/validate"
)

// ErrQuit is returned by Exec for the exit and quit commands.
var ErrQuit = stderrors.New("quit")

// command describes one shell command.
type command struct {
	usage   string
	summary string
	minArgs int
	maxArgs int // -1 for no limit
	// mutating commands are wrapped in an operation when none is open
	mutating bool
	run      func(s *Shell, args []string) error
}

// Shell executes commands against a runtime context.
type Shell struct {
	rt       *runtime.Context
	commands map[string]command
	echo     bool
	token    signal.Token
}

// Option configures a Shell.
type Option func(*Shell)

// WithEchoEvents prints undo engine events as they happen.
func WithEchoEvents(echo bool) Option {
	return func(s *Shell) {
		s.echo = echo
	}
}

// New creates a shell over rt. Call Close to stop echoing events.
func New(rt *runtime.Context, opts ...Option) *Shell {
	s := &Shell{
		rt:       rt,
		commands: commandTable(),
		echo:     rt.Config.Shell.EchoEvents,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.echo {
		s.token = rt.Undo.Subscribe(s.printEvent)
	}
	return s
}

// Close detaches the shell from the undo system's event channel.
func (s *Shell) Close() {
	if s.token != 0 {
		s.rt.Undo.Unsubscribe(s.token)
		s.token = 0
	}
}

// Exec runs a single line. Blank lines and comments do nothing.
func (s *Shell) Exec(line string) error {
	line = validate.SanitizeLine(line)
	args, err := tokenize(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	name := strings.ToLower(args[0])
	cmd, ok := s.commands[name]
	if !ok {
		return errors.UserErrorFrom(errors.ErrUnknownCommand, "command", args[0])
	}
	args = args[1:]
	if len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		err := errors.UserErrorFrom(errors.ErrInvalidArgument, "command", name)
		err.Message = "wrong number of arguments"
		err.Suggestion = "Usage: " + cmd.usage
		return err
	}

	logging.DebugLog("shell command", "command", name, logging.KeyCount, len(args))

	if cmd.mutating && !s.rt.Undo.OperationStarted() {
		return s.rt.Undo.Do(line, func() error {
			return cmd.run(s, args)
		})
	}
	return cmd.run(s, args)
}

// Commands returns the command names in sorted order.
func (s *Shell) Commands() []string {
	names := make([]string, 0, len(s.commands))
	for n := range s.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Shell) printEvent(e undo.Event) {
	if s.rt.IsJSON() {
		_ = s.rt.JSONFormatter().PrintEvent(e)
		return
	}
	s.rt.CLIFormatter().PrintEvent(e)
}

// reply prints the result of a command.
func (s *Shell) reply(text string) {
	if s.rt.IsJSON() {
		_ = s.rt.JSONFormatter().PrintMessage("ok", text)
		return
	}
	s.rt.CLIFormatter().Success(text)
}

// note prints informational output that is not a success.
func (s *Shell) note(text string) {
	if s.rt.IsJSON() {
		_ = s.rt.JSONFormatter().PrintMessage("info", text)
		return
	}
	s.rt.CLIFormatter().Muted(text)
}
