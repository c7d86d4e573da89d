package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/manav03panchal/mapundo/internal/config"
	"github.com/manav03panchal/mapundo/internal/logging"
	"github.com/manav03panchal/mapundo/internal/shell"
)

// Shell command flags.
var (
	shellFlagNoEcho bool
	shellFlagWatch  bool
)

// shellCmd represents the shell command.
var shellCmd = &cobra.Command{
	Use:     "shell",
	Aliases: []string{"sh", "edit"},
	Short:   "Start the interactive editing shell",
	Long: `Start an interactive session over an empty scene. Type "help" for the
command list.

Every mutating command outside begin/commit is its own operation:
  mapundo> add entity worldspawn light
  mapundo> set n1 origin "0 0 64"
  mapundo> undo

Group several changes into one operation with begin and commit:
  mapundo> begin
  mapundo> add entity
  mapundo> add brush n2
  mapundo> commit Create door

The prompt is shown only when stdin is a terminal, so scripts can be
piped in:
  mapundo shell < build.txt`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	shellCmd.Flags().BoolVar(&shellFlagNoEcho, "no-echo", false, "Do not print undo events as they happen")
	shellCmd.Flags().BoolVar(&shellFlagWatch, "watch", true, "Reload undo levels when the config file changes")

	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	var opts []shell.Option
	if shellFlagNoEcho {
		opts = append(opts, shell.WithEchoEvents(false))
	}
	sh := shell.New(ctx, opts...)
	defer sh.Close()

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	runCtx = logging.WithSessionID(runCtx, ctx.Session)

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if shellFlagWatch && interactive && !cmd.Flags().Changed("levels") {
		go watchConfig(runCtx)
	}

	runOpts := shell.RunOptions{KeepGoing: interactive}
	if interactive {
		runOpts.Prompt = ctx.Config.Shell.Prompt
		ctx.CLIFormatter().Muted("mapundo " + Version + ": type \"help\" for commands, \"exit\" to leave")
	}

	_, err := sh.Run(runCtx, os.Stdin, runOpts)
	if err == context.Canceled {
		return nil
	}
	return err
}

// watchConfig applies undo level changes from the config file while the
// shell runs.
func watchConfig(c context.Context) {
	path := configPath()
	err := config.Watch(c, path, ctx.Config, func(levels int) {
		ctx.Debugf("undo levels now %d", levels)
	})
	if err != nil {
		logging.Warn("config watch stopped", logging.KeyPath, path, logging.KeyError, err)
	}
}
