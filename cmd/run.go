package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/logging"
	"github.com/manav03panchal/mapundo/internal/shell"
)

// Run command flags.
var (
	runFlagKeepGoing bool
	runFlagSave      string
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:     "run FILE...",
	Aliases: []string{"exec", "script"},
	Short:   "Run shell command scripts",
	Long: `Run files of shell commands, one command per line, against a single
scene. Lines starting with # are comments. Use - to read from stdin.

Execution stops at the first failing line unless --keep-going is set.

Examples:
  mapundo run build.txt
  mapundo run base.txt lights.txt --save mymap
  mapundo run - --keep-going < edits.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScripts,
}

func init() {
	runCmd.Flags().BoolVarP(&runFlagKeepGoing, "keep-going", "k", false, "Continue after failing lines")
	runCmd.Flags().StringVar(&runFlagSave, "save", "", "Save the resulting scene under this name")

	rootCmd.AddCommand(runCmd)
}

func runScripts(cmd *cobra.Command, args []string) error {
	sh := shell.New(ctx, shell.WithEchoEvents(false))
	defer sh.Close()
	runCtx := logging.WithSessionID(cmd.Context(), ctx.Session)

	total := 0
	for _, path := range args {
		f := os.Stdin
		if path != "-" {
			var err error
			if f, err = os.Open(path); err != nil {
				return errors.NewUserErrorWithField("file", path, "cannot open script", "Check that the file exists and is readable")
			}
		}

		failures, err := sh.Run(runCtx, f, shell.RunOptions{
			KeepGoing: runFlagKeepGoing,
			Source:    path,
		})
		if f != os.Stdin {
			f.Close()
		}
		total += failures
		if err != nil {
			// Run already reported the failing line.
			return errScriptFailed(total)
		}
	}

	if runFlagSave != "" {
		doc, err := ctx.SaveMap(runFlagSave)
		if err != nil {
			return err
		}
		ctx.Debugf("saved %s with %d nodes", doc.Name, len(doc.Nodes))
	}
	if total > 0 {
		return errScriptFailed(total)
	}
	return nil
}

// scriptError reports that script lines failed. The lines themselves were
// already printed by the shell.
type scriptError struct {
	failures int
}

func (e *scriptError) Error() string {
	return fmt.Sprintf("%d script line(s) failed", e.failures)
}

func errScriptFailed(failures int) error {
	return &scriptError{failures: failures}
}

// alreadyReported reports whether err was printed where it happened.
func alreadyReported(err error) bool {
	var se *scriptError
	return stderrors.As(err, &se)
}
