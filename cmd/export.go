package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/mapundo/internal/errors"
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:     "export NAME [FILE]",
	Aliases: []string{"exp", "backup"},
	Short:   "Export a saved map as JSON",
	Long: `Write a saved map as a JSON document, to FILE or stdout. The document
can be loaded back with "mapundo import".

Examples:
  mapundo export base
  mapundo export base base.json`,
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeMaps,
	RunE:              runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	doc, err := ctx.MapRepo.Get(args[0])
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.NewSystemErrorWithOp("export", "failed to encode map", err)
	}
	data = append(data, '\n')

	if len(args) == 1 {
		if _, err := ctx.Formatter.Writer.Write(data); err != nil {
			return errors.NewSystemError("failed to write export", err)
		}
		return nil
	}
	if err := os.WriteFile(args[1], data, 0o644); err != nil {
		return errors.NewSystemErrorWithOp("export", "failed to write "+args[1], err)
	}
	msg := "Exported " + doc.Name + " to " + args[1]
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintMessage("exported", msg)
	}
	ctx.CLIFormatter().Success(msg)
	return nil
}
