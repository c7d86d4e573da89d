package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/model"
)

// Import command flags.
var (
	importFlagName   string
	importFlagDryRun bool
	importFlagForce  bool
)

// importCmd represents the import command.
var importCmd = &cobra.Command{
	Use:     "import FILE",
	Aliases: []string{"imp", "restore"},
	Short:   "Import a map from a JSON file",
	Long: `Import a map document written by "mapundo export". The records are
checked by loading them into a scene before anything is saved.

Examples:
  mapundo import base.json
  mapundo import base.json --name base_copy
  mapundo import base.json --dry-run
  mapundo import base.json --force`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importFlagName, "name", "", "Save under this name instead of the document's")
	importCmd.Flags().BoolVar(&importFlagDryRun, "dry-run", false, "Validate without saving")
	importCmd.Flags().BoolVar(&importFlagForce, "force", false, "Overwrite an existing map with the same name")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.NewUserErrorWithField("file", args[0], "cannot read import file", "Check that the file exists and is readable")
	}

	var doc model.MapDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.NewUserErrorWithField("file", args[0], "invalid map document", err.Error())
	}

	name := doc.Name
	if importFlagName != "" {
		name = importFlagName
	}

	// Loading the records runs the same checks as "load" in the shell.
	if err := ctx.Scene.Import(doc.Nodes); err != nil {
		return errors.Wrapf(err, "import %s", args[0])
	}

	exists, err := ctx.MapRepo.Exists(name)
	if err != nil {
		return err
	}
	if exists && !importFlagForce {
		return errors.NewUserErrorWithField("name", name, "map already exists", "Use --force to overwrite it or --name to pick another name")
	}

	if importFlagDryRun {
		msg := fmt.Sprintf("%s is valid: %d nodes would be saved as %s", args[0], ctx.Scene.Len(), name)
		if ctx.IsJSON() {
			return ctx.JSONFormatter().PrintMessage("dry_run", msg)
		}
		ctx.CLIFormatter().Muted(msg)
		return nil
	}

	saved, err := ctx.SaveMap(name)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Imported %s (%d nodes)", saved.Name, len(saved.Nodes))
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintMessage("imported", msg)
	}
	ctx.CLIFormatter().Success(msg)
	return nil
}
