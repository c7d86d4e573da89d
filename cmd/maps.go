package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/mapundo/internal/errors"
)

// Maps command flags.
var mapsDeleteFlagAll bool

// mapsCmd represents the maps command.
var mapsCmd = &cobra.Command{
	Use:     "maps",
	Aliases: []string{"ls", "list"},
	Short:   "List saved maps",
	Long: `List the maps saved with the shell's "save" command or "run --save".

Examples:
  mapundo maps
  mapundo maps --format json
  mapundo maps rename base arena
  mapundo maps delete old_layout
  mapundo maps delete --all
  mapundo maps check`,
	Args: cobra.NoArgs,
	RunE: runMapsList,
}

// showCmd prints a saved map.
var showCmd = &cobra.Command{
	Use:               "show NAME",
	Short:             "Print a saved map",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeMaps,
	RunE:              runMapsShow,
}

// mapsDeleteCmd deletes a saved map.
var mapsDeleteCmd = &cobra.Command{
	Use:               "delete NAME...",
	Aliases:           []string{"rm"},
	Short:             "Delete saved maps",
	ValidArgsFunction: completeMaps,
	RunE:              runMapsDelete,
}

// mapsRenameCmd renames a saved map.
var mapsRenameCmd = &cobra.Command{
	Use:               "rename OLD NEW",
	Aliases:           []string{"mv"},
	Short:             "Rename a saved map",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeMaps,
	RunE:              runMapsRename,
}

// mapsCheckCmd samples the database for unreadable values.
var mapsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the map database for unreadable values",
	Args:  cobra.NoArgs,
	RunE:  runMapsCheck,
}

func init() {
	mapsDeleteCmd.Flags().BoolVar(&mapsDeleteFlagAll, "all", false, "Delete every saved map")

	mapsCmd.AddCommand(mapsDeleteCmd)
	mapsCmd.AddCommand(mapsRenameCmd)
	mapsCmd.AddCommand(mapsCheckCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(showCmd)
}

func runMapsList(cmd *cobra.Command, args []string) error {
	docs, err := ctx.MapRepo.List()
	if err != nil {
		return err
	}
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintMaps(docs)
	}
	ctx.CLIFormatter().PrintMaps(docs)
	return nil
}

func runMapsShow(cmd *cobra.Command, args []string) error {
	doc, err := ctx.MapRepo.Get(args[0])
	if err != nil {
		return err
	}
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintScene(doc.Name, doc.Nodes)
	}
	ctx.CLIFormatter().PrintScene(doc.Name, doc.Nodes)
	return nil
}

func runMapsDelete(cmd *cobra.Command, args []string) error {
	if mapsDeleteFlagAll {
		if len(args) > 0 {
			return errors.NewUserError("--all takes no map names", "Drop the names or the --all flag")
		}
		n, err := ctx.MapRepo.DeleteAll()
		if err != nil {
			return err
		}
		return mapsMessage("deleted", fmt.Sprintf("Deleted %d map(s)", n))
	}
	if len(args) == 0 {
		return errors.NewUserError("no map names given", "Usage: mapundo maps delete NAME... or --all")
	}

	for _, name := range args {
		if err := ctx.MapRepo.Delete(name); err != nil {
			return err
		}
		if err := mapsMessage("deleted", "Deleted "+name); err != nil {
			return err
		}
	}
	return nil
}

func runMapsRename(cmd *cobra.Command, args []string) error {
	doc, err := ctx.MapRepo.Rename(args[0], args[1])
	if err != nil {
		return err
	}
	return mapsMessage("renamed", "Renamed "+args[0]+" to "+doc.Name)
}

func runMapsCheck(cmd *cobra.Command, args []string) error {
	status := ctx.CheckStorage()
	if ctx.IsJSON() {
		if err := ctx.Formatter.JSON(status); err != nil {
			return err
		}
	} else if status.Healthy {
		ctx.CLIFormatter().Success(fmt.Sprintf("Database healthy (%d values checked)", status.Checked))
	} else {
		cli := ctx.CLIFormatter()
		for _, msg := range status.Errors {
			cli.Warning(msg)
		}
	}

	if !status.Healthy {
		return errors.NewSystemErrorWithOp("integrity check",
			fmt.Sprintf("%d unreadable value(s)", status.ErrorCount), errors.ErrDatabaseCorrupted)
	}
	return nil
}

// mapsMessage prints a result line in the active format.
func mapsMessage(status, msg string) error {
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintMessage(status, msg)
	}
	ctx.CLIFormatter().Success(msg)
	return nil
}
