package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/mapundo/internal/errors"
)

// Config command flags.
var configFlagForce bool

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg", "settings"},
	Short:   "Show or create the configuration file",
	Long: `Show the configuration in effect, after the config file, the
environment and flags have been applied.

Environment variables:
  MAPUNDO_UNDO_LEVELS  Maximum operations kept on each undo stack
  MAPUNDO_DATABASE     Database directory, or :memory:
  MAPUNDO_PROMPT       Shell prompt

Examples:
  mapundo config
  mapundo config path
  mapundo config init`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// configPathCmd prints the config file location.
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx.Formatter.Println(configPath())
	},
}

// configInitCmd writes the configuration in effect to the config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration to the config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configFlagForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"path":        configPath(),
			"undo_levels": ctx.Config.UndoLevels(),
			"database":    ctx.DB.Path(),
			"prompt":      ctx.Config.Shell.Prompt,
			"echo_events": ctx.Config.Shell.EchoEvents,
		})
	}

	data, err := ctx.Config.Encode()
	if err != nil {
		return err
	}
	ctx.CLIFormatter().Muted("# " + configPath())
	ctx.Formatter.Print(string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil && !configFlagForce {
		return errors.NewUserErrorWithField("path", path, "config file already exists", "Use --force to overwrite it")
	}
	if err := ctx.Config.WriteFile(path); err != nil {
		return err
	}
	ctx.CLIFormatter().Success("Wrote " + path)
	return nil
}
