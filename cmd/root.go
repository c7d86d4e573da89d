// Package cmd provides the CLI commands for Mapundo.
//
// This software is a derivative work based on Humantime and Zeit (https://github.com/mrusme/zeit)
// Original work copyright (c) マリウス (mrusme)
// Modifications copyright (c) Manav Panchal
//
// Licensed under the SEGV License, Version 1.0
// See LICENSE file for full license text.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/mapundo/internal/config"
	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/logging"
	"github.com/manav03panchal/mapundo/internal/output"
	"github.com/manav03panchal/mapundo/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
	flagConfig string
	flagDB     string
	flagMemory bool
	flagLevels int
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mapundo",
	Short: "A map editing shell with transactional undo and redo",
	Long: `Mapundo edits a map scene (worldspawn, entities, brushes and patches)
one command at a time. Every change is grouped into a named operation
that can be undone and redone.

Examples:
  mapundo                       # start the interactive shell
  mapundo run build.txt         # run a script of shell commands
  mapundo --levels 8 shell      # keep at most 8 operations per stack
  mapundo maps                  # list saved maps
  mapundo show base`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		format, err := output.ParseFormat(flagFormat)
		if err != nil {
			return err
		}
		colorMode, err := output.ParseColorMode(flagColor)
		if err != nil {
			return err
		}

		cfg, err := config.Load(configPath())
		if err != nil {
			return err
		}
		if err := initLogging(cfg); err != nil {
			return err
		}

		opts := runtime.DefaultOptions()
		opts.Config = cfg
		opts.Format = format
		opts.ColorMode = colorMode
		opts.Debug = flagDebug
		opts.DBPath = flagDB
		opts.InMemory = flagMemory
		if cmd.Flags().Changed("levels") {
			if flagLevels <= 0 {
				return errors.UserErrorFrom(errors.ErrInvalidUndoLevels, "levels", cmd.Flag("levels").Value.String())
			}
			opts.Levels = flagLevels
		}

		ctx, err = runtime.New(opts)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logFile != nil {
			defer logFile.Close()
		}
		if ctx != nil {
			return ctx.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: interactive shell
		return runShell(cmd, args)
	},
}

// logFile is the open log file when logging.file is configured.
var logFile *os.File

// initLogging applies the logging section of cfg. --debug overrides it.
func initLogging(cfg *config.RuntimeConfig) error {
	if flagDebug {
		logging.InitDebug()
		return nil
	}

	lc, err := cfg.LoggerConfig()
	if err != nil {
		return err
	}
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return errors.NewSystemErrorWithOp("open log", "cannot open log file "+cfg.Logging.File, err)
		}
		logFile = f
		lc.Output = f
	}
	logging.Init(lc)
	return nil
}

// configPath returns the config file in effect.
func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.DefaultConfigPath()
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		report(err)
	}
	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Config file (default $XDG_CONFIG_HOME/mapundo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "",
		"Database directory, or :memory:")
	rootCmd.PersistentFlags().BoolVar(&flagMemory, "memory", false,
		"Keep saved maps in memory only")
	rootCmd.PersistentFlags().IntVar(&flagLevels, "levels", config.DefaultUndoLevels,
		"Maximum operations kept on each undo stack")

	// Add commands
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("mapundo %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
		cmd.Println("")
		cmd.Println("Based on Humantime and Zeit (https://github.com/mrusme/zeit)")
		cmd.Println("Licensed under SEGV License v1.0")
	},
}

// report prints a command error in the active output format.
func report(err error) {
	if alreadyReported(err) {
		return
	}
	if ctx != nil {
		ctx.PrintError(err)
		return
	}
	os.Stderr.WriteString("Error: " + runtime.FormatError(err) + "\n")
}
