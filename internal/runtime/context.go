// Package runtime provides application runtime context for mapundo.
package runtime

import (
	"log/slog"
	"os"

	"github.com/manav03panchal/mapundo/internal/config"
	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/logging"
	"github.com/manav03panchal/mapundo/internal/model"
	"github.com/manav03panchal/mapundo/internal/output"
	"github.com/manav03panchal/mapundo/internal/scene"
	"github.com/manav03panchal/mapundo/internal/storage"
	"github.com/manav03panchal/mapundo/internal/undo"
)

// MemoryDatabase selects an in-memory database when used as a path.
const MemoryDatabase = ":memory:"

// Context holds the application runtime context.
type Context struct {
	Config    *config.RuntimeConfig
	DB        *storage.DB
	Formatter *output.Formatter
	Logger    *slog.Logger

	// Session identifies this process in log records.
	Session string

	// Repositories
	MapRepo *storage.MapRepo

	// Undo engine and the scene it tracks
	Undo  *undo.System
	Scene *scene.Graph

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	// Config supplies levels, storage and shell settings. Nil uses config.Global.
	Config *config.RuntimeConfig

	DBPath    string
	InMemory  bool
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool

	// Levels overrides the configured undo levels when positive.
	Levels int

	// SceneOptions are passed to scene.NewGraph.
	SceneOptions []scene.GraphOption
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// New creates a new runtime context.
func New(opts Options) (*Context, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Global
	}
	if opts.Levels > 0 {
		if err := cfg.SetUndoLevels(opts.Levels); err != nil {
			return nil, err
		}
	}

	dbOpts := resolveStorage(opts, cfg)
	open := storage.Open
	if !dbOpts.InMemory {
		open = storage.OpenWithIntegrityCheck
	}
	db, err := open(dbOpts)
	if err != nil {
		return nil, err
	}

	session := logging.GenerateSessionID()
	logger := logging.With(logging.KeySession, session)
	sys := undo.NewSystem(cfg, undo.WithLogger(logger))

	formatter := output.NewFormatter()
	if opts.Format != "" {
		formatter.Format = opts.Format
	}
	if opts.ColorMode != "" {
		formatter.ColorMode = opts.ColorMode
	}

	return &Context{
		Config:    cfg,
		DB:        db,
		Formatter: formatter,
		Logger:    logger,
		Session:   session,
		MapRepo:   storage.NewMapRepo(db),
		Undo:      sys,
		Scene:     scene.NewGraph(sys, opts.SceneOptions...),
		Debug:     opts.Debug,
	}, nil
}

// resolveStorage picks the database location. Flags win over the
// environment, which wins over the config file.
func resolveStorage(opts Options, cfg *config.RuntimeConfig) storage.Options {
	if opts.InMemory || cfg.Storage.InMemory {
		return storage.Options{InMemory: true}
	}

	path := opts.DBPath
	if path == "" {
		path = os.Getenv(config.EnvDatabase)
	}
	if path == "" {
		path = cfg.Storage.Path
	}
	if path == "" {
		path = storage.DefaultPath()
	}
	if path == MemoryDatabase {
		return storage.Options{InMemory: true}
	}
	return storage.Options{Path: path}
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// SaveMap stores the current scene under name.
func (c *Context) SaveMap(name string) (*model.MapDocument, error) {
	doc, err := c.MapRepo.Save(name, c.Scene.Export())
	if err != nil {
		return nil, err
	}
	c.Logger.Info("map saved", logging.KeyMap, name, logging.KeyCount, len(doc.Nodes))
	return doc, nil
}

// LoadMap replaces the scene with the stored map name. The undo history is
// cleared.
func (c *Context) LoadMap(name string) error {
	doc, err := c.MapRepo.Get(name)
	if err != nil {
		return err
	}
	if err := c.Scene.Import(doc.Nodes); err != nil {
		return errors.Wrap(err, "load "+name)
	}
	c.Logger.Info("map loaded", logging.KeyMap, name, logging.KeyCount, len(doc.Nodes))
	return nil
}

// CheckStorage samples the map database for unreadable values.
func (c *Context) CheckStorage() *storage.RecoveryStatus {
	return storage.CheckDatabaseIntegrity(c.DB)
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// IsCLI returns true if output format is CLI.
func (c *Context) IsCLI() bool {
	return c.Formatter.Format == output.FormatCLI
}

// Debugf prints debug output if debug mode is enabled.
func (c *Context) Debugf(format string, args ...interface{}) {
	if c.Debug {
		c.Formatter.Printf("[DEBUG] "+format+"\n", args...)
	}
}
