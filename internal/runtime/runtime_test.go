package runtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/mapundo/internal/config"
	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/model"
	"github.com/manav03panchal/mapundo/internal/output"
	"github.com/manav03panchal/mapundo/internal/scene"
)

// Helper to create an in-memory context with its own config.
func setupContext(t *testing.T, opts Options) *Context {
	t.Helper()
	if opts.Config == nil {
		opts.Config = config.DefaultRuntimeConfig()
	}
	opts.InMemory = true
	ctx, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { ctx.Close() })
	return ctx
}

// =============================================================================
// Context Tests
// =============================================================================

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.False(t, opts.InMemory)
	assert.Equal(t, output.FormatCLI, opts.Format)
	assert.Equal(t, output.ColorAuto, opts.ColorMode)
	assert.False(t, opts.Debug)
}

func TestNew(t *testing.T) {
	ctx := setupContext(t, Options{})

	assert.NotNil(t, ctx.DB)
	assert.Len(t, ctx.Session, 16)
	assert.NotNil(t, ctx.Formatter)
	assert.NotNil(t, ctx.MapRepo)
	assert.NotNil(t, ctx.Undo)
	require.NotNil(t, ctx.Scene)
	assert.Same(t, ctx.Undo, ctx.Scene.UndoSystem())
	assert.Equal(t, config.DefaultUndoLevels, ctx.Undo.Levels())
}

func TestNewWithOptions(t *testing.T) {
	ctx := setupContext(t, Options{
		Format:    output.FormatJSON,
		ColorMode: output.ColorNever,
		Debug:     true,
		Levels:    5,
	})

	assert.Equal(t, output.FormatJSON, ctx.Formatter.Format)
	assert.Equal(t, output.ColorNever, ctx.Formatter.ColorMode)
	assert.True(t, ctx.Debug)
	assert.True(t, ctx.IsJSON())
	assert.False(t, ctx.IsCLI())
	assert.Equal(t, 5, ctx.Undo.Levels())
}

func TestLevelsFollowConfig(t *testing.T) {
	cfg := config.DefaultRuntimeConfig()
	ctx := setupContext(t, Options{Config: cfg})

	require.NoError(t, cfg.SetUndoLevels(3))
	assert.Equal(t, 3, ctx.Undo.Levels())
}

func TestResolveStorage(t *testing.T) {
	cfg := config.DefaultRuntimeConfig()
	cfg.Storage.Path = "/from/config"

	t.Run("flag_wins", func(t *testing.T) {
		t.Setenv(config.EnvDatabase, "/from/env")
		got := resolveStorage(Options{DBPath: "/from/flag"}, cfg)
		assert.Equal(t, "/from/flag", got.Path)
	})

	t.Run("env_over_config", func(t *testing.T) {
		t.Setenv(config.EnvDatabase, "/from/env")
		got := resolveStorage(Options{}, cfg)
		assert.Equal(t, "/from/env", got.Path)
	})

	t.Run("config", func(t *testing.T) {
		t.Setenv(config.EnvDatabase, "")
		got := resolveStorage(Options{}, cfg)
		assert.Equal(t, "/from/config", got.Path)
	})

	t.Run("memory_keyword", func(t *testing.T) {
		t.Setenv(config.EnvDatabase, MemoryDatabase)
		got := resolveStorage(Options{}, cfg)
		assert.True(t, got.InMemory)
	})

	t.Run("in_memory_flag", func(t *testing.T) {
		got := resolveStorage(Options{InMemory: true, DBPath: "/x"}, cfg)
		assert.True(t, got.InMemory)
	})
}

func TestNewOnDisk(t *testing.T) {
	cfg := config.DefaultRuntimeConfig()
	dbPath := filepath.Join(t.TempDir(), "db")

	ctx, err := New(Options{Config: cfg, DBPath: dbPath})
	require.NoError(t, err)
	assert.Equal(t, dbPath, ctx.DB.Path())
	assert.NoError(t, ctx.Close())
}

func TestNewOnDiskChecksIntegrity(t *testing.T) {
	cfg := config.DefaultRuntimeConfig()
	dbPath := filepath.Join(t.TempDir(), "db")

	ctx, err := New(Options{Config: cfg, DBPath: dbPath})
	require.NoError(t, err)
	_, err = ctx.SaveMap("e1m1")
	require.NoError(t, err)

	status := ctx.CheckStorage()
	assert.True(t, status.Healthy)
	assert.Equal(t, 1, status.Checked)
	require.NoError(t, ctx.Close())

	// Reopening runs the same check before the context is handed out.
	ctx, err = New(Options{Config: cfg, DBPath: dbPath})
	require.NoError(t, err)
	assert.NoError(t, ctx.Close())
}

func TestLoadMapFailureKeepsScene(t *testing.T) {
	ctx := setupContext(t, Options{})
	g := ctx.Scene

	light := g.NewNode(scene.KindEntity, "light")
	require.NoError(t, ctx.Undo.Do("Create light", func() error {
		return g.Insert(g.Root(), light)
	}))

	_, err := ctx.MapRepo.Save("broken", []model.NodeRecord{
		{ID: scene.RootID, Kind: "entity"},
		{ID: "a", Kind: "entity", Parent: scene.RootID},
		{ID: "b", Kind: "brush", Parent: "missing"},
	})
	require.NoError(t, err)

	err = ctx.LoadMap("broken")
	assert.ErrorIs(t, err, errors.ErrNodeNotFound)
	assert.Contains(t, err.Error(), "load broken")
	assert.True(t, light.Attached())
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 1, ctx.Undo.UndoDepth())
}

func TestSaveLoadMap(t *testing.T) {
	ctx := setupContext(t, Options{})
	g := ctx.Scene

	light := g.NewNode(scene.KindEntity, "light")
	require.NoError(t, ctx.Undo.Do("Create light", func() error {
		return g.Insert(g.Root(), light)
	}))

	doc, err := ctx.SaveMap("e1m1")
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 2)

	require.NoError(t, ctx.Undo.Do("Delete", func() error { return g.Remove(light) }))
	require.Equal(t, 1, g.Len())

	require.NoError(t, ctx.LoadMap("e1m1"))
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 0, ctx.Undo.UndoDepth(), "loading clears history")
	_, err = g.Find(light.ID())
	assert.NoError(t, err)

	assert.ErrorIs(t, ctx.LoadMap("missing"), errors.ErrMapNotFound)
}

func TestDebugf(t *testing.T) {
	var buf bytes.Buffer
	ctx := setupContext(t, Options{Debug: true})
	ctx.Formatter.Writer = &buf

	ctx.Debugf("levels %d", 4)
	assert.Equal(t, "[DEBUG] levels 4\n", buf.String())

	buf.Reset()
	ctx.Debug = false
	ctx.Debugf("hidden")
	assert.Empty(t, buf.String())
}

// =============================================================================
// Error Tests
// =============================================================================

func TestFormatError(t *testing.T) {
	err := errors.UserErrorFrom(errors.ErrNodeNotFound, "id", "x")
	assert.Equal(t, "node not found: 'x'\n\nTry: "+errors.Suggestions[errors.ErrNodeNotFound], FormatError(err))
}

func TestPrintErrorLogsCauseChain(t *testing.T) {
	var logs, out bytes.Buffer
	ctx := setupContext(t, Options{ColorMode: output.ColorNever})
	ctx.Formatter.Writer = &out
	ctx.Logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx.PrintError(errors.NewSystemErrorWithOp("save map", "cannot write map", fmt.Errorf("disk full")))
	assert.Contains(t, out.String(), "cannot write map during save map")
	assert.Contains(t, logs.String(), `op="save map"`)
	assert.Contains(t, logs.String(), "disk full")
	assert.Contains(t, logs.String(), "category=system")
}

func TestPrintError(t *testing.T) {
	t.Run("cli", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := setupContext(t, Options{ColorMode: output.ColorNever})
		ctx.Formatter.Writer = &buf

		ctx.PrintError(errors.UserErrorFrom(errors.ErrNodeNotFound, "id", "n9"))
		assert.Contains(t, buf.String(), "✗ node not found: 'n9'")
	})

	t.Run("state_as_warning", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := setupContext(t, Options{ColorMode: output.ColorNever})
		ctx.Formatter.Writer = &buf

		ctx.PrintError(errors.ErrNothingToUndo)
		assert.Contains(t, buf.String(), "⚠ nothing to undo")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := setupContext(t, Options{Format: output.FormatJSON})
		ctx.Formatter.Writer = &buf

		ctx.PrintError(errors.UserErrorFrom(errors.ErrUnknownCommand, "command", "frob"))
		var resp output.ErrorResponse
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, "user", resp.Category)
		assert.NotEmpty(t, resp.Suggestion)
	})

	t.Run("nil", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := setupContext(t, Options{})
		ctx.Formatter.Writer = &buf
		ctx.PrintError(nil)
		assert.Empty(t, buf.String())
	})
}
