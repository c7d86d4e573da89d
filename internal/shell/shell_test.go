package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/mapundo/internal/config"
	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/output"
	"github.com/manav03panchal/mapundo/internal/runtime"
	"github.com/manav03panchal/mapundo/internal/scene"
)

// Helper to create a shell over an in-memory context with sequential node
// IDs (n1, n2, ...) and uncolored output captured in a buffer.
func setupShell(t *testing.T, format output.Format, echo bool) (*Shell, *runtime.Context, *bytes.Buffer) {
	t.Helper()
	seq := 0
	rt, err := runtime.New(runtime.Options{
		Config:    config.DefaultRuntimeConfig(),
		InMemory:  true,
		Format:    format,
		ColorMode: output.ColorNever,
		SceneOptions: []scene.GraphOption{scene.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("n%d", seq)
		})},
	})
	require.NoError(t, err)
	t.Cleanup(func() { rt.Close() })

	var buf bytes.Buffer
	rt.Formatter.Writer = &buf

	sh := New(rt, WithEchoEvents(echo))
	t.Cleanup(sh.Close)
	return sh, rt, &buf
}

func execAll(t *testing.T, sh *Shell, lines ...string) {
	t.Helper()
	for _, l := range lines {
		require.NoError(t, sh.Exec(l), "line %q", l)
	}
}

// =============================================================================
// Tokenizer Tests
// =============================================================================

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"simple", "set n1 origin 0", []string{"set", "n1", "origin", "0"}},
		{"double_quotes", `set n1 name "big light"`, []string{"set", "n1", "name", "big light"}},
		{"single_quotes", `commit 'Move brushes'`, []string{"commit", "Move brushes"}},
		{"empty_quotes", `set n1 target ""`, []string{"set", "n1", "target", ""}},
		{"comment_line", "# a comment", nil},
		{"trailing_comment", "undo # go back", []string{"undo"}},
		{"hash_starts_word", "set n1 _color #ff0", []string{"set", "n1", "_color"}},
		{"hash_inside_word", "set n1 target a#b", []string{"set", "n1", "target", "a#b"}},
		{"hash_inside_quotes", `set n1 note "#1"`, []string{"set", "n1", "note", "#1"}},
		{"extra_spaces", "  show   ", []string{"show"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tokenize(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := tokenize(`commit "unterminated`)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

// =============================================================================
// Dispatch Tests
// =============================================================================

func TestExecBlankAndComment(t *testing.T) {
	sh, rt, _ := setupShell(t, output.FormatCLI, false)
	assert.NoError(t, sh.Exec(""))
	assert.NoError(t, sh.Exec("   # nothing"))
	assert.Equal(t, 0, rt.Undo.UndoDepth())
}

func TestExecUnknownCommand(t *testing.T) {
	sh, _, _ := setupShell(t, output.FormatCLI, false)
	err := sh.Exec("frobnicate")
	assert.ErrorIs(t, err, errors.ErrUnknownCommand)
	assert.Contains(t, err.Error(), "frobnicate")
}

func TestExecWrongArgumentCount(t *testing.T) {
	sh, _, _ := setupShell(t, output.FormatCLI, false)
	for _, line := range []string{"remove", "set n1 key", "undo now", "add", "shader n1"} {
		err := sh.Exec(line)
		require.ErrorIs(t, err, errors.ErrInvalidArgument, "line %q", line)
		ue, ok := errors.AsUserError(err)
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(ue.Suggestion, "Usage: "))
	}
}

func TestCommandsAreCaseInsensitive(t *testing.T) {
	sh, rt, _ := setupShell(t, output.FormatCLI, false)
	execAll(t, sh, "ADD entity")
	assert.Equal(t, 2, rt.Scene.Len())
}

// =============================================================================
// Operation Tests
// =============================================================================

func TestImplicitOperation(t *testing.T) {
	sh, rt, _ := setupShell(t, output.FormatCLI, false)

	execAll(t, sh, "add entity worldspawn light", "set n1 origin 0 0 64")
	assert.Equal(t, []string{"add entity worldspawn light", "set n1 origin 0 0 64"}, rt.Undo.UndoNames())

	n, err := rt.Scene.Find("n1")
	require.NoError(t, err)
	assert.Equal(t, "light", n.Classname())
	v, _ := n.KeyValue("origin")
	assert.Equal(t, "0 0 64", v)

	execAll(t, sh, "undo")
	_, ok := n.KeyValue("origin")
	assert.False(t, ok)

	execAll(t, sh, "undo")
	assert.Equal(t, 1, rt.Scene.Len())

	execAll(t, sh, "redo", "redo")
	v, _ = n.KeyValue("origin")
	assert.Equal(t, "0 0 64", v)
	assert.True(t, n.Attached())
}

func TestExplicitOperation(t *testing.T) {
	sh, rt, buf := setupShell(t, output.FormatCLI, false)

	execAll(t, sh,
		"begin",
		"add entity",
		"add brush n1 textures/base_wall/a",
		"set n1 name door_1",
		"commit Create door",
	)
	assert.Equal(t, []string{"Create door"}, rt.Undo.UndoNames())
	assert.Contains(t, buf.String(), "✓ Committed: Create door")

	brush, err := rt.Scene.Find("n2")
	require.NoError(t, err)
	assert.Equal(t, "textures/base_wall/a", brush.Shader())

	execAll(t, sh, "undo")
	assert.Equal(t, 1, rt.Scene.Len())

	execAll(t, sh, "redo")
	assert.Equal(t, 3, rt.Scene.Len())
	door, err := rt.Scene.Find("n1")
	require.NoError(t, err)
	assert.Equal(t, "func_static door_1", door.Label())
}

func TestOperationStateErrors(t *testing.T) {
	sh, rt, _ := setupShell(t, output.FormatCLI, false)

	assert.ErrorIs(t, sh.Exec("commit Nothing"), errors.ErrNoOperation)
	assert.ErrorIs(t, sh.Exec("cancel"), errors.ErrNoOperation)

	execAll(t, sh, "begin")
	assert.ErrorIs(t, sh.Exec("begin"), errors.ErrOperationInProgress)
	assert.ErrorIs(t, sh.Exec("undo"), errors.ErrOperationInProgress)
	assert.ErrorIs(t, sh.Exec("redo"), errors.ErrOperationInProgress)
	assert.ErrorIs(t, sh.Exec("clear"), errors.ErrOperationInProgress)
	assert.ErrorIs(t, sh.Exec("load base"), errors.ErrOperationInProgress)
	assert.True(t, rt.Undo.OperationStarted())
}

func TestNothingToUndoOrRedo(t *testing.T) {
	sh, _, _ := setupShell(t, output.FormatCLI, false)
	assert.ErrorIs(t, sh.Exec("undo"), errors.ErrNothingToUndo)
	assert.ErrorIs(t, sh.Exec("redo"), errors.ErrNothingToRedo)
}

func TestCommitWithoutChanges(t *testing.T) {
	sh, rt, buf := setupShell(t, output.FormatCLI, false)
	execAll(t, sh, "begin", "commit Empty")

	assert.Equal(t, 0, rt.Undo.UndoDepth())
	assert.False(t, rt.Undo.OperationStarted())
	assert.Contains(t, buf.String(), "Nothing changed")
}

func TestCancelKeepsSceneChanges(t *testing.T) {
	sh, rt, _ := setupShell(t, output.FormatCLI, false)
	execAll(t, sh, "add entity", "begin", "set n1 origin 1 2 3", "cancel")

	assert.Equal(t, 1, rt.Undo.UndoDepth())
	n, _ := rt.Scene.Find("n1")
	v, _ := n.KeyValue("origin")
	assert.Equal(t, "1 2 3", v)
}

func TestFailedCommandRecordsNothing(t *testing.T) {
	sh, rt, _ := setupShell(t, output.FormatCLI, false)
	execAll(t, sh, "add entity")

	tests := []struct {
		line string
		want error
	}{
		{"set n99 origin 0", errors.ErrNodeNotFound},
		{"add light", errors.ErrInvalidKind},
		{"add entity n1", errors.ErrInvalidKind},
		{"unset n1 classname", errors.ErrInvalidKey},
		{"unset n1 missing", errors.ErrInvalidKey},
		{"shader n1 textures/a", errors.ErrInvalidKind},
		{"remove worldspawn", errors.ErrInvalidArgument},
		{"set n1 'bad key' v", errors.ErrInvalidKey},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.ErrorIs(t, sh.Exec(tt.line), tt.want)
			assert.Equal(t, 1, rt.Undo.UndoDepth())
			assert.False(t, rt.Undo.OperationStarted())
		})
	}
}

func TestRemoveAndMove(t *testing.T) {
	sh, rt, _ := setupShell(t, output.FormatCLI, false)
	execAll(t, sh, "add entity", "add entity", "add patch n1", "move n3 n2")

	patch, err := rt.Scene.Find("n3")
	require.NoError(t, err)
	assert.Equal(t, "n2", patch.Parent().ID())

	execAll(t, sh, "undo")
	assert.Equal(t, "n1", patch.Parent().ID())

	execAll(t, sh, "remove n1")
	assert.Equal(t, 2, rt.Scene.Len())
	assert.False(t, patch.Attached())

	execAll(t, sh, "undo")
	assert.Equal(t, 4, rt.Scene.Len())
	assert.True(t, patch.Attached())
}

func TestShaderCommand(t *testing.T) {
	sh, rt, _ := setupShell(t, output.FormatCLI, false)
	execAll(t, sh, "add brush", "shader n1 textures/decals/stain")

	n, _ := rt.Scene.Find("n1")
	assert.Equal(t, "textures/decals/stain", n.Shader())

	execAll(t, sh, "undo")
	assert.Equal(t, scene.DefaultShader, n.Shader())
}

func TestClearHistory(t *testing.T) {
	sh, rt, _ := setupShell(t, output.FormatCLI, false)
	execAll(t, sh, "add entity", "add entity", "undo", "clear")

	assert.Equal(t, 0, rt.Undo.UndoDepth())
	assert.Equal(t, 0, rt.Undo.RedoDepth())
	assert.Equal(t, 2, rt.Scene.Len(), "clear keeps the scene")
}

// =============================================================================
// Levels Tests
// =============================================================================

func TestLevelsCommand(t *testing.T) {
	sh, rt, buf := setupShell(t, output.FormatCLI, false)

	execAll(t, sh, "levels")
	assert.Contains(t, buf.String(), "Undo levels: 64")

	execAll(t, sh, "levels 2", "add entity", "add entity", "add entity")
	assert.Equal(t, 2, rt.Undo.UndoDepth())
	assert.Equal(t, []string{"add entity", "add entity"}, rt.Undo.UndoNames())

	assert.ErrorIs(t, sh.Exec("levels 0"), errors.ErrInvalidUndoLevels)
	assert.ErrorIs(t, sh.Exec("levels many"), errors.ErrInvalidUndoLevels)
	assert.Equal(t, 2, rt.Config.UndoLevels())
}

// =============================================================================
// Persistence Tests
// =============================================================================

func TestSaveLoadMaps(t *testing.T) {
	sh, rt, buf := setupShell(t, output.FormatCLI, false)
	execAll(t, sh, "add entity worldspawn light", "save base", "remove n1")
	require.Equal(t, 1, rt.Scene.Len())

	execAll(t, sh, "load base")
	assert.Equal(t, 2, rt.Scene.Len())
	assert.Equal(t, 0, rt.Undo.UndoDepth())
	assert.ErrorIs(t, sh.Exec("undo"), errors.ErrNothingToUndo)

	buf.Reset()
	execAll(t, sh, "maps")
	assert.Contains(t, buf.String(), "base")

	assert.ErrorIs(t, sh.Exec("load missing"), errors.ErrMapNotFound)
	assert.ErrorIs(t, sh.Exec("save 'bad name'"), errors.ErrInvalidArgument)
}

// =============================================================================
// Output Tests
// =============================================================================

func TestEchoEvents(t *testing.T) {
	sh, _, buf := setupShell(t, output.FormatCLI, true)
	execAll(t, sh, "add entity", "undo", "redo", "clear")

	out := buf.String()
	assert.Contains(t, out, "[recorded] add entity")
	assert.Contains(t, out, "[undone] add entity")
	assert.Contains(t, out, "[redone] add entity")
	assert.Contains(t, out, "[cleared]")

	sh.Close()
	buf.Reset()
	execAll(t, sh, "add entity")
	assert.NotContains(t, buf.String(), "[recorded]")
}

func TestShowAndStatus(t *testing.T) {
	sh, _, buf := setupShell(t, output.FormatCLI, false)
	execAll(t, sh, "add entity worldspawn light", "add brush n1")

	buf.Reset()
	execAll(t, sh, "show")
	assert.Equal(t, ""+
		"worldspawn entity worldspawn\n"+
		"  n1 entity light\n"+
		"    n2 brush textures/common/caulk\n",
		buf.String())

	buf.Reset()
	execAll(t, sh, "status")
	assert.Contains(t, buf.String(), "Undo:    2 (next: add brush n1)")
}

func TestJSONOutput(t *testing.T) {
	sh, _, buf := setupShell(t, output.FormatJSON, false)
	execAll(t, sh, "add entity")

	buf.Reset()
	execAll(t, sh, "show")
	var resp output.SceneResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)

	buf.Reset()
	execAll(t, sh, "status")
	var st output.StatusResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &st))
	assert.Equal(t, 1, st.UndoDepth)
	assert.Equal(t, "add entity", st.NextUndo)
}

func TestHelpListsCommands(t *testing.T) {
	sh, _, buf := setupShell(t, output.FormatCLI, false)
	execAll(t, sh, "help")

	for _, name := range sh.Commands() {
		assert.Contains(t, buf.String(), "  "+name, "help for %s", name)
	}
}

func TestHelpJSON(t *testing.T) {
	sh, _, buf := setupShell(t, output.FormatJSON, false)
	execAll(t, sh, "help")

	var resp output.HelpResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	names := sh.Commands()
	require.Len(t, resp.Commands, len(names))
	for i, c := range resp.Commands {
		assert.Equal(t, names[i], c.Name)
		assert.NotEmpty(t, c.Usage, c.Name)
		assert.NotEmpty(t, c.Summary, c.Name)
	}
}

// =============================================================================
// Run Tests
// =============================================================================

const script = `# build a light
add entity worldspawn light
set n1 origin "0 0 64"
set n9 origin 0
set n1 light_radius 300
`

func TestRunStopsAtFirstError(t *testing.T) {
	sh, rt, buf := setupShell(t, output.FormatCLI, false)

	failures, err := sh.Run(context.Background(), strings.NewReader(script), RunOptions{Source: "light.map"})
	require.Error(t, err)
	assert.Equal(t, 1, failures)

	var lerr *LineError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 4, lerr.Line)
	assert.ErrorIs(t, err, errors.ErrNodeNotFound)
	assert.Contains(t, buf.String(), "light.map:4: node not found: 'n9'")

	n, _ := rt.Scene.Find("n1")
	_, ok := n.KeyValue("light_radius")
	assert.False(t, ok, "lines after the failure do not run")
}

func TestRunKeepGoing(t *testing.T) {
	sh, rt, _ := setupShell(t, output.FormatCLI, false)

	failures, err := sh.Run(context.Background(), strings.NewReader(script), RunOptions{KeepGoing: true})
	require.NoError(t, err)
	assert.Equal(t, 1, failures)
	assert.Equal(t, 3, rt.Undo.UndoDepth())
}

func TestRunExit(t *testing.T) {
	sh, rt, _ := setupShell(t, output.FormatCLI, false)

	_, err := sh.Run(context.Background(), strings.NewReader("add entity\nexit\nadd entity\n"), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, rt.Scene.Len())
}

func TestRunPrompt(t *testing.T) {
	sh, _, buf := setupShell(t, output.FormatCLI, false)

	_, err := sh.Run(context.Background(), strings.NewReader("levels\n"), RunOptions{Prompt: "> "})
	require.NoError(t, err)
	assert.Equal(t, "> Undo levels: 64\n> ", buf.String())
}

func TestRunCancelWhileWaitingForInput(t *testing.T) {
	sh, _, _ := setupShell(t, output.FormatCLI, false)
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := sh.Run(ctx, pr, RunOptions{Prompt: "> "})
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run kept waiting for input after cancellation")
	}
}

func TestRunReadError(t *testing.T) {
	sh, _, _ := setupShell(t, output.FormatCLI, false)
	pr, pw := io.Pipe()
	go func() {
		_, _ = pw.Write([]byte("add entity worldspawn light\n"))
		pw.CloseWithError(fmt.Errorf("disk went away"))
	}()

	failures, err := sh.Run(context.Background(), pr, RunOptions{})
	assert.Equal(t, 0, failures)
	assert.True(t, errors.IsSystemError(err))
}

func TestRunCancelledContext(t *testing.T) {
	sh, rt, _ := setupShell(t, output.FormatCLI, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sh.Run(ctx, strings.NewReader("add entity\n"), RunOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, rt.Scene.Len())
}
