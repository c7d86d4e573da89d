package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/logging"
	"github.com/manav03panchal/mapundo/internal/output"
	"github.com/manav03panchal/mapundo/internal/scene"
	"github.com/manav03panchal/mapundo/internal/validate"
)

func commandTable() map[string]command {
	return map[string]command{
		"begin": {
			usage:   "begin",
			summary: "start an operation",
			run:     (*Shell).begin,
		},
		"commit": {
			usage:   "commit NAME...",
			summary: "finish the operation under a name",
			minArgs: 1, maxArgs: -1,
			run: (*Shell).commit,
		},
		"cancel": {
			usage:   "cancel",
			summary: "discard the in-progress operation's records",
			run:     (*Shell).cancel,
		},
		"add": {
			usage:   "add KIND [PARENT] [CLASSNAME|SHADER]",
			summary: "insert an entity, brush or patch (default parent: worldspawn)",
			minArgs: 1, maxArgs: 3,
			mutating: true,
			run:      (*Shell).add,
		},
		"remove": {
			usage:   "remove ID",
			summary: "remove a node and its children",
			minArgs: 1, maxArgs: 1,
			mutating: true,
			run:      (*Shell).remove,
		},
		"set": {
			usage:   "set ID KEY VALUE...",
			summary: "set a spawnarg",
			minArgs: 3, maxArgs: -1,
			mutating: true,
			run:      (*Shell).set,
		},
		"unset": {
			usage:   "unset ID KEY",
			summary: "delete a spawnarg",
			minArgs: 2, maxArgs: 2,
			mutating: true,
			run:      (*Shell).unset,
		},
		"shader": {
			usage:   "shader ID NAME",
			summary: "set the shader of a brush or patch",
			minArgs: 2, maxArgs: 2,
			mutating: true,
			run:      (*Shell).shader,
		},
		"move": {
			usage:   "move ID PARENT",
			summary: "reparent a node",
			minArgs: 2, maxArgs: 2,
			mutating: true,
			run:      (*Shell).move,
		},
		"undo": {
			usage:   "undo",
			summary: "revert the last operation",
			run:     (*Shell).undo,
		},
		"redo": {
			usage:   "redo",
			summary: "re-apply the last undone operation",
			run:     (*Shell).redo,
		},
		"clear": {
			usage:   "clear",
			summary: "forget all undo and redo history",
			run:     (*Shell).clear,
		},
		"levels": {
			usage:   "levels [N]",
			summary: "show or set the undo levels",
			maxArgs: 1,
			run:     (*Shell).levels,
		},
		"show": {
			usage:   "show",
			summary: "print the scene",
			run:     (*Shell).show,
		},
		"status": {
			usage:   "status",
			summary: "print stack depths and the next undo/redo names",
			run:     (*Shell).status,
		},
		"save": {
			usage:   "save NAME",
			summary: "store the scene under a name",
			minArgs: 1, maxArgs: 1,
			run: (*Shell).save,
		},
		"load": {
			usage:   "load NAME",
			summary: "replace the scene with a stored map and clear history",
			minArgs: 1, maxArgs: 1,
			run: (*Shell).load,
		},
		"maps": {
			usage:   "maps",
			summary: "list stored maps",
			run:     (*Shell).maps,
		},
		"help": {
			usage:   "help",
			summary: "list commands",
			run:     (*Shell).help,
		},
		"exit": {
			usage:   "exit",
			summary: "leave the shell",
			run:     func(*Shell, []string) error { return ErrQuit },
		},
		"quit": {
			usage:   "quit",
			summary: "leave the shell",
			run:     func(*Shell, []string) error { return ErrQuit },
		},
	}
}

func (s *Shell) requireIdle() error {
	if s.rt.Undo.OperationStarted() {
		return errors.UserErrorFrom(errors.ErrOperationInProgress, "operation", "")
	}
	return nil
}

func (s *Shell) requireOperation() error {
	if !s.rt.Undo.OperationStarted() {
		return errors.UserErrorFrom(errors.ErrNoOperation, "operation", "")
	}
	return nil
}

func (s *Shell) begin([]string) error {
	if err := s.requireIdle(); err != nil {
		return err
	}
	s.rt.Undo.Start()
	s.note("Operation started")
	return nil
}

func (s *Shell) commit(args []string) error {
	if err := s.requireOperation(); err != nil {
		return err
	}
	name := strings.Join(args, " ")
	if err := validate.OperationName(name); err != nil {
		return err
	}
	if s.rt.Undo.Finish(name) {
		s.reply("Committed: " + name)
	} else {
		s.note("Nothing changed; operation discarded")
	}
	return nil
}

func (s *Shell) cancel([]string) error {
	if err := s.requireOperation(); err != nil {
		return err
	}
	s.rt.Undo.Cancel()
	s.note("Operation cancelled; changes made so far stay in the scene")
	return nil
}

func (s *Shell) add(args []string) error {
	kind, err := scene.ParseKind(args[0])
	if err != nil {
		return err
	}

	g := s.rt.Scene
	parent := g.Root()
	if len(args) > 1 {
		if parent, err = g.Find(args[1]); err != nil {
			return err
		}
	}

	var extra string
	if len(args) > 2 {
		extra = args[2]
	}

	var n *scene.Node
	switch kind {
	case scene.KindEntity:
		if extra != "" {
			if err := validate.SpawnargValue(extra); err != nil {
				return err
			}
		}
		n = g.NewNode(kind, extra)
	case scene.KindBrush, scene.KindPatch:
		n = g.NewNode(kind, "")
		// Detached nodes record nothing.
		if extra != "" {
			if err := n.SetShader(extra); err != nil {
				return err
			}
		}
	}

	if err := g.Insert(parent, n); err != nil {
		return err
	}
	logging.DebugLog("node added", logging.KeyNode, n.ID(), logging.KeyKind, kind.String())
	s.reply(fmt.Sprintf("Added %s %s", kind, n.ID()))
	return nil
}

func (s *Shell) remove(args []string) error {
	n, err := s.rt.Scene.Find(args[0])
	if err != nil {
		return err
	}
	if err := s.rt.Scene.Remove(n); err != nil {
		return err
	}
	logging.DebugLog("node removed", logging.KeyNode, n.ID(), logging.KeyKind, n.Kind().String())
	s.reply("Removed " + n.ID())
	return nil
}

func (s *Shell) set(args []string) error {
	n, err := s.rt.Scene.Find(args[0])
	if err != nil {
		return err
	}
	value := strings.Join(args[2:], " ")
	if err := n.SetKeyValue(args[1], value); err != nil {
		return err
	}
	s.reply(fmt.Sprintf("%s %q = %q", n.ID(), args[1], value))
	return nil
}

func (s *Shell) unset(args []string) error {
	n, err := s.rt.Scene.Find(args[0])
	if err != nil {
		return err
	}
	if n.Kind() != scene.KindEntity {
		return errors.UserErrorFrom(errors.ErrInvalidKind, "kind", n.Kind().String())
	}
	if args[1] == scene.KeyClassname {
		return errors.UserErrorFrom(errors.ErrInvalidKey, "key", args[1])
	}
	if !n.DeleteKey(args[1]) {
		err := errors.UserErrorFrom(errors.ErrInvalidKey, "key", args[1])
		err.Message = "spawnarg not set"
		return err
	}
	s.reply(fmt.Sprintf("%s %q removed", n.ID(), args[1]))
	return nil
}

func (s *Shell) shader(args []string) error {
	n, err := s.rt.Scene.Find(args[0])
	if err != nil {
		return err
	}
	if err := n.SetShader(args[1]); err != nil {
		return err
	}
	s.reply(n.ID() + " shader " + n.Shader())
	return nil
}

func (s *Shell) move(args []string) error {
	g := s.rt.Scene
	n, err := g.Find(args[0])
	if err != nil {
		return err
	}
	parent, err := g.Find(args[1])
	if err != nil {
		return err
	}
	if err := g.Reparent(n, parent); err != nil {
		return err
	}
	s.reply("Moved " + n.ID() + " under " + parent.ID())
	return nil
}

func (s *Shell) undo([]string) error {
	if err := s.requireIdle(); err != nil {
		return err
	}
	if s.rt.Undo.UndoDepth() == 0 {
		return errors.UserErrorFrom(errors.ErrNothingToUndo, "", "")
	}
	name, _ := s.rt.Undo.UndoName()
	s.rt.Undo.Undo()
	if !s.echo {
		s.reply("Undone: " + name)
	}
	return nil
}

func (s *Shell) redo([]string) error {
	if err := s.requireIdle(); err != nil {
		return err
	}
	if s.rt.Undo.RedoDepth() == 0 {
		return errors.UserErrorFrom(errors.ErrNothingToRedo, "", "")
	}
	name, _ := s.rt.Undo.RedoName()
	s.rt.Undo.Redo()
	if !s.echo {
		s.reply("Redone: " + name)
	}
	return nil
}

func (s *Shell) clear([]string) error {
	if err := s.requireIdle(); err != nil {
		return err
	}
	s.rt.Undo.Clear()
	if !s.echo {
		s.reply("History cleared")
	}
	return nil
}

func (s *Shell) levels(args []string) error {
	if len(args) == 0 {
		s.note(fmt.Sprintf("Undo levels: %d", s.rt.Config.UndoLevels()))
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.UserErrorFrom(errors.ErrInvalidUndoLevels, "levels", args[0])
	}
	if err := s.rt.Config.SetUndoLevels(n); err != nil {
		return err
	}
	s.reply(fmt.Sprintf("Undo levels set to %d", n))
	return nil
}

func (s *Shell) show([]string) error {
	records := s.rt.Scene.Export()
	if s.rt.IsJSON() {
		return s.rt.JSONFormatter().PrintScene("", records)
	}
	s.rt.CLIFormatter().PrintScene("", records)
	return nil
}

func (s *Shell) status([]string) error {
	if s.rt.IsJSON() {
		return s.rt.JSONFormatter().PrintStatus(s.rt.Undo)
	}
	s.rt.CLIFormatter().PrintStatus(s.rt.Undo)
	return nil
}

func (s *Shell) save(args []string) error {
	doc, err := s.rt.SaveMap(args[0])
	if err != nil {
		return err
	}
	s.reply(fmt.Sprintf("Saved %s (%d nodes)", doc.Name, len(doc.Nodes)))
	return nil
}

func (s *Shell) load(args []string) error {
	if err := s.requireIdle(); err != nil {
		return err
	}
	if err := s.rt.LoadMap(args[0]); err != nil {
		return err
	}
	s.reply(fmt.Sprintf("Loaded %s (%d nodes)", args[0], s.rt.Scene.Len()))
	return nil
}

func (s *Shell) maps([]string) error {
	docs, err := s.rt.MapRepo.List()
	if err != nil {
		return err
	}
	if s.rt.IsJSON() {
		return s.rt.JSONFormatter().PrintMaps(docs)
	}
	s.rt.CLIFormatter().PrintMaps(docs)
	return nil
}

func (s *Shell) help([]string) error {
	if s.rt.IsJSON() {
		names := s.Commands()
		resp := output.HelpResponse{Commands: make([]*output.CommandOutput, len(names))}
		for i, name := range names {
			cmd := s.commands[name]
			resp.Commands[i] = &output.CommandOutput{Name: name, Usage: cmd.usage, Summary: cmd.summary}
		}
		return s.rt.JSONFormatter().JSON(resp)
	}

	cli := s.rt.CLIFormatter()
	for _, name := range s.Commands() {
		cmd := s.commands[name]
		cli.Printf("  %-38s %s\n", cmd.usage, cmd.summary)
	}
	return nil
}
