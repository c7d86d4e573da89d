package output

import (
	"time"

	"github.com/manav03panchal/mapundo/internal/model"
	"github.com/manav03panchal/mapundo/internal/undo"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// NodeOutput represents a scene node in JSON output.
type NodeOutput struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	Parent    string            `json:"parent,omitempty"`
	Depth     int               `json:"depth"`
	Label     string            `json:"label"`
	Spawnargs map[string]string `json:"spawnargs,omitempty"`
	Shader    string            `json:"shader,omitempty"`
}

// SceneResponse represents a scene listing in JSON.
type SceneResponse struct {
	Name  string        `json:"name,omitempty"`
	Nodes []*NodeOutput `json:"nodes"`
	Count int           `json:"count"`
}

// NewSceneResponse creates a SceneResponse from pre-ordered records.
func NewSceneResponse(name string, records []model.NodeRecord) *SceneResponse {
	depths := recordDepths(records)
	nodes := make([]*NodeOutput, len(records))
	for i, r := range records {
		nodes[i] = &NodeOutput{
			ID:        r.ID,
			Kind:      r.Kind,
			Parent:    r.Parent,
			Depth:     depths[r.ID],
			Label:     RecordLabel(r),
			Spawnargs: r.Spawnargs,
			Shader:    r.Shader,
		}
	}
	return &SceneResponse{Name: name, Nodes: nodes, Count: len(nodes)}
}

// StatusResponse represents the undo system status in JSON.
type StatusResponse struct {
	State     string `json:"state"`
	Levels    int    `json:"levels"`
	UndoDepth int    `json:"undo_depth"`
	RedoDepth int    `json:"redo_depth"`
	NextUndo  string `json:"next_undo,omitempty"`
	NextRedo  string `json:"next_redo,omitempty"`
	Tracked   int    `json:"tracked"`
}

// NewStatusResponse snapshots the state of sys.
func NewStatusResponse(sys *undo.System) *StatusResponse {
	resp := &StatusResponse{
		State:     sys.State().String(),
		Levels:    sys.Levels(),
		UndoDepth: sys.UndoDepth(),
		RedoDepth: sys.RedoDepth(),
		Tracked:   sys.TrackedCount(),
	}
	resp.NextUndo, _ = sys.UndoName()
	resp.NextRedo, _ = sys.RedoName()
	return resp
}

// EventOutput represents an undo engine event in JSON.
type EventOutput struct {
	Event     string `json:"event"`
	Operation string `json:"operation,omitempty"`
}

// NewEventOutput creates an EventOutput from an engine event.
func NewEventOutput(e undo.Event) *EventOutput {
	return &EventOutput{Event: e.Type.String(), Operation: e.Operation}
}

// MapOutput represents a stored map in JSON output.
type MapOutput struct {
	Name    string `json:"name"`
	Nodes   int    `json:"nodes"`
	SavedAt string `json:"saved_at"`
}

// MapsResponse represents the maps list output in JSON.
type MapsResponse struct {
	Maps []*MapOutput `json:"maps"`
}

// NewMapsResponse creates a MapsResponse from documents.
func NewMapsResponse(docs []*model.MapDocument) *MapsResponse {
	maps := make([]*MapOutput, len(docs))
	for i, d := range docs {
		maps[i] = &MapOutput{
			Name:    d.Name,
			Nodes:   len(d.Nodes),
			SavedAt: d.SavedAt.Format(time.RFC3339),
		}
	}
	return &MapsResponse{Maps: maps}
}

// CommandOutput describes one shell command in JSON help output.
type CommandOutput struct {
	Name    string `json:"name"`
	Usage   string `json:"usage"`
	Summary string `json:"summary"`
}

// HelpResponse represents the shell command list in JSON.
type HelpResponse struct {
	Commands []*CommandOutput `json:"commands"`
}

// MessageResponse represents a plain command result in JSON.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	Category   string `json:"category"`
	Suggestion string `json:"suggestion,omitempty"`
}

// PrintScene outputs a scene in JSON format.
func (j *JSONFormatter) PrintScene(name string, records []model.NodeRecord) error {
	return j.JSON(NewSceneResponse(name, records))
}

// PrintStatus outputs the undo status in JSON format.
func (j *JSONFormatter) PrintStatus(sys *undo.System) error {
	return j.JSON(NewStatusResponse(sys))
}

// PrintEvent outputs an engine event in JSON format.
func (j *JSONFormatter) PrintEvent(e undo.Event) error {
	return j.JSON(NewEventOutput(e))
}

// PrintMaps outputs stored maps in JSON format.
func (j *JSONFormatter) PrintMaps(docs []*model.MapDocument) error {
	return j.JSON(NewMapsResponse(docs))
}

// PrintMessage outputs a command result in JSON format.
func (j *JSONFormatter) PrintMessage(status, message string) error {
	return j.JSON(MessageResponse{Status: status, Message: message})
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(status, errMsg, category, suggestion string) error {
	return j.JSON(ErrorResponse{
		Status:     status,
		Error:      errMsg,
		Category:   category,
		Suggestion: suggestion,
	})
}
