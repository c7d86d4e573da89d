package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/mapundo/internal/model"
	"github.com/manav03panchal/mapundo/internal/undo"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#10B981") // Green
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorWarning   = lipgloss.Color("#F59E0B") // Yellow
	colorError     = lipgloss.Color("#EF4444") // Red
	colorSuccess   = lipgloss.Color("#10B981") // Green

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleNodeID = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleKind = lipgloss.NewStyle().
			Foreground(colorSecondary)

	styleOperation = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorWarning)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// NodeID formats a node identifier.
func (c *CLIFormatter) NodeID(id string) string {
	return c.render(styleNodeID, id)
}

// Kind formats a node kind.
func (c *CLIFormatter) Kind(kind string) string {
	return c.render(styleKind, kind)
}

// OperationName formats an undo operation name.
func (c *CLIFormatter) OperationName(name string) string {
	return c.render(styleOperation, name)
}

// PrintScene prints pre-ordered records as an indented tree.
func (c *CLIFormatter) PrintScene(name string, records []model.NodeRecord) {
	if name != "" {
		c.Title(name)
	}
	depths := recordDepths(records)
	for _, r := range records {
		indent := strings.Repeat("  ", depths[r.ID])
		c.Printf("%s%s %s %s\n", indent, c.NodeID(r.ID), c.Kind(r.Kind), RecordLabel(r))

		for _, k := range sortedKeys(r.Spawnargs) {
			if k == "classname" {
				continue
			}
			c.Printf("%s    %s\n", indent, c.render(styleMuted, fmt.Sprintf("%q %q", k, r.Spawnargs[k])))
		}
	}
}

// PrintStatus prints the undo system status.
func (c *CLIFormatter) PrintStatus(sys *undo.System) {
	st := NewStatusResponse(sys)
	c.Printf("State:   %s\n", st.State)
	c.Printf("Levels:  %d\n", st.Levels)
	c.Printf("Undo:    %d%s\n", st.UndoDepth, c.next(st.NextUndo))
	c.Printf("Redo:    %d%s\n", st.RedoDepth, c.next(st.NextRedo))
	c.Printf("Tracked: %d\n", st.Tracked)
}

func (c *CLIFormatter) next(name string) string {
	if name == "" {
		return ""
	}
	return " (next: " + c.OperationName(name) + ")"
}

// PrintEvent prints an undo engine event.
func (c *CLIFormatter) PrintEvent(e undo.Event) {
	if e.Operation == "" {
		c.Muted("[" + e.Type.String() + "]")
		return
	}
	c.Printf("%s %s\n", c.render(styleMuted, "["+e.Type.String()+"]"), c.OperationName(e.Operation))
}

// PrintMaps prints stored maps as a table.
func (c *CLIFormatter) PrintMaps(docs []*model.MapDocument) {
	if len(docs) == 0 {
		c.Muted("No saved maps.")
		return
	}
	rows := make([]TableRow, len(docs))
	for i, d := range docs {
		rows[i] = TableRow{Columns: []string{d.Name, fmt.Sprint(len(d.Nodes)), FormatTime(d.SavedAt)}}
	}
	c.PrintTable([]string{"NAME", "NODES", "SAVED"}, rows)
}

// TableRow is one row of PrintTable output.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && len(col) > widths[i] {
				widths[i] = len(col)
			}
		}
	}

	var header strings.Builder
	for i, h := range headers {
		header.WriteString(fmt.Sprintf("%-*s  ", widths[i], h))
	}
	c.Println(strings.TrimRight(c.render(styleBold, header.String()), " "))

	for _, row := range rows {
		var line strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				line.WriteString(fmt.Sprintf("%-*s  ", widths[i], col))
			}
		}
		c.Println(strings.TrimRight(line.String(), " "))
	}
}
