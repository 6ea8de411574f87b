package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/drainline/pkg/designer"
	"github.com/matzehuels/drainline/pkg/drainage"
	"github.com/matzehuels/drainline/pkg/errors"
	projectio "github.com/matzehuels/drainline/pkg/io"
)

// Editor styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	defaultDragStep = 1.0
	minDragStep     = 0.25
	maxDragStep     = 16.0
)

// =============================================================================
// EditorModel - Interactive outlet placement
// =============================================================================

// EditorModel is the bubbletea model for moving outlets around the roof.
// Every key press goes through the designer, so the table always shows
// a recomputed snapshot.
type EditorModel struct {
	Designer *designer.Designer
	Path     string  // file written by the export key
	Cursor   int     // index of the selected outlet
	Step     float64 // drag distance in projected units
	Status   string  // last action or error
	Saved    bool
}

// NewEditorModel creates an editor over d that exports to path.
func NewEditorModel(d *designer.Designer, path string) EditorModel {
	return EditorModel{Designer: d, Path: path, Step: defaultDragStep}
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) outlets() []drainage.Outlet {
	if p := m.Designer.Snapshot().Project; p != nil {
		return p.Outlets
	}
	return nil
}

// selected returns the ID of the outlet under the cursor.
func (m EditorModel) selected() (string, bool) {
	outlets := m.outlets()
	if m.Cursor < 0 || m.Cursor >= len(outlets) {
		return "", false
	}
	return outlets[m.Cursor].ID, true
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	n := len(m.outlets())
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "n":
		if n > 0 {
			m.Cursor = (m.Cursor + 1) % n
		}
	case "shift+tab", "p":
		if n > 0 {
			m.Cursor = (m.Cursor - 1 + n) % n
		}
	case "up", "k":
		m.drag(0, -m.Step)
	case "down", "j":
		m.drag(0, m.Step)
	case "left", "h":
		m.drag(-m.Step, 0)
	case "right", "l":
		m.drag(m.Step, 0)
	case "+", "=":
		m.Step = min(m.Step*2, maxDragStep)
		m.Status = fmt.Sprintf("step %g", m.Step)
	case "-":
		m.Step = max(m.Step/2, minDragStep)
		m.Status = fmt.Sprintf("step %g", m.Step)
	case "a":
		m.add()
	case "x":
		m.remove()
	case "e":
		m.export()
	}
	return m, nil
}

func (m *EditorModel) drag(dpx, dpy float64) {
	id, ok := m.selected()
	if !ok {
		return
	}
	if err := m.Designer.DragOutlet(id, dpx, dpy); err != nil {
		m.Status = errors.UserMessage(err)
		return
	}
	m.Saved = false
	m.Status = ""
}

// add places a new outlet one pipe length past the last outlet.
func (m *EditorModel) add() {
	var x, y, z float64
	if outlets := m.outlets(); len(outlets) > 0 {
		last := outlets[len(outlets)-1]
		x, y, z = last.X+m.Designer.Limits().PipeLength, last.Y, last.Elevation
	}
	id, err := m.Designer.AddOutlet(x, y, z)
	if err != nil {
		m.Status = errors.UserMessage(err)
		return
	}
	m.Cursor = len(m.outlets()) - 1
	m.Saved = false
	m.Status = "added " + id
}

func (m *EditorModel) remove() {
	id, ok := m.selected()
	if !ok {
		return
	}
	if err := m.Designer.RemoveOutlet(id); err != nil {
		m.Status = errors.UserMessage(err)
		return
	}
	if n := len(m.outlets()); m.Cursor >= n && n > 0 {
		m.Cursor = n - 1
	}
	m.Saved = false
	m.Status = "removed " + id
}

func (m *EditorModel) export() {
	if err := projectio.WriteProjectFile(m.Designer.Snapshot().Project, m.Path); err != nil {
		m.Status = errors.UserMessage(err)
		return
	}
	m.Saved = true
	m.Status = "saved " + m.Path
}

func (m EditorModel) View() string {
	var b strings.Builder

	s := m.Designer.Snapshot()
	title := "Drainage Editor"
	if s.Project != nil {
		title += " · " + s.Project.Name
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("tab/n next  p prev  ←↑↓→ move  +/- step  a add  x remove  e save  q quit"))
	b.WriteString("\n\n")

	if s.Project == nil || len(s.Project.Outlets) == 0 {
		b.WriteString(listDimStyle.Render("  no outlets (press a to add one)"))
		b.WriteString("\n")
		b.WriteString(m.footer())
		return b.String()
	}

	b.WriteString(outletTable(s, m.Cursor).Render())
	b.WriteString("\n\n")

	if len(s.Pipes) > 0 {
		b.WriteString(pipeTable(s.Pipes).Render())
		b.WriteString("\n\n")
	}

	if v := s.Validation; v != nil {
		b.WriteString(statusStyle(v.Status).Render(string(v.Status)))
		b.WriteString("  ")
		b.WriteString(listDimStyle.Render(strings.Join(v.Messages, "; ")))
		b.WriteString("\n")
	}
	b.WriteString(m.footer())
	return b.String()
}

func (m EditorModel) footer() string {
	line := fmt.Sprintf("  step %g", m.Step)
	if m.Status != "" {
		line += "  " + m.Status
	}
	return listDimStyle.Render(line)
}

func outletTable(s designer.Snapshot, cursor int) *table.Table {
	outlets := s.Project.Outlets
	rows := make([][]string, len(outlets))
	for i, o := range outlets {
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		rows[i] = []string{
			mark,
			o.ID,
			fmt.Sprintf("%.2f", o.X),
			fmt.Sprintf("%.2f", o.Y),
			fmt.Sprintf("%.2f", o.Elevation),
			fmt.Sprintf("%.2f", o.Flow),
			string(o.Status),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Outlet", "X (m)", "Y (m)", "Elev (m)", "Flow (L/s)", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(outlets) {
				return lipgloss.NewStyle()
			}
			if col == 6 {
				return statusStyle(outlets[row].Status)
			}
			if row == cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
}

func pipeTable(pipes []drainage.Pipe) *table.Table {
	rows := make([][]string, len(pipes))
	for i, p := range pipes {
		rows[i] = []string{
			p.FromID + " → " + p.ToID,
			fmt.Sprintf("%d", p.Diameter),
			fmt.Sprintf("%.2f", p.Velocity),
			string(p.Status),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Pipe", "Ø (mm)", "v (m/s)", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			if col == 3 && row < len(pipes) {
				return statusStyle(pipes[row].Status)
			}
			return lipgloss.NewStyle()
		})
}
