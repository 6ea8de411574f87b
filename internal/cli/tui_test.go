package cli

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/drainline/pkg/designer"
	projectio "github.com/matzehuels/drainline/pkg/io"
)

func newTestEditor(t *testing.T) EditorModel {
	t.Helper()
	d, err := designer.New(designer.WithIDGenerator(designer.CounterIDs()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.CreateProject("Roof", 100, 500); err != nil {
		t.Fatal(err)
	}
	for _, x := range []float64{0, 10} {
		if _, err := d.AddOutlet(x, 0, 0); err != nil {
			t.Fatal(err)
		}
	}
	return NewEditorModel(d, filepath.Join(t.TempDir(), "roof.toml"))
}

func press(m EditorModel, keys ...tea.KeyMsg) (EditorModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(EditorModel)
	}
	return m, cmd
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEditorCursor(t *testing.T) {
	m := newTestEditor(t)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Cursor != 1 {
		t.Errorf("after tab cursor = %d, want 1", m.Cursor)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Cursor != 0 {
		t.Errorf("tab should wrap, cursor = %d", m.Cursor)
	}
	m, _ = press(m, runeKey("p"))
	if m.Cursor != 1 {
		t.Errorf("after p cursor = %d, want 1", m.Cursor)
	}
}

func TestEditorDrag(t *testing.T) {
	m := newTestEditor(t)

	// One projected step right is half a metre along x and against y.
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	o := m.Designer.Snapshot().Project.Outlets[0]
	if o.X != 0.5 || o.Y != -0.5 {
		t.Errorf("after right outlet = (%g, %g), want (0.5, -0.5)", o.X, o.Y)
	}

	m, _ = press(m, runeKey("+"), tea.KeyMsg{Type: tea.KeyDown})
	if m.Step != 2 {
		t.Fatalf("step = %g, want 2", m.Step)
	}
	o = m.Designer.Snapshot().Project.Outlets[0]
	if o.X != 2.5 || o.Y != 1.5 {
		t.Errorf("after down outlet = (%g, %g), want (2.5, 1.5)", o.X, o.Y)
	}
}

func TestEditorStepBounds(t *testing.T) {
	m := newTestEditor(t)
	for range 10 {
		m, _ = press(m, runeKey("-"))
	}
	if m.Step != minDragStep {
		t.Errorf("step = %g, want %g", m.Step, minDragStep)
	}
	for range 10 {
		m, _ = press(m, runeKey("+"))
	}
	if m.Step != maxDragStep {
		t.Errorf("step = %g, want %g", m.Step, maxDragStep)
	}
}

func TestEditorAddRemove(t *testing.T) {
	m := newTestEditor(t)

	m, _ = press(m, runeKey("a"))
	outlets := m.Designer.Snapshot().Project.Outlets
	if len(outlets) != 3 || m.Cursor != 2 {
		t.Fatalf("after add: %d outlets, cursor %d", len(outlets), m.Cursor)
	}
	if want := 10 + m.Designer.Limits().PipeLength; outlets[2].X != want {
		t.Errorf("new outlet x = %g, want %g", outlets[2].X, want)
	}

	m, _ = press(m, runeKey("x"))
	if n := len(m.Designer.Snapshot().Project.Outlets); n != 2 || m.Cursor != 1 {
		t.Errorf("after remove: %d outlets, cursor %d", n, m.Cursor)
	}
	if !strings.HasPrefix(m.Status, "removed ") {
		t.Errorf("status = %q", m.Status)
	}
}

func TestEditorExport(t *testing.T) {
	m := newTestEditor(t)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight}, runeKey("e"))
	if !m.Saved {
		t.Fatalf("not saved: %s", m.Status)
	}

	p, err := projectio.ReadProjectFile(m.Path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Roof" || len(p.Outlets) != 2 || p.Outlets[0].X != 0.5 {
		t.Errorf("exported %+v", p)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.Saved {
		t.Error("edit after save should clear Saved")
	}
}

func TestEditorQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runeKey("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		if _, cmd := press(newTestEditor(t), k); cmd == nil {
			t.Errorf("%s did not quit", k)
		}
	}
}

func TestEditorView(t *testing.T) {
	m := newTestEditor(t)
	view := m.View()
	for _, want := range []string{"Drainage Editor · Roof", "outlet-1", "outlet-2", "step 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	d, _ := designer.New()
	empty := NewEditorModel(d, "x.toml").View()
	if !strings.Contains(empty, "no outlets") {
		t.Errorf("empty view = %q", empty)
	}
}

func TestEditorNoSelection(t *testing.T) {
	d, _ := designer.New()
	m := NewEditorModel(d, "x.toml")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight}, runeKey("x"), tea.KeyMsg{Type: tea.KeyTab})
	if m.Status != "" || m.Cursor != 0 {
		t.Errorf("status=%q cursor=%d", m.Status, m.Cursor)
	}

	// Adding without a project reports the designer's error.
	m, _ = press(m, runeKey("a"))
	if m.Status == "" {
		t.Error("add without project should set a status")
	}
}
