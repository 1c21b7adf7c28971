package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/barstack/pkg/chart"
	"github.com/matzehuels/barstack/pkg/render/barchart"
)

func inspectScene(t *testing.T) *barchart.Scene {
	t.Helper()
	fig := &chart.Figure{
		Traces: []chart.Trace{
			{ID: "north", X: []any{"q1", "q2", "q3"}, Y: []any{2.0, 3.0, 1.0}},
			{ID: "south", X: []any{"q1", "q2", "q3"}, Y: []any{1.0, 1.0, 4.0}},
		},
		Layout: chart.Layout{BarMode: chart.BarModeStack, Title: "Sales"},
	}
	scene, err := barchart.Build(fig, barchart.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return scene
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInspectModelNavigation(t *testing.T) {
	var m tea.Model = newInspectModel(inspectScene(t))

	tests := []struct {
		key  string
		want int
	}{
		{"up", 0},
		{"down", 1},
		{"down", 1},
		{"k", 0},
		{"j", 1},
	}
	for _, tt := range tests {
		m, _ = m.Update(key(tt.key))
		if got := m.(inspectModel).Cursor; got != tt.want {
			t.Fatalf("after %q cursor = %d, want %d", tt.key, got, tt.want)
		}
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestInspectModelView(t *testing.T) {
	m := newInspectModel(inspectScene(t))
	m.Cursor = 1

	view := m.View()
	for _, want := range []string{"Sales", "barmode stack", "north", "▸ south", "crisp", "bars 1-3 of 3"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestInspectPlainView(t *testing.T) {
	out := newInspectModel(inspectScene(t)).plainView()
	for _, want := range []string{"north", "south", "base", "x0,y0"} {
		if !strings.Contains(out, want) {
			t.Errorf("plainView missing %q", want)
		}
	}
}

func TestFmtNum(t *testing.T) {
	tests := map[float64]string{0: "0", 1.5: "1.5", 2.25: "2.25", 3.333: "3.33", -4: "-4", 10: "10"}
	for in, want := range tests {
		if got := fmtNum(in); got != want {
			t.Errorf("fmtNum(%v) = %q, want %q", in, got, want)
		}
	}
}
