package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barstack/pkg/bars"
	"github.com/matzehuels/barstack/pkg/render/barchart"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorValue)
	tableHeaderStyle  = lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	tableBorderStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

// inspectCommand lays out a figure and browses its traces and bars.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		lf    layoutFlags
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [figure|-|url]",
		Short: "Browse the computed bars of a figure",
		Long: `Browse the computed bars of a figure interactively.

Each trace lists its bar layout (width, offset, stacking) and a table of
calc records and pixel rectangles. Use --plain to print every trace
without the interactive view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			opts.Source = args[0]
			lf.apply(cmd, &opts)

			runner, err := c.newRunner(cmd.Context(), lf.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			fig, err := runner.Load(cmd.Context(), opts)
			if err != nil {
				return err
			}
			scene, err := runner.Layout(cmd.Context(), fig, opts)
			if err != nil {
				return err
			}

			m := newInspectModel(scene)
			if plain || len(m.Traces) == 0 {
				fmt.Print(m.plainView())
				return nil
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	lf.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "print all traces instead of the interactive view")
	return cmd
}

// inspectEntry is one trace together with the subplot it lives on.
type inspectEntry struct {
	Subplot string
	Trace   barchart.TraceGroup
}

// inspectModel is the bubbletea model behind 'inspect'.
type inspectModel struct {
	Title   string
	BarMode string
	Traces  []inspectEntry
	Cursor  int
	Height  int
	Offset  int
}

func newInspectModel(s *barchart.Scene) inspectModel {
	m := inspectModel{Title: s.Title, BarMode: string(s.BarMode), Height: 20}
	for _, sp := range s.Subplots {
		for _, tg := range sp.Traces {
			m.Traces = append(m.Traces, inspectEntry{Subplot: sp.ID, Trace: tg})
		}
	}
	return m
}

func (m inspectModel) Init() tea.Cmd { return nil }

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k", "left", "h":
			if m.Cursor > 0 {
				m.Cursor--
			}
			m.Offset = 0
		case "down", "j", "right", "l":
			if m.Cursor < len(m.Traces)-1 {
				m.Cursor++
			}
			m.Offset = 0
		case "pgdown", " ":
			if n := len(m.current().Trace.Bars); m.Offset+m.Height < n {
				m.Offset += m.Height
			}
		case "pgup", "b":
			m.Offset = max(m.Offset-m.Height, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-len(m.Traces)-12, 5)
	}
	return m, nil
}

func (m inspectModel) current() inspectEntry {
	return m.Traces[m.Cursor]
}

func (m inspectModel) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString(StyleDim.Render("↑/↓ trace  space/b page  q quit"))
	b.WriteString("\n\n")

	for i, e := range m.Traces {
		line := fmt.Sprintf("%s  %s  %d bars", e.Trace.ID, StyleDim.Render(e.Subplot), len(e.Trace.Bars))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	e := m.current()
	end := min(m.Offset+m.Height, len(e.Trace.Bars))
	b.WriteString(traceSummary(e.Trace))
	b.WriteString(barTable(e.Trace, m.Offset, end))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  bars %d-%d of %d", min(m.Offset+1, end), end, len(e.Trace.Bars))))
	return b.String()
}

// plainView renders every trace in full.
func (m inspectModel) plainView() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	for _, e := range m.Traces {
		b.WriteString(StyleTitle.Render(e.Trace.ID) + " " + StyleDim.Render(e.Subplot) + "\n")
		b.WriteString(traceSummary(e.Trace))
		b.WriteString(barTable(e.Trace, 0, len(e.Trace.Bars)))
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m inspectModel) header() string {
	title := m.Title
	if title == "" {
		title = "figure"
	}
	return StyleTitle.Render(title) + StyleDim.Render("  barmode "+m.BarMode) + "\n"
}

func traceSummary(tg barchart.TraceGroup) string {
	l := tg.Layout
	s := fmt.Sprintf("orientation %s · width %s · offset %s · dbar %s",
		tg.Orientation, fmtNum(l.BarWidth), fmtNum(l.POffset), fmtNum(l.DBar))
	if tg.CrispEdges {
		s += " · crisp"
	}
	return StyleDim.Render(s) + "\n"
}

// barTable tabulates bars [from, to) of tg with their calc records.
func barTable(tg barchart.TraceGroup, from, to int) string {
	records := make(map[int]bars.CalcRecord, len(tg.Records))
	for _, r := range tg.Records {
		records[r.Index] = r
	}

	var rows [][]string
	for _, bar := range tg.Bars[from:to] {
		r := records[bar.Index]
		rows = append(rows, []string{
			fmt.Sprint(bar.Index),
			fmtNum(r.P), fmtNum(r.S), fmtNum(r.B), fmtNum(r.Top),
			fmt.Sprintf("%s,%s", fmtNum(bar.X0), fmtNum(bar.Y0)),
			fmt.Sprintf("%s,%s", fmtNum(bar.X1), fmtNum(bar.Y1)),
			bar.Style.Fill,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers("#", "p", "s", "base", "top", "x0,y0", "x1,y1", "fill").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if col == 7 {
				return lipgloss.NewStyle().Foreground(colorLabel)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

func fmtNum(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
