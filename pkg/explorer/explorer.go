// Package explorer is an interactive terminal browser for a dependency graph:
// a summary dashboard, a company table, a systemic-importance ranking and a
// failure cascade console.
package explorer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/algorithms"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
)

type view int

const (
	dashboardView view = iota
	companiesView
	rankingView
	cascadeView
	viewCount
)

var tabNames = []string{"Dashboard", "Companies", "Ranking", "Cascade"}

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "simulate failure"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter},
		{k.Up, k.Down},
		{k.Quit},
	}
}

// SimulateFunc runs a failure cascade from start.
type SimulateFunc func(g *graph.Graph, start string) (*algorithms.FailureResult, error)

// Options configures the explorer.
type Options struct {
	// Simulate defaults to algorithms.SimulateFailure with default options.
	Simulate SimulateFunc
	// TopN bounds the ranking view; 0 shows every company.
	TopN int
}

// Model is the bubbletea model.
type Model struct {
	graph    *graph.Graph
	simulate SimulateFunc
	summary  algorithms.Summary
	ranking  []algorithms.RankedNode

	currentView  view
	companies    table.Model
	cascadeInput textinput.Model
	cascade      *algorithms.FailureResult
	help         help.Model
	keys         keyMap
	width        int
	height       int
	message      string
	messageErr   bool
}

// New prepares a model for g. The summary and ranking are computed once.
func New(g *graph.Graph, opts Options) Model {
	if opts.Simulate == nil {
		opts.Simulate = func(g *graph.Graph, start string) (*algorithms.FailureResult, error) {
			return algorithms.SimulateFailure(g, start, algorithms.DefaultFailureOptions())
		}
	}

	ti := textinput.New()
	ti.Placeholder = "company id"
	ti.CharLimit = 64
	ti.Width = 40

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Company", Width: 16},
			{Title: "Economic", Width: 10},
			{Title: "Societal", Width: 10},
			{Title: "Global", Width: 10},
			{Title: "Suppliers", Width: 10},
			{Title: "Dependents", Width: 10},
		}),
		table.WithRows(companyRows(g)),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	ranking := algorithms.SystemicImportance(g, nil)
	if opts.TopN > 0 && len(ranking) > opts.TopN {
		ranking = ranking[:opts.TopN]
	}

	return Model{
		graph:        g,
		simulate:     opts.Simulate,
		summary:      algorithms.Summarize(g, 0),
		ranking:      ranking,
		currentView:  dashboardView,
		companies:    t,
		cascadeInput: ti,
		help:         help.New(),
		keys:         keys,
	}
}

func companyRows(g *graph.Graph) []table.Row {
	rows := make([]table.Row, 0, g.Len())
	for _, id := range g.NodeIDs() {
		node, _ := g.Node(id)
		out, _ := g.OutEdges(id)
		in, _ := g.InEdges(id)
		global := "-"
		if node.Weights.Global != nil {
			global = strconv.FormatFloat(*node.Weights.Global, 'f', 4, 64)
		}
		rows = append(rows, table.Row{
			id,
			strconv.FormatFloat(node.Weights.Economic, 'f', 2, 64),
			strconv.FormatFloat(node.Weights.Societal, 'f', 2, 64),
			global,
			strconv.Itoa(len(out)),
			strconv.Itoa(len(in)),
		})
	}
	return rows
}

// Run starts the explorer on the alternate screen and blocks until the user
// quits.
func Run(g *graph.Graph, opts Options) error {
	p := tea.NewProgram(New(g, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.setView((m.currentView + 1) % viewCount)
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.setView((m.currentView + viewCount - 1) % viewCount)
			return m, nil

		case key.Matches(msg, m.keys.Enter):
			switch m.currentView {
			case cascadeView:
				m.runCascade(strings.TrimSpace(m.cascadeInput.Value()))
				return m, nil
			case companiesView:
				if row := m.companies.SelectedRow(); row != nil {
					m.cascadeInput.SetValue(row[0])
					m.setView(cascadeView)
					m.runCascade(row[0])
				}
				return m, nil
			}
		}
	}

	// Update focused component
	switch m.currentView {
	case cascadeView:
		m.cascadeInput, cmd = m.cascadeInput.Update(msg)
		cmds = append(cmds, cmd)
	case companiesView:
		m.companies, cmd = m.companies.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setView(v view) {
	m.currentView = v
	if v == cascadeView {
		m.cascadeInput.Focus()
	} else {
		m.cascadeInput.Blur()
	}
}

func (m *Model) runCascade(start string) {
	if start == "" {
		m.message = "Enter a company id"
		m.messageErr = true
		return
	}

	res, err := m.simulate(m.graph, start)
	if err != nil {
		m.cascade = nil
		m.message = fmt.Sprintf("Simulation failed: %v", err)
		m.messageErr = true
		return
	}

	m.cascade = res
	m.message = fmt.Sprintf("Failure of %s impacts %d companies (total %.3f)", start, len(res.Impacted), res.TotalImpact())
	m.messageErr = false
}
