package explorer

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/algorithms"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/records"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, _, err := graph.Build(
		[]records.Company{
			{CompanyID: "A", EconomicScore: 1, SocietalScore: 1},
			{CompanyID: "B", EconomicScore: 2, SocietalScore: 1},
			{CompanyID: "C", EconomicScore: 3, SocietalScore: 4},
		},
		[]records.Asset{
			{CompanyID: "A", SupplierID: "B", OperationalReliance: 0.8},
			{CompanyID: "B", SupplierID: "C", OperationalReliance: 0.5},
		},
		graph.DefaultBuildOptions(),
	)
	require.NoError(t, err)
	return g.WithInfluence(map[string]float64{"A": 0.2, "B": 0.3, "C": 0.5})
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

var (
	tab      = tea.KeyMsg{Type: tea.KeyTab}
	shiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	enter    = tea.KeyMsg{Type: tea.KeyEnter}
	down     = tea.KeyMsg{Type: tea.KeyDown}
	size     = tea.WindowSizeMsg{Width: 120, Height: 40}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_BeforeResize(t *testing.T) {
	m := New(testGraph(t), Options{})
	assert.Equal(t, "Initializing...", m.View())
}

func TestDashboard(t *testing.T) {
	m := send(t, New(testGraph(t), Options{}), size)

	out := m.View()
	assert.Contains(t, out, "Dependency Explorer")
	assert.Contains(t, out, "Companies:     3")
	assert.Contains(t, out, "Dependencies:  2")
	assert.Contains(t, out, "Acyclic:        yes")
}

func TestTabs_Cycle(t *testing.T) {
	m := send(t, New(testGraph(t), Options{}), size)

	m = send(t, m, tab)
	assert.Equal(t, companiesView, m.currentView)
	assert.Contains(t, m.View(), "0.5000", "global scores are listed")

	m = send(t, m, tab, tab)
	assert.Equal(t, cascadeView, m.currentView)
	assert.True(t, m.cascadeInput.Focused())

	m = send(t, m, tab)
	assert.Equal(t, dashboardView, m.currentView)
	assert.False(t, m.cascadeInput.Focused())

	m = send(t, m, shiftTab)
	assert.Equal(t, cascadeView, m.currentView)
}

func TestRanking(t *testing.T) {
	m := send(t, New(testGraph(t), Options{TopN: 2}), size, tab, tab)
	require.Len(t, m.ranking, 2)

	out := m.View()
	assert.Contains(t, out, "Systemic Importance")
	assert.Contains(t, out, "1. "+m.ranking[0].NodeID)
}

func TestCascade_FromInput(t *testing.T) {
	m := send(t, New(testGraph(t), Options{}), size, shiftTab, runes("C"), enter)

	require.NotNil(t, m.cascade)
	assert.Equal(t, []string{"B", "A"}, m.cascade.Order)
	assert.False(t, m.messageErr)
	assert.Contains(t, m.message, "impacts 2 companies")
	assert.Contains(t, m.View(), "0.3500")
}

func TestCascade_Errors(t *testing.T) {
	m := send(t, New(testGraph(t), Options{}), size, shiftTab, enter)
	assert.True(t, m.messageErr)
	assert.Contains(t, m.message, "Enter a company id")

	m = send(t, m, runes("nobody"), enter)
	assert.True(t, m.messageErr)
	assert.Nil(t, m.cascade)
	assert.Contains(t, m.View(), "Simulation failed")
}

func TestCompanies_EnterSimulatesSelection(t *testing.T) {
	var started []string
	sim := func(g *graph.Graph, start string) (*algorithms.FailureResult, error) {
		started = append(started, start)
		if start == "C" {
			return nil, errors.New("boom")
		}
		return algorithms.SimulateFailure(g, start, algorithms.DefaultFailureOptions())
	}

	m := send(t, New(testGraph(t), Options{Simulate: sim}), size, tab, down, enter)

	assert.Equal(t, []string{"B"}, started)
	assert.Equal(t, cascadeView, m.currentView)
	assert.Equal(t, "B", m.cascadeInput.Value())
	require.NotNil(t, m.cascade)
	assert.Equal(t, []string{"A"}, m.cascade.Order)
}

func TestQuit(t *testing.T) {
	m := New(testGraph(t), Options{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEmptyGraph(t *testing.T) {
	m := send(t, New(graph.Empty(), Options{}), size, tab, tab)
	assert.Contains(t, m.View(), "No companies in the graph")
}
