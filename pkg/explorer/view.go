package explorer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Critical Infrastructure Dependency Explorer"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case dashboardView:
		s.WriteString(m.renderDashboard())
	case companiesView:
		s.WriteString(m.renderCompanies())
	case rankingView:
		s.WriteString(m.renderRanking())
	case cascadeView:
		s.WriteString(m.renderCascade())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m Model) renderTabs() string {
	var renderedTabs []string

	for i, tab := range tabNames {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m Model) renderDashboard() string {
	sum := m.summary

	network := fmt.Sprintf(`Network
───────────────
Companies:     %d
Dependencies:  %d
Isolated:      %d
Independent:   %d
Mean reliance: %.3f`,
		sum.Nodes,
		sum.Edges,
		sum.Isolated,
		sum.Independent,
		sum.MeanReliance,
	)

	acyclic := "yes"
	if !sum.Acyclic {
		acyclic = "no"
	}
	structure := fmt.Sprintf(`Structure
───────────────
Acyclic:        %s
Mutual groups:  %d
Largest group:  %d`,
		acyclic,
		sum.MutualGroups,
		sum.LargestMutual,
	)

	return contentStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top,
			statsBoxStyle.Render(network),
			statsBoxStyle.Render(structure)),
	)
}

func (m Model) renderCompanies() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Companies"))
	s.WriteString("\n\n")
	s.WriteString(m.companies.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Navigate with ↑/↓ • enter simulates the selected company's failure"))

	return contentStyle.Render(s.String())
}

func (m Model) renderRanking() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Systemic Importance"))
	s.WriteString("\n\n")

	if len(m.ranking) == 0 {
		s.WriteString(helpStyle.Render("No companies in the graph"))
		return contentStyle.Render(s.String())
	}

	top := m.ranking[0].Score
	for i, r := range m.ranking {
		width := 0
		if top > 0 {
			width = int(r.Score / top * 40)
		}
		fmt.Fprintf(&s, "%3d. %-16s %.4f %s\n", i+1, r.NodeID, r.Score, strings.Repeat("█", width))
	}

	return contentStyle.Render(s.String())
}

func (m Model) renderCascade() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Failure Cascade"))
	s.WriteString("\n\n")
	s.WriteString("Company to fail:\n\n")
	s.WriteString(m.cascadeInput.View())
	s.WriteString("\n\n")

	if m.cascade == nil {
		return contentStyle.Render(s.String())
	}

	if len(m.cascade.Order) == 0 {
		s.WriteString("No dependent crosses the impact threshold.\n")
	}
	for i, id := range m.cascade.Order {
		impact := m.cascade.Impacted[id]
		fmt.Fprintf(&s, "%3d. %-16s %.4f %s\n", i+1, id, impact, strings.Repeat("▇", int(impact*40)))
	}
	if m.cascade.Truncated {
		s.WriteString(errorStyle.Render("Step limit reached; the cascade may reach further."))
		s.WriteString("\n")
	}

	return contentStyle.Render(s.String())
}
