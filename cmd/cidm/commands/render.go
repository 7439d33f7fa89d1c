package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/algorithms"
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

// emit prints v as indented JSON when --json is set and calls text otherwise.
func (a *app) emit(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if a.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(out)
	return nil
}

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, headingStyle.Render(title))
}

func bar(v, top float64, width int) string {
	if top <= 0 || v <= 0 {
		return ""
	}
	n := int(v / top * float64(width))
	return strings.Repeat("█", min(n, width))
}

// printRanking lists scores in rank order with a bar scaled to the leader.
func printRanking(w io.Writer, title string, ranked []algorithms.RankedNode) {
	heading(w, title)
	if len(ranked) == 0 {
		fmt.Fprintln(w, dimStyle.Render("  (no companies)"))
		return
	}
	top := ranked[0].Score
	for i, r := range ranked {
		fmt.Fprintf(w, "%4d. %-20s %10.4f  %s\n", i+1, r.NodeID, r.Score, bar(r.Score, top, 30))
	}
}

func printCascade(w io.Writer, res *algorithms.FailureResult) {
	heading(w, fmt.Sprintf("Failure of %s", res.Start))
	if len(res.Order) == 0 {
		fmt.Fprintln(w, dimStyle.Render("  no dependent crosses the impact threshold"))
	}
	for i, id := range res.Order {
		impact := res.Impacted[id]
		fmt.Fprintf(w, "%4d. %-20s %10.4f  %s\n", i+1, id, impact, bar(impact, 1, 30))
	}
	fmt.Fprintf(w, "impacted: %d  total impact: %.4f  steps: %d\n", len(res.Impacted), res.TotalImpact(), res.Steps)
	if res.Truncated {
		fmt.Fprintln(w, warnStyle.Render("step limit reached; the cascade may reach further"))
	}
}

func printSummary(w io.Writer, s algorithms.Summary) {
	heading(w, "Network")
	acyclic := "yes"
	if !s.Acyclic {
		acyclic = "no"
	}
	fmt.Fprintf(w, "  companies:      %d\n", s.Nodes)
	fmt.Fprintf(w, "  dependencies:   %d\n", s.Edges)
	fmt.Fprintf(w, "  isolated:       %d\n", s.Isolated)
	fmt.Fprintf(w, "  independent:    %d\n", s.Independent)
	fmt.Fprintf(w, "  mean reliance:  %.4f\n", s.MeanReliance)
	fmt.Fprintf(w, "  acyclic:        %s\n", acyclic)
	fmt.Fprintf(w, "  mutual groups:  %d (largest %d)\n", s.MutualGroups, s.LargestMutual)
}
