package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func statusIcon(s Status) string {
	switch s {
	case StatusOK:
		return "✓"
	case StatusChanged:
		return "✚"
	case StatusSkipped:
		return "–"
	case StatusWarning:
		return "!"
	case StatusFailed:
		return "✗"
	}
	return "?"
}

// ColorStatus renders a status label in its color
func ColorStatus(s Status) string {
	label := fmt.Sprintf("%-8s", string(s))
	switch s {
	case StatusOK:
		return okStyle.Render(label)
	case StatusChanged:
		return changedStyle.Render(label)
	case StatusWarning:
		return warnStyle.Render(label)
	case StatusFailed:
		return failStyle.Render(label)
	}
	return dimStyle.Render(label)
}

// ColorOutcome renders the overall outcome in its color
func ColorOutcome(o Outcome) string {
	switch o {
	case OutcomeSuccess:
		return okStyle.Bold(true).Render(strings.ToUpper(string(o)))
	case OutcomeDegraded:
		return warnStyle.Bold(true).Render(strings.ToUpper(string(o)))
	}
	return failStyle.Bold(true).Render(strings.ToUpper(string(o)))
}

// ColorDim makes text dim/gray
func ColorDim(text string) string {
	return dimStyle.Render(text)
}

// Render formats the report as the end-of-run summary
func (r *Report) Render() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(r.Title+" summary") + "\n")

	width := 0
	for _, s := range r.Steps {
		if len(s.Name) > width {
			width = len(s.Name)
		}
	}
	for _, s := range r.Steps {
		line := fmt.Sprintf("  %s %-*s", ColorStatus(s.Status), width, s.Name)
		if s.Message != "" {
			line += "  " + ColorDim(s.Message)
		}
		b.WriteString(strings.TrimRight(line, " ") + "\n")
	}

	if len(r.Notes) > 0 {
		b.WriteString("\n")
		for _, n := range r.Notes {
			b.WriteString("  " + n + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Result: %s (%d changed, %d ok, %d skipped, %d warning(s), %d failed)\n",
		ColorOutcome(r.Outcome()),
		r.Count(StatusChanged), r.Count(StatusOK), r.Count(StatusSkipped),
		r.Count(StatusWarning), r.Count(StatusFailed)))

	return b.String()
}
