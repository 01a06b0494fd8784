package application

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
)

func divider() string {
	return dividerStyle.Render(strings.Repeat("=", 60))
}

func (m Model) View() string {
	switch m.screen {
	case screenMenu:
		return m.viewMenu()
	case screenImporting:
		return m.viewImporting()
	case screenDebug:
		return m.viewDebug()
	case screenDebugRunning:
		return m.viewDebugRunning()
	case screenSummary:
		return m.viewSummary()
	}
	return ""
}

func (m Model) viewMenu() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Initial Status:") + "\n")
	b.WriteString(divider() + "\n")
	fmt.Fprintf(&b, "• Authentication: %s (Token Type: %s)\n",
		okStyle.Render("Success"), valueStyle.Render(m.tokenType))
	fmt.Fprintf(&b, "• Fields loaded: %s\n", valueStyle.Render(fmt.Sprint(len(m.fields))))
	fmt.Fprintf(&b, "• Status: %s\n", okStyle.Render("Ready to process"))
	b.WriteString(divider() + "\n\n")

	b.WriteString(titleStyle.Render("Available Operations:") + "\n")
	for i, choice := range menuChoices {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		fmt.Fprintf(&b, "%s%d. %s\n", cursor, i+1, choice)
	}

	b.WriteString("\n" + helpStyle.Render("up/down to move, enter or 1-3 to select, q to quit") + "\n")
	return b.String()
}

func (m Model) viewImporting() string {
	return fmt.Sprintf("\nImporting %s fields, one request at a time...\n",
		valueStyle.Render(fmt.Sprint(len(m.fields))))
}

func (m Model) viewDebug() string {
	f := m.fields[m.idx]
	var b strings.Builder

	b.WriteString(divider() + "\n")
	fmt.Fprintf(&b, "%s\n", titleStyle.Render(
		fmt.Sprintf("Field %d of %d", m.idx+1, len(m.fields))))
	b.WriteString(divider() + "\n\n")

	fmt.Fprintf(&b, "• Label: %s\n", valueStyle.Render(f.Label))
	fmt.Fprintf(&b, "• Name: %s\n", valueStyle.Render(f.Name))
	fmt.Fprintf(&b, "• Type: %s (%d)\n", valueStyle.Render(f.TypeID.String()), f.TypeID)
	fmt.Fprintf(&b, "• Input Type: %s\n", valueStyle.Render(fmt.Sprint(f.InputTypeID)))
	if f.Options != "" {
		fmt.Fprintf(&b, "• Options: %s\n", valueStyle.Render(f.Options))
	}

	b.WriteString("\n" + titleStyle.Render("Available actions:") + "\n")
	b.WriteString("  1. Process field\n")
	b.WriteString("  2. Skip field\n")
	b.WriteString("  3. Quit debug mode\n")
	return b.String()
}

func (m Model) viewDebugRunning() string {
	return fmt.Sprintf("\nProcessing field: %s\n", valueStyle.Render(m.fields[m.idx].Label))
}

func (m Model) viewSummary() string {
	var b strings.Builder

	b.WriteString("\n" + titleStyle.Render("Import Results Summary") + "\n")
	b.WriteString(divider() + "\n")

	for _, label := range m.report.Successes {
		fmt.Fprintf(&b, "%s %s\n", okStyle.Render("✓"), label)
	}
	for _, failure := range m.report.Failures {
		fmt.Fprintf(&b, "%s %s: %s\n", failStyle.Render("✗"), failure.Label, failure.Reason)
	}

	b.WriteString(divider() + "\n")
	fmt.Fprintf(&b, "%d succeeded, %d failed, %d attempted\n",
		len(m.report.Successes), len(m.report.Failures), m.report.Attempted())
	b.WriteString(helpStyle.Render("press q to exit") + "\n")
	return b.String()
}
