// Package application provides the interactive terminal frontend: a small
// menu for choosing the run mode, a field-by-field debug mode, and the final
// import summary. All submission logic lives in the importer package; this
// package only drives it and renders outcomes.
package application

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"fieldimport/internal/auth"
	"fieldimport/internal/field"
	"fieldimport/internal/importer"
)

type screen int

const (
	screenMenu screen = iota
	screenImporting
	screenDebug
	screenDebugRunning
	screenSummary
)

// menuChoices are the run modes, in display order.
var menuChoices = []string{
	"Import all fields",
	"Debug mode (field by field)",
	"Quit",
}

// importDoneMsg carries the full report after an "import all" run.
type importDoneMsg struct {
	report importer.Report
	err    error
}

// fieldResultMsg carries one submission outcome in debug mode.
type fieldResultMsg struct {
	label string
	err   error
}

// Model is the bubbletea model for the whole session.
type Model struct {
	fields    []field.Field
	pipeline  *importer.Pipeline
	tokenType string

	screen screen
	cursor int
	idx    int // current field in debug mode

	report importer.Report
	fatal  error
}

// New creates the initial model. tokenType is shown in the status panel as
// evidence that pre-flight authentication succeeded.
func New(fields []field.Field, pipeline *importer.Pipeline, tokenType string) Model {
	return Model{
		fields:    fields,
		pipeline:  pipeline,
		tokenType: tokenType,
	}
}

// Report returns the outcomes accumulated so far.
func (m Model) Report() importer.Report { return m.report }

// Err returns the fatal error that ended the session, if any.
func (m Model) Err() error { return m.fatal }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenMenu:
			return m.updateMenu(msg)
		case screenDebug:
			return m.updateDebug(msg)
		case screenSummary:
			switch msg.String() {
			case "q", "enter", "esc":
				return m, tea.Quit
			}
		}
		return m, nil

	case importDoneMsg:
		m.report = msg.report
		m.fatal = msg.err
		if m.fatal != nil {
			return m, tea.Quit
		}
		m.screen = screenSummary
		return m, nil

	case fieldResultMsg:
		if msg.err != nil {
			if auth.IsInvalidCredentials(msg.err) {
				m.fatal = msg.err
				return m, tea.Quit
			}
			m.report.Failures = append(m.report.Failures, importer.Failure{
				Label:  msg.label,
				Reason: msg.err.Error(),
			})
		} else {
			m.report.Successes = append(m.report.Successes, msg.label)
		}
		return m.advanceDebug()
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuChoices)-1 {
			m.cursor++
		}
	case "1", "2", "3":
		m.cursor = int(msg.String()[0] - '1')
		return m.selectMenu()
	case "enter":
		return m.selectMenu()
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) selectMenu() (tea.Model, tea.Cmd) {
	switch m.cursor {
	case 0:
		m.screen = screenImporting
		return m, m.runImport()
	case 1:
		if len(m.fields) == 0 {
			m.screen = screenSummary
			return m, nil
		}
		m.screen = screenDebug
		m.idx = 0
		return m, nil
	default:
		return m, tea.Quit
	}
}

func (m Model) updateDebug(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "1", "p":
		m.screen = screenDebugRunning
		return m, m.submitField(m.idx)
	case "2", "s":
		return m.advanceDebug()
	case "3", "q", "esc":
		m.screen = screenSummary
	}
	return m, nil
}

// advanceDebug moves to the next field, or to the summary after the last.
func (m Model) advanceDebug() (tea.Model, tea.Cmd) {
	m.idx++
	if m.idx >= len(m.fields) {
		m.screen = screenSummary
	} else {
		m.screen = screenDebug
	}
	return m, nil
}

// runImport submits every field in order and reports back once.
func (m Model) runImport() tea.Cmd {
	pipeline, fields := m.pipeline, m.fields
	return func() tea.Msg {
		report, err := pipeline.Run(context.Background(), fields)
		return importDoneMsg{report: report, err: err}
	}
}

// submitField submits the single field at index i.
func (m Model) submitField(i int) tea.Cmd {
	pipeline, f := m.pipeline, m.fields[i]
	return func() tea.Msg {
		return fieldResultMsg{label: f.Label, err: pipeline.Submit(context.Background(), f)}
	}
}

// Run drives the interactive session to completion and returns the final
// report plus any fatal error (rejected credentials end the session early).
func Run(fields []field.Field, pipeline *importer.Pipeline, tokenType string) (importer.Report, error) {
	program := tea.NewProgram(New(fields, pipeline, tokenType))

	final, err := program.Run()
	if err != nil {
		return importer.Report{}, fmt.Errorf("terminal session: %w", err)
	}

	m := final.(Model)
	return m.Report(), m.Err()
}
