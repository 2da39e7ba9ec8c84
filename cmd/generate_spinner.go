package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type generateDoneMsg struct {
	err error
}

type generateSpinnerModel struct {
	spinner  spinner.Model
	label    string
	generate tea.Cmd
	err      error
	done     bool
}

func newGenerateSpinnerModel(label string, generate tea.Cmd) generateSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("42"))),
	)

	return generateSpinnerModel{
		spinner:  s,
		label:    label,
		generate: generate,
	}
}

func (m generateSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.generate)
}

func (m generateSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case generateDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m generateSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

func runGenerateSpinner(ctx context.Context, output io.Writer, label string, generate func(context.Context) error) error {
	generateCmd := func() tea.Msg {
		return generateDoneMsg{err: generate(ctx)}
	}

	p := tea.NewProgram(
		newGenerateSpinnerModel(label, generateCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(generateSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}

// withSpinner runs generate behind a spinner on stderr when stderr is a
// terminal, and plainly otherwise.
func withSpinner(cmd *cobra.Command, label string, generate func(context.Context) error) error {
	if !isTerminal(cmd.ErrOrStderr()) {
		return generate(cmd.Context())
	}
	return runGenerateSpinner(cmd.Context(), cmd.ErrOrStderr(), label, generate)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
