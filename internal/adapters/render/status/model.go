package status

import (
	"errors"
	"io"
	"slices"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	statuses []domain.BackendStatus
	opts     RenderOptions
	styles   styles
	output   string
}

func newModel(statuses []domain.BackendStatus, opts RenderOptions) model {
	return model{
		statuses: activeFirst(statuses),
		opts:     opts,
		styles:   newStyles(),
	}
}

// activeFirst returns a copy of statuses with the active backend leading and
// the rest in registry order.
func activeFirst(statuses []domain.BackendStatus) []domain.BackendStatus {
	ordered := slices.Clone(statuses)
	slices.SortStableFunc(ordered, func(a, b domain.BackendStatus) int {
		switch {
		case a.Active == b.Active:
			return 0
		case a.Active:
			return -1
		default:
			return 1
		}
	})
	return ordered
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.statuses, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render draws the backend status table once and returns it.
func Render(statuses []domain.BackendStatus, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(statuses, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
