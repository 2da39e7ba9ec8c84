package status

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const restartBarWidth = 12

type RenderOptions struct {
	// MaxRestarts sizes the restart budget bar for process backends.
	MaxRestarts int
}

func renderView(statuses []domain.BackendStatus, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Generation Backends"),
		s.header.Render(fmt.Sprintf("backends: %d", len(statuses))),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No backends registered."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range statuses {
		lines = append(lines, s.section.Render(renderBackend(status, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderBackend(status domain.BackendStatus, opts RenderOptions, s styles) string {
	title := s.backend.Render(string(status.Kind))
	if status.Active {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, " ", s.active.Render("(active)"))
	}

	parts := []string{title}
	if !status.Instantiated {
		parts = append(parts, s.empty.Render("not started"))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	if status.State == "" {
		parts = append(parts, s.detail.Render("stateless, ready"))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	parts = append(parts, processLines(status, opts, s)...)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func processLines(status domain.BackendStatus, opts RenderOptions, s styles) []string {
	stateStyle := lipgloss.NewStyle().Bold(true).Foreground(stateColor(status.State))
	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, s.key.Render("state:"), " ", stateStyle.Render(string(status.State))),
		s.detail.Render(fmt.Sprintf("pid: %s  pending: %d", pidLabel(status.PID), status.Pending)),
	}

	if opts.MaxRestarts > 0 {
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.key.Render("restarts:"),
			" ",
			renderProgressBar(status.Restarts, opts.MaxRestarts, restartBarWidth, s),
			" ",
			s.detail.Render(fmt.Sprintf("%d/%d", status.Restarts, opts.MaxRestarts)),
		))
	} else {
		lines = append(lines, s.detail.Render(fmt.Sprintf("restarts: %d", status.Restarts)))
	}

	if status.LastError != "" {
		lines = append(lines, s.warning.Render("last error: "+status.LastError))
	}
	return lines
}

func pidLabel(pid int) string {
	if pid <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", pid)
}

func renderProgressBar(used, budget, width int, s styles) string {
	if width <= 0 || budget <= 0 {
		return ""
	}

	fraction := float64(used) / float64(budget)
	filled := int(math.Round(float64(width) * fraction))
	filled = max(0, min(filled, width))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}
