package status

import (
	"fmt"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

func RenderRecommendations(set domain.RecommendationSet) string {
	s := newStyles()
	sections := []struct {
		title string
		items []string
	}{
		{title: "Exercise", items: set.Exercise},
		{title: "Diet", items: set.Diet},
		{title: "Health", items: set.Health},
	}

	blocks := []string{s.title.Render("Recommendations")}
	for _, section := range sections {
		lines := []string{s.backend.Render(section.title)}
		for i, item := range section.items {
			lines = append(lines, lipgloss.JoinHorizontal(
				lipgloss.Top,
				s.bullet.Render(fmt.Sprintf("%d.", i+1)),
				" ",
				s.detail.Render(item),
			))
		}
		blocks = append(blocks, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}
