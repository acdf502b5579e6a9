package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/liamwears/moviecards/internal/cards"
)

// RenderCard draws one card, front or back depending on its FaceUp flag.
func RenderCard(c cards.Card, focused bool) string {
	if !c.FaceUp {
		return renderBack(c, focused)
	}
	return renderFront(c, focused)
}

func renderFront(c cards.Card, focused bool) string {
	inner := cardWidth - 4

	// Accent band stands in for the poster
	band := lipgloss.NewStyle().
		Background(lipgloss.Color(c.Accent.From)).
		Foreground(lipgloss.Color(c.Accent.To)).
		Width(inner).
		Align(lipgloss.Center).
		Render("🎬")

	lines := []string{
		band,
		CardTitle.Render(cards.Truncate(c.Title, inner-8)) + " " + RatingStyle.Render("⭐ "+c.Rating),
	}
	if c.TitleEn != "" {
		lines = append(lines, MutedText.Render(cards.Truncate(c.TitleEn, inner)))
	}
	lines = append(lines, MutedText.Render(yearLabel(c.Year)))

	if len(c.Genres) > 0 {
		tags := make([]string, len(c.Genres))
		for i, g := range c.Genres {
			tags[i] = GenreTag.Background(lipgloss.Color(g.Color)).Render(g.Label)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, tags...))
	}
	lines = append(lines, MutedText.Width(inner).Render(c.Description))

	style := CardStyle
	if focused {
		style = FocusedCardStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func renderBack(c cards.Card, focused bool) string {
	inner := cardWidth - 4

	lines := []string{
		CardTitle.Width(inner).Align(lipgloss.Center).Render("💡 推荐理由"),
		"",
		lipgloss.NewStyle().Width(inner).Render(c.Reason),
		"",
		MutedText.Width(inner).Align(lipgloss.Center).Render(c.Title),
	}

	style := CardBackStyle
	if focused {
		style = style.BorderForeground(colorPrimary)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// RenderCards lays cards out in rows that fit width.
func RenderCards(cs []cards.Card, cursor int, focused bool, width int) string {
	if len(cs) == 0 {
		return ""
	}

	perRow := width / (cardWidth + 1)
	if perRow < 1 {
		perRow = 1
	}

	var rows []string
	for start := 0; start < len(cs); start += perRow {
		end := start + perRow
		if end > len(cs) {
			end = len(cs)
		}
		row := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			row = append(row, RenderCard(cs[i], focused && i == cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func yearLabel(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year) + "年"
}
