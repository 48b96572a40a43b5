package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/reel/internal/storage"
	"github.com/pders01/reel/internal/tmdb"
)

const (
	cardWidth  = 26
	cardHeight = 4 // border + title + meta + border
)

// renderHeader returns a consistently styled header with an optional muted subtitle.
// Width is used to guide truncation via helpers.
func renderHeader(title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateEnd(subtitle, width-2)
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded bordered container around a rendered input view.
func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

// renderCentered centers the provided content within the given width/height box.
func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// renderMuted renders text in muted color (utility wrapper).
func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

// renderTrending draws the numbered trending list, one entry per line.
func renderTrending(entries []storage.TrendingEntry, width int) string {
	if len(entries) == 0 {
		return ""
	}

	rows := []string{SectionStyle.Render(MsgTrending)}
	for i, e := range entries {
		label := e.Title
		if label == "" {
			label = e.Query
		}
		rank := TrendingRankStyle.Render(fmt.Sprintf("%2d.", i+1))
		detail := MsgSearchCount(e.Count)
		if e.Title != "" && !strings.EqualFold(e.Title, e.Query) {
			detail = fmt.Sprintf("%q • %s", e.Query, detail)
		}

		line := fmt.Sprintf("%s %s  %s", rank, TrendingTitleStyle.Render(truncateEnd(label, width/2)), renderMuted(detail))
		if e.PosterURL != "" {
			remaining := width - lipgloss.Width(line) - 3
			if remaining > 12 {
				line += "  " + renderMuted(truncateMiddle(e.PosterURL, remaining))
			}
		}
		rows = append(rows, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// movieMeta is the "★ rating • lang • year" line of a card.
func movieMeta(m tmdb.Movie) string {
	lang := strings.ToUpper(m.OriginalLanguage)
	if lang == "" {
		lang = "N/A"
	}
	return fmt.Sprintf("★ %s • %s • %s", m.Rating(), lang, m.Year())
}

func renderCard(m tmdb.Movie, selected bool) string {
	title := m.Title
	if title == "" {
		title = "Untitled"
	}

	style := CardStyle
	if selected {
		style = SelectedCardStyle
	}

	inner := cardWidth - 4
	return style.Width(cardWidth - 2).Render(lipgloss.JoinVertical(
		lipgloss.Left,
		CardTitleStyle.Render(truncateEnd(title, inner)),
		CardMetaStyle.Render(truncateEnd(movieMeta(m), inner)),
	))
}

// gridColumns is how many cards fit next to each other in width.
func gridColumns(width int) int {
	cols := width / cardWidth
	if cols < 1 {
		return 1
	}
	return cols
}

// renderGrid lays out cards row by row, showing at most maxRows rows and
// scrolling so the selected card stays visible. selected < 0 highlights none.
func renderGrid(movies []tmdb.Movie, selected, width, maxRows int) string {
	cols := gridColumns(width)
	if maxRows < 1 {
		maxRows = 1
	}

	totalRows := (len(movies) + cols - 1) / cols
	first := 0
	if selected >= 0 {
		selRow := selected / cols
		if selRow >= maxRows {
			first = selRow - maxRows + 1
		}
	}
	last := first + maxRows
	if last > totalRows {
		last = totalRows
	}

	var rows []string
	for r := first; r < last; r++ {
		var cards []string
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= len(movies) {
				break
			}
			cards = append(cards, renderCard(movies[i], i == selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
