package tui

import (
	"strings"

	"github.com/akyairhashvil/integrity/internal/config"
	"github.com/akyairhashvil/integrity/internal/models"
	"github.com/akyairhashvil/integrity/internal/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func (m MainModel) View() string {
	if m.width == 0 {
		return config.LoadingText
	}
	if len(m.boards) == 0 {
		body := m.spinner.View() + " " + config.LoadingText
		if m.err != nil && !m.loading {
			body = CurrentTheme.Error.Render(FormatFetchError(m.err))
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}

	panels := m.renderPanels()
	quote := m.renderQuote()
	footer := m.renderFooter()

	used := lipgloss.Height(panels) + lipgloss.Height(quote) + lipgloss.Height(footer)
	gap := util.Clamp(m.height-used, 0, m.height)
	top := gap / 3
	middle := gap - top - gap/3

	var b strings.Builder
	b.WriteString(strings.Repeat("\n", top))
	b.WriteString(panels)
	b.WriteString(strings.Repeat("\n", middle+1))
	b.WriteString(quote)
	b.WriteString(strings.Repeat("\n", gap/3+1))
	b.WriteString(footer)
	return b.String()
}

func (m MainModel) panelWidth(n int) int {
	if n <= 0 {
		return m.width
	}
	if m.compact() {
		return util.Clamp(m.width-2, config.MinPanelWidth, m.width)
	}
	w := (m.width - config.PanelGap*(n-1)) / n
	return util.Clamp(w, config.MinPanelWidth, m.width)
}

// compact stacks panels when the terminal is narrow or side by side panels
// would fall under the minimum width.
func (m MainModel) compact() bool {
	n := len(m.boards)
	if m.width < config.CompactModeThreshold {
		return true
	}
	return n > 1 && (m.width-config.PanelGap*(n-1))/n < config.MinPanelWidth
}

func (m MainModel) renderPanels() string {
	width := m.panelWidth(len(m.boards))
	rendered := make([]string, 0, len(m.boards)*2)
	for i, board := range m.boards {
		panel := renderPanel(board, width, CurrentTheme.accent(i))
		if m.compact() {
			rendered = append(rendered, panel)
			continue
		}
		if i > 0 {
			rendered = append(rendered, strings.Repeat(" ", config.PanelGap))
		}
		rendered = append(rendered, panel)
	}
	var out string
	if m.compact() {
		out = lipgloss.JoinVertical(lipgloss.Center, rendered...)
	} else {
		out = lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, out)
}

func renderPanel(board models.Board, width int, accent lipgloss.Color) string {
	inner := width - 2
	center := lipgloss.NewStyle().Width(inner).Align(lipgloss.Center)

	name := center.Foreground(accent).Bold(true).Render(truncate(board.Person, inner))
	progress := CurrentTheme.Progress.Width(inner).Render(FormatProgress(board.Progress))
	reward := CurrentTheme.Reward.Width(inner).Foreground(accent).Render(FormatHeadline(board.Result))

	parts := []string{name, "", progress, "", reward}
	if minor := MinorRewards(board.Result, config.MaxMinorRewards); len(minor) > 0 {
		lines := make([]string, len(minor))
		for i, line := range minor {
			lines[i] = CurrentTheme.Minor.Render(truncate(line, inner))
		}
		parts = append(parts, "", lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	return lipgloss.NewStyle().
		Width(inner).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Render(lipgloss.JoinVertical(lipgloss.Center, parts...))
}

func (m MainModel) renderQuote() string {
	width := util.Clamp(m.width-8, config.MinPanelWidth, m.width)
	quote := CurrentTheme.Quote.Width(width).Render(m.quote)
	tagline := CurrentTheme.Tagline.Width(width).Render(config.Tagline)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Center, quote, tagline))
}

func (m MainModel) renderFooter() string {
	var status string
	switch {
	case m.stale:
		status = CurrentTheme.Stale.Render(m.err.Error())
	case m.err != nil:
		status = CurrentTheme.Error.Render(FormatFetchError(m.err))
	case !m.updated.IsZero():
		status = CurrentTheme.Footer.Render(FormatLastUpdated(m.updated))
	}
	if m.loading {
		status = m.spinner.View() + " " + status
	}

	left := CurrentTheme.Dim.Render(m.keys.Help() + "  v" + versionLabel())
	if m.message != "" {
		left = CurrentTheme.Highlight.Render(m.message)
	}

	space := m.width - ansi.StringWidth(left) - ansi.StringWidth(status)
	if space < 1 {
		return truncate(status, m.width)
	}
	return left + strings.Repeat(" ", space) + status
}

func truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if ansi.StringWidth(text) <= max {
		return text
	}
	return ansi.Truncate(text, max, config.TruncationSuffix)
}
