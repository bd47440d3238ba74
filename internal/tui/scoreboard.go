package tui

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuisay/internal/stats"
)

const (
	boardHeight = 8
	boardWidth  = 44
)

var boardStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder(), true).
	BorderForeground(lipgloss.Color("#4A4A4A"))

func newScoreboard() table.Model {
	columns := []table.Column{
		{Title: "Word", Width: 16},
		{Title: "Tries", Width: 5},
		{Title: "Avg", Width: 5},
		{Title: "Best", Width: 4},
		{Title: "Last", Width: 4},
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#8C8C8C"))
	styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	return table.New(
		table.WithColumns(columns),
		table.WithHeight(boardHeight),
		table.WithWidth(boardWidth),
		table.WithStyles(styles),
	)
}

// scoreboardRows lists the most recently practiced word first.
func scoreboardRows(words []stats.WordStat) []table.Row {
	sorted := slices.Clone(words)
	slices.SortStableFunc(sorted, func(a, b stats.WordStat) int {
		return cmp.Compare(b.LastAttempt, a.LastAttempt)
	})
	rows := make([]table.Row, 0, len(sorted))
	for _, w := range sorted {
		rows = append(rows, table.Row{
			w.Word,
			fmt.Sprintf("%d", w.Attempts),
			fmt.Sprintf("%.1f", w.Average()),
			fmt.Sprintf("%d", w.Best),
			fmt.Sprintf("%d", w.Last),
		})
	}
	return rows
}
