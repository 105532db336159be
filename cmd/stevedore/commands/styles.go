package commands

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
)

var (
	colorIris  = lipgloss.Color("#5D3FD3")
	colorSlate = lipgloss.Color("#667085")

	headerStyle = lipgloss.NewStyle().
			Foreground(colorIris).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	stageDoneStyle = cellStyle.
			Foreground(lipgloss.Color("42")) // Green

	stageCachedStyle = cellStyle.
				Foreground(colorSlate).
				Faint(true)

	stageFailedStyle = cellStyle.
				Foreground(lipgloss.Color("196")) // Red
)

func statusStyle(s domain.StageStatus) lipgloss.Style {
	switch s {
	case domain.StageCached:
		return stageCachedStyle
	case domain.StageFailed:
		return stageFailedStyle
	case domain.StageBuilt:
		return stageDoneStyle
	default:
		return cellStyle
	}
}

// stageTable renders one row per stage with its status and key.
func stageTable(stages []domain.StageResult) string {
	rows := make([][]string, 0, len(stages))
	for _, s := range stages {
		rows = append(rows, []string{s.Name, string(s.Status), shortKey(s.Key.Encoded())})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorSlate)).
		Headers("STAGE", "STATUS", "KEY").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return statusStyle(stages[row].Status)
			default:
				return cellStyle
			}
		}).
		String()
}

func shortKey(k string) string {
	if len(k) > 12 {
		return k[:12]
	}
	return k
}
