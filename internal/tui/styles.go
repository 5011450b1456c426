package tui

import "github.com/charmbracelet/lipgloss"

// Static styles for the board and status lines
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	BoardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262"))

	HeadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	BodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4"))

	FoodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	EmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3A3A3A"))

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	GameOverStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// Cell glyphs, two columns wide so cells look square in most terminals.
const (
	headGlyph  = "██"
	bodyGlyph  = "▓▓"
	foodGlyph  = "◆ "
	emptyGlyph = "· "
)
