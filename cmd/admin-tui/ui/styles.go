package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Dashboard palette
	Primary   = lipgloss.Color("#7C3AED") // violet
	Secondary = lipgloss.Color("#A78BFA") // light violet
	Accent    = lipgloss.Color("#F59E0B") // amber
	Success   = lipgloss.Color("#34D399") // emerald
	Warning   = lipgloss.Color("#FBBF24") // yellow
	Danger    = lipgloss.Color("#F87171") // soft red
	Muted     = lipgloss.Color("#6B7280") // gray
	Text      = lipgloss.Color("#F3F4F6") // near-white
	BgDark    = lipgloss.Color("#111827") // slate
	BgLight   = lipgloss.Color("#1F2937") // lighter slate

	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Padding(0, 1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2).
			MarginTop(1)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(Accent).
				Bold(true)

	RowStyle = lipgloss.NewStyle().
			Foreground(Text)

	HeaderRowStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	InputStyle = lipgloss.NewStyle().
			Foreground(Text).
			Border(lipgloss.NormalBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(Text).
				Border(lipgloss.NormalBorder()).
				BorderForeground(Accent).
				Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Width(14)

	FieldErrorStyle = lipgloss.NewStyle().
			Foreground(Danger)

	FooterStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Background(BgDark).
			Padding(0, 2)

	StatusBarStyle = lipgloss.NewStyle().
			Width(100).
			Align(lipgloss.Left).
			Background(BgDark).
			Padding(0, 2)

	ToastSuccessStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Success).
				Foreground(Success).
				Padding(0, 2)

	ToastErrorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Danger).
			Foreground(Danger).
			Padding(0, 2)

	StaleStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Italic(true)
)

func centered(width int, content string) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(content)
}
