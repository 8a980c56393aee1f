package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	ColorFgPrimary = lipgloss.Color("#FFFFFF")
	ColorFgMuted   = lipgloss.Color("#8A8A99")
	ColorBorder    = lipgloss.Color("#2A2B39")
	ColorGranted   = lipgloss.Color("#4CAF50")
	ColorDanger    = lipgloss.Color("#F44336")
)

// Component styles
var (
	ConnectButtonStyle = lipgloss.NewStyle().
				Foreground(ColorFgPrimary).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(0, 2)

	DisabledButtonStyle = ConnectButtonStyle.
				Foreground(ColorFgMuted)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	GrantedPanelStyle = PanelStyle.
				BorderForeground(ColorGranted)

	AddressStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	DisconnectStyle = lipgloss.NewStyle().
			Foreground(ColorDanger)

	BalanceStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)

	GrantedBalanceStyle = lipgloss.NewStyle().
				Foreground(ColorGranted)

	ToastStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			Italic(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)
)
