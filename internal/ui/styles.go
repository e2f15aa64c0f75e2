package ui

import "github.com/charmbracelet/lipgloss"

// Color palette. A single cyan accent keeps the diagnostic output readable
// on both dark and light terminals.
const (
	ColorCyan    = "45"  // primary accent
	ColorCyanDim = "30"  // dimmed accent for borders
	ColorGray    = "245" // secondary text
	ColorRed     = "196" // errors / issues
	ColorYellow  = "220" // warnings / suggestions
	ColorGreen   = "41"  // healthy findings
)

// Styles holds the text styles used for rendered reports and the menu.
type Styles struct {
	Header  lipgloss.Style
	Section lipgloss.Style
	Issue   lipgloss.Style
	Suggest lipgloss.Style
	OK      lipgloss.Style
	Dim     lipgloss.Style
}

// DefaultStyles returns styled components for terminal output.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorCyan)),
		Section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorCyanDim)),
		Issue:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Suggest: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		OK:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
	}
}

// NoColorStyles returns unstyled components for plain output and files.
func NoColorStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle(),
		Section: lipgloss.NewStyle(),
		Issue:   lipgloss.NewStyle(),
		Suggest: lipgloss.NewStyle(),
		OK:      lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle(),
	}
}
