package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for status indication, defined as ANSI codes for broad
// terminal compatibility.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// GradientColors is the cycle used by the animated spinner
// (pink -> purple -> cyan -> green).
var GradientColors = []lipgloss.Color{
	"#FF6AC1",
	"#B084EB",
	"#57C7FF",
	"#5AF78E",
}
