package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/appletgen/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusPill returns a colored indicator for a run status.
func StatusPill(status domain.RunStatus) string {
	switch status {
	case domain.RunSucceeded:
		return StyleGreen.Render("✔ succeeded")
	case domain.RunFailed:
		return StyleRed.Render("✖ failed")
	case domain.RunRunning:
		return StyleYellow.Render("● running")
	default:
		return StyleDim.Render(string(status))
	}
}

// StageBadge renders a pipeline stage, brighter the further it got.
func StageBadge(stage domain.Stage) string {
	switch {
	case stage == domain.StageIndexed:
		return StyleGreen.Render(string(stage))
	case stage.Reached(domain.StageAssembled):
		return StyleBlue.Render(string(stage))
	case stage.Index() < 0:
		return StyleDim.Render(string(stage))
	default:
		return StylePurple.Render(string(stage))
	}
}

// Header renders an upper-cased section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
