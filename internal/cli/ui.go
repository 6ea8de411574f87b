package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/drainline/pkg/drainage"
)

// =============================================================================
// Palette & Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // OK
	colorYellow = lipgloss.Color("220") // WARNING
	colorRed    = lipgloss.Color("167") // ERROR
	colorBlue   = lipgloss.Color("75")  // links, commands
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
	StyleError     = lipgloss.NewStyle().Foreground(colorRed)

	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// statusStyle returns the style for an outlet, pipe or system status.
func statusStyle(s drainage.Status) lipgloss.Style {
	switch s {
	case drainage.StatusOK:
		return StyleSuccess
	case drainage.StatusWarning:
		return StyleWarning
	case drainage.StatusError:
		return StyleError
	default:
		return StyleDim
	}
}

// =============================================================================
// Status Lines
// =============================================================================

func printLine(icon lipgloss.Style, glyph, format string, args ...any) {
	fmt.Println(icon.Render(glyph) + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { printLine(StyleSuccess, "✓", format, args...) }
func printError(format string, args ...any)   { printLine(StyleError, "✗", format, args...) }
func printWarning(format string, args ...any) { printLine(StyleWarning, "!", format, args...) }
func printInfo(format string, args ...any)    { printLine(StyleDim, "›", format, args...) }

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + styleValue.Render(value))
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Design Summaries
// =============================================================================

// printStats prints outlet and pipe counts on one line, tagged cached or
// fresh.
func printStats(outletCount, pipeCount int, cached bool) {
	tag := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if cached {
		tag = StyleSuccess.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d outlets", outletCount)),
		StyleDim.Render(fmt.Sprintf("%d pipes", pipeCount)),
		tag,
	}
	fmt.Println("  " + strings.Join(parts, sep))
}

// printValidation prints the verdict followed by each message.
func printValidation(v *drainage.ValidationResult) {
	if v == nil {
		printInfo("No outlets to validate")
		return
	}
	verdict := statusStyle(v.Status).Render(string(v.Status))
	switch v.Status {
	case drainage.StatusOK:
		printSuccess("Validation %s", verdict)
	case drainage.StatusWarning:
		printWarning("Validation %s", verdict)
	default:
		printError("Validation %s", verdict)
	}
	for _, msg := range v.Messages {
		printDetail("• %s", msg)
	}
}
