package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// output receives all user-facing lines. Logs go to the logger instead.
var output io.Writer = os.Stdout

// =============================================================================
// Palette and Styles
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleLink    = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue   = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)

	styleHeader  = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	styleCurrent = lipgloss.NewStyle().Foreground(colorOK)
	styleCommand = lipgloss.NewStyle().Foreground(colorLink)
	styleKey     = lipgloss.NewStyle().Foreground(colorMuted).Width(14)
)

const (
	iconArrow   = "→"
	iconCurrent = "●"
)

// mark is the colored glyph leading a status line.
type mark struct {
	icon  string
	style lipgloss.Style
}

var (
	markSuccess = mark{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	markError   = mark{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	markWarning = mark{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	markInfo    = mark{"›", lipgloss.NewStyle().Foreground(colorMuted)}
)

// =============================================================================
// Status Output
// =============================================================================

func printStatus(m mark, text string) {
	fmt.Fprintln(output, m.style.Render(m.icon)+" "+text)
}

func printSuccess(format string, args ...any) { printStatus(markSuccess, fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { printStatus(markError, fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { printStatus(markInfo, fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	printStatus(markWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(output, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file path.
func printFile(path string) {
	fmt.Fprintln(output, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Fprintln(output, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(output, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Tables
// =============================================================================

// printTable renders rows under headers. Rows whose index is in highlight
// are drawn in the "current" color.
func printTable(headers []string, rows [][]string, highlight func(row int) bool) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			if highlight != nil && highlight(row) {
				return s.Inherit(styleCurrent)
			}
			return s
		})
	fmt.Fprintln(output, t.Render())
}
