package cliutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var colorEnabled = isatty.IsTerminal(os.Stdout.Fd())

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

func render(style lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return style.Render(s)
}

func PrintHeader(title string) {
	fmt.Println(render(headerStyle, title))
	fmt.Println(render(dimStyle, strings.Repeat("─", len(title))))
}

func PrintSuccess(format string, args ...any) {
	fmt.Println(render(successStyle, "✓") + " " + fmt.Sprintf(format, args...))
}

func PrintError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, render(errorStyle, "✗")+" "+fmt.Sprintf(format, args...))
}

func PrintWarning(format string, args ...any) {
	fmt.Println(render(warningStyle, "!") + " " + fmt.Sprintf(format, args...))
}

func PrintInfo(format string, args ...any) {
	fmt.Println(render(accentStyle, "•") + " " + fmt.Sprintf(format, args...))
}

// Accent highlights identifiers and names inline.
func Accent(s string) string {
	return render(accentStyle, s)
}

func Dim(s string) string {
	return render(dimStyle, s)
}
