package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Color palette
	primaryColor = lipgloss.Color("#7D56F4")
	mutedColor   = lipgloss.Color("#666666")
	errorColor   = lipgloss.Color("#FF4B4B")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(22)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)
)

func render(s lipgloss.Style, text string) string {
	if noColor {
		return text
	}
	return s.Render(text)
}

func header(title string) string { return render(headerStyle, title) }

func errorLabel(text string) string { return render(errorStyle, text) }

// field formats one "label value" line of the info view.
func field(label, value string) string {
	if noColor {
		return fmt.Sprintf("%-22s%s", label, value)
	}
	return labelStyle.Render(label) + value
}
