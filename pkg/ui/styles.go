package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette entries are ANSI indexes so output follows the terminal scheme.
// The exported ones are shared with the browse table.
var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}
	ColorDefault = lipgloss.AdaptiveColor{Light: "7", Dark: "7"}

	colorOK     = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	colorFail   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	colorNotice = lipgloss.AdaptiveColor{Light: "6", Dark: "6"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}
	colorLabel  = lipgloss.AdaptiveColor{Light: "4", Dark: "4"}
)

var (
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StyleInfo    lipgloss.Style
	StyleWarning lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleTitle   lipgloss.Style
	StyleHeader  lipgloss.Style
	StyleBold    lipgloss.Style

	styleLabel  lipgloss.Style
	styleAction lipgloss.Style
	stylePath   lipgloss.Style
)

// IconImage marks a catalog record in titles and detail views
const IconImage = "🖼"

func init() {
	SetTheme("auto")
}

// SetTheme rebuilds the styles for "auto", "dark" or "light"
func SetTheme(theme string) {
	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}

	StyleSuccess = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
	StyleError = lipgloss.NewStyle().Foreground(colorFail).Bold(true)
	StyleInfo = lipgloss.NewStyle().Foreground(colorNotice)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
	StyleMuted = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleTitle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Underline(true)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleBold = lipgloss.NewStyle().Bold(true)

	styleLabel = lipgloss.NewStyle().Foreground(colorLabel)
	styleAction = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	stylePath = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
}

func FormatSuccess(msg string) string { return StyleSuccess.Render("✔ " + msg) }

func FormatError(msg string) string { return StyleError.Render("✘ " + msg) }

func FormatInfo(msg string) string { return StyleInfo.Render("ℹ " + msg) }

func FormatWarning(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// FormatRocket announces a long-running or browser-opening action
func FormatRocket(msg string) string { return styleAction.Render("🚀 " + msg) }

func FormatTitle(title string) string { return StyleTitle.Render(title) }

func FormatMuted(text string) string { return StyleMuted.Render(text) }

// FormatImage prefixes a stored name with the image icon
func FormatImage(name string) string {
	return styleLabel.Render(IconImage+" ") + FormatStoredName(name)
}

// FormatStoredName highlights the catalog key of a record
func FormatStoredName(name string) string { return StyleBold.Render(name) }

// FormatOriginalName renders the name a file had before import, in parens
func FormatOriginalName(name string) string { return StyleMuted.Render("(" + name + ")") }

// FormatPath renders a filesystem path in muted italics
func FormatPath(path string) string { return stylePath.Render(path) }

// FormatBar draws a horizontal bar of width cells for the stats tables
func FormatBar(width int) string {
	if width < 1 {
		width = 1
	}
	return styleLabel.Render(strings.Repeat("█", width))
}
