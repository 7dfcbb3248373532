package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nsql/pkg/ui/base"
)

var (
	palette = base.DarkPalette

	primaryColor   = palette.Primary
	secondaryColor = palette.Secondary
	accentColor    = palette.Accent
	errorColor     = palette.Error
	textMuted      = palette.Muted

	// Console surfaces, darkest first.
	bgDark   = lipgloss.Color("#0F172A")
	bgMedium = lipgloss.Color("#1E293B")
	bgLight  = lipgloss.Color("#334155")

	textPrimary   = lipgloss.Color("#F8FAFC")
	textSecondary = lipgloss.Color("#CBD5E1")
)

// Frame: header, transcript pane, editor and status bar.
var (
	appStyle = lipgloss.NewStyle().
			Background(bgDark).
			Foreground(textPrimary).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(textPrimary).
			Bold(true).
			Padding(0, 2).
			MarginBottom(1)

	dbBadgeStyle = lipgloss.NewStyle().
			Background(secondaryColor).
			Foreground(bgDark).
			Bold(true).
			Padding(0, 1).
			MarginRight(2)

	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(bgLight).
			Padding(0, 1)

	editorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(bgMedium).
			Foreground(textSecondary).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Background(accentColor).
			Foreground(bgDark).
			Bold(true).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Background(errorColor).
			Foreground(textPrimary).
			Bold(true).
			Padding(0, 1)
)

// Transcript: the prompt line and the output lines under it.
var (
	promptStyle  = lipgloss.NewStyle().Foreground(textMuted)
	keywordStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	metaStyle    = lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)
	numberStyle  = lipgloss.NewStyle().Foreground(palette.Warning)

	executedStyle = lipgloss.NewStyle().Foreground(accentColor)
	rowLineStyle  = lipgloss.NewStyle().Foreground(textPrimary)
	sectionStyle  = lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)
	dumpLineStyle = lipgloss.NewStyle().Foreground(textSecondary)
	rejectedStyle = lipgloss.NewStyle().Foreground(errorColor)
)

// styleOutput colours the output lines of one statement. A rejected
// statement prints a single message line.
func styleOutput(lines []string, rejected bool) []string {
	styled := make([]string, len(lines))
	for i, line := range lines {
		switch {
		case rejected:
			styled[i] = rejectedStyle.Render(line)
		case line == "Executed.":
			styled[i] = executedStyle.Render(line)
		case line == "Tree:" || line == "Constants:":
			styled[i] = sectionStyle.Render(line)
		case strings.HasPrefix(line, "("):
			styled[i] = rowLineStyle.Render(line)
		default:
			styled[i] = dumpLineStyle.Render(line)
		}
	}
	return styled
}
