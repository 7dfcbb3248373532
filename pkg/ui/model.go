package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nsql/pkg/database"
	"nsql/pkg/primitives"
	"nsql/pkg/ui/base"
)

// maxTranscriptLines bounds the scrollback kept in memory.
const maxTranscriptLines = 1000

// Model represents the application state
type Model struct {
	database    *database.Database
	queryEditor textarea.Model
	resultView  viewport.Model
	resultTable table.Model
	spinner     spinner.Model
	help        help.Model
	highlighter *StatementHighlighter

	width        int
	height       int
	executing    bool
	showHelp     bool
	lastResult   database.QueryResult
	lastError    error
	fatalErr     error
	transcript   []string
	queryHistory []string
	historyPos   int

	lastQueryTime time.Duration
	keys          keyMap
}

func NewModel(db *database.Database) Model {
	ta := textarea.New()
	ta.Placeholder = "insert 1 user1 person1@example.com"
	ta.CharLimit = 1024
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle().Background(bgLight)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(textMuted)
	ta.FocusedStyle.Text = lipgloss.NewStyle().Foreground(textPrimary)

	vp := viewport.New(80, 10)
	vp.Style = resultStyle

	t := table.New(
		table.WithColumns([]table.Column{{Title: "Results", Width: 80}}),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(primaryColor).
		BorderBottom(true).
		Bold(true).
		Foreground(primaryColor)
	s.Selected = s.Selected.
		Foreground(bgDark).
		Background(secondaryColor).
		Bold(false)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		database:     db,
		queryEditor:  ta,
		resultView:   vp,
		resultTable:  t,
		spinner:      sp,
		help:         help.New(),
		highlighter:  NewStatementHighlighter(),
		keys:         keys,
		queryHistory: make([]string, 0),
	}
}

// Err returns the fatal error that ended the session, if any.
func (m Model) Err() error {
	return m.fatalErr
}

// Transcript returns the plain lines shown in the transcript pane.
func (m Model) Transcript() []string {
	return m.transcript
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		textarea.Blink,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()

	case tea.KeyMsg:
		if m.executing {
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Execute):
			stmt := strings.TrimSpace(m.queryEditor.Value())
			if stmt != "" {
				m.executing = true
				m.queryEditor.SetValue("")
				return m, m.executeQuery(stmt)
			}
			return m, nil

		case key.Matches(msg, m.keys.Clear):
			m.queryEditor.SetValue("")
			m.lastResult = database.QueryResult{}
			m.lastError = nil
			return m, nil

		case key.Matches(msg, m.keys.ShowTree):
			m.executing = true
			return m, m.executeQuery(".btree")

		case key.Matches(msg, m.keys.ShowConsts):
			m.executing = true
			return m, m.executeQuery(".constants")

		case key.Matches(msg, m.keys.ShowStats):
			return m, m.showStatistics()

		case key.Matches(msg, m.keys.HistoryPrev):
			m.recallHistory(-1)
			return m, nil

		case key.Matches(msg, m.keys.HistoryNext):
			m.recallHistory(1)
			return m, nil

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}

	case queryResultMsg:
		m.executing = false
		m.lastQueryTime = msg.duration

		if msg.query != "" {
			m.appendTranscript(msg.query, msg.result.Lines, !msg.result.Success)
			m.queryHistory = append(m.queryHistory, msg.query)
			m.historyPos = len(m.queryHistory)
		}

		if msg.err != nil {
			m.lastError = msg.err
			m.fatalErr = msg.err
			return m, tea.Quit
		}

		m.lastResult = msg.result
		m.lastError = msg.result.Err
		if msg.result.Exit {
			return m, tea.Quit
		}
		m.updateResultDisplay()

	case spinner.TickMsg:
		if m.executing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	if !m.executing {
		var cmd tea.Cmd
		m.queryEditor, cmd = m.queryEditor.Update(msg)
		cmds = append(cmds, cmd)

		m.resultView, cmd = m.resultView.Update(msg)
		cmds = append(cmds, cmd)

		m.resultTable, cmd = m.resultTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.resultView.View())
	sections = append(sections, m.renderQueryEditor())

	switch {
	case m.executing:
		sections = append(sections, m.renderExecuting())
	case m.lastError != nil:
		sections = append(sections, m.renderError())
	case len(m.lastResult.Rows) > 0:
		sections = append(sections, m.renderResultTable())
	}

	sections = append(sections, m.renderStatusBar())

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	}

	return appStyle.Render(strings.Join(sections, "\n"))
}

func (m Model) renderHelp() string {
	helpText := m.help.FullHelpView([][]key.Binding{
		{
			m.keys.Execute,
			m.keys.Clear,
			m.keys.HistoryPrev,
			m.keys.HistoryNext,
		},
		{
			m.keys.ShowTree,
			m.keys.ShowConsts,
			m.keys.ShowStats,
			m.keys.Help,
			m.keys.Quit,
		},
	})

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(primaryColor).
		Padding(1, 2).
		Background(bgMedium).
		Render(helpText)
}

func (m Model) renderHeader() string {
	info := m.database.GetStatistics()

	title := titleStyle.Render("nSQL")
	badge := dbBadgeStyle.Render(primitives.Filepath(info.Path).Base())
	counts := lipgloss.NewStyle().
		Foreground(textSecondary).
		Render(fmt.Sprintf("Rows: %d/%d | Statements: %d | Errors: %d",
			info.RowCount, info.MaxRows, info.QueriesExecuted, info.ErrorCount))

	header := lipgloss.JoinHorizontal(
		lipgloss.Left,
		title,
		"  ",
		badge,
		"  ",
		counts,
	)

	separator := strings.Repeat("─", base.Max(m.width-4, 0))
	sepStyle := lipgloss.NewStyle().
		Foreground(bgLight).
		Render(separator)

	return header + "\n" + sepStyle
}

func (m Model) renderQueryEditor() string {
	return editorStyle.Render(m.queryEditor.View())
}

func (m Model) renderExecuting() string {
	content := lipgloss.JoinHorizontal(
		lipgloss.Left,
		m.spinner.View(),
		" Executing statement...",
	)

	return lipgloss.NewStyle().
		Foreground(primaryColor).
		Padding(1, 0).
		Render(content)
}

func (m Model) renderError() string {
	icon := errorStyle.Render(" ⚠ ERROR ")
	text := m.lastError.Error()
	if len(m.lastResult.Lines) > 0 && m.fatalErr == nil {
		text = m.lastResult.Lines[0]
	}
	message := lipgloss.NewStyle().
		Foreground(errorColor).
		Render(text)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(errorColor).
		Padding(0, 1).
		Render(fmt.Sprintf("%s %s", icon, message))
}

func (m Model) renderResultTable() string {
	columns := make([]table.Column, len(m.lastResult.Columns))
	for i, col := range m.lastResult.Columns {
		columns[i] = table.Column{
			Title: col,
			Width: m.calculateColumnWidth(col, i),
		}
	}

	rows := make([]table.Row, len(m.lastResult.Rows))
	for i, row := range m.lastResult.Rows {
		rows[i] = table.Row(row)
	}

	m.resultTable.SetColumns(columns)
	m.resultTable.SetRows(rows)

	header := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true).
		Render(fmt.Sprintf("✓ Results (%d rows in %v)", len(rows), m.lastQueryTime))

	return fmt.Sprintf("%s\n%s", header, m.resultTable.View())
}

func (m Model) renderStatusBar() string {
	status := "● Open"
	if m.database.Closed() {
		status = "○ Closed"
	}

	badge := ""
	if m.lastResult.Success {
		badge = successStyle.Render("OK") + " "
	}

	timer := ""
	if m.lastQueryTime > 0 {
		timer = fmt.Sprintf(" | Last statement: %v", m.lastQueryTime)
	}

	content := badge + lipgloss.NewStyle().
		Foreground(accentColor).
		Render(status) +
		lipgloss.NewStyle().
			Foreground(textMuted).
			Render(timer+" | Press Ctrl+H for help")

	return statusBarStyle.
		Width(base.Max(m.width-4, 0)).
		Render(content)
}

func (m Model) calculateColumnWidth(columnName string, index int) int {
	width := len(columnName) + 2
	for _, row := range m.lastResult.Rows {
		if index < len(row) {
			width = base.Max(width, len(row[index])+2)
		}
	}
	return base.Min(base.Max(width, 10), 40)
}

// updateLayout adjusts component sizes based on window size
func (m *Model) updateLayout() {
	transcriptHeight := base.Max(m.height-16, 3)

	m.queryEditor.SetWidth(base.Max(m.width-8, 10))
	m.resultView.Width = base.Max(m.width-6, 10)
	m.resultView.Height = transcriptHeight
	m.resultTable.SetHeight(base.Max(m.height/3, 3))
	m.refreshTranscript()
}

func (m *Model) updateResultDisplay() {
	if len(m.lastResult.Rows) > 0 {
		m.resultTable.Focus()
	}
}

// appendTranscript records a statement and its output the way the line REPL prints them.
func (m *Model) appendTranscript(stmt string, lines []string, rejected bool) {
	m.transcript = append(m.transcript, m.highlighter.PromptLine(stmt))
	m.transcript = append(m.transcript, styleOutput(lines, rejected)...)
	if over := len(m.transcript) - maxTranscriptLines; over > 0 {
		m.transcript = m.transcript[over:]
	}
	m.refreshTranscript()
}

func (m *Model) refreshTranscript() {
	m.resultView.SetContent(strings.Join(m.transcript, "\n"))
	m.resultView.GotoBottom()
}

// recallHistory moves through previously executed statements.
func (m *Model) recallHistory(delta int) {
	if len(m.queryHistory) == 0 {
		return
	}

	m.historyPos = base.Min(base.Max(m.historyPos+delta, 0), len(m.queryHistory))
	if m.historyPos == len(m.queryHistory) {
		m.queryEditor.SetValue("")
		return
	}
	m.queryEditor.SetValue(m.queryHistory[m.historyPos])
}

type queryResultMsg struct {
	query    string
	result   database.QueryResult
	err      error
	duration time.Duration
}

func (m Model) executeQuery(query string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		result, err := m.database.Execute(query)
		duration := time.Since(start)

		return queryResultMsg{
			query:    query,
			result:   result,
			err:      err,
			duration: duration,
		}
	}
}

// showStatistics displays session statistics
func (m Model) showStatistics() tea.Cmd {
	return func() tea.Msg {
		stats := m.database.GetStatistics()

		rows := [][]string{
			{"File", stats.Path},
			{"Rows", fmt.Sprintf("%d/%d", stats.RowCount, stats.MaxRows)},
			{"Statements Executed", fmt.Sprintf("%d", stats.QueriesExecuted)},
			{"Errors", fmt.Sprintf("%d", stats.ErrorCount)},
		}

		return queryResultMsg{
			result: database.QueryResult{
				Success: true,
				Columns: []string{"Metric", "Value"},
				Rows:    rows,
			},
		}
	}
}
