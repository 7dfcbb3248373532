package ui

import (
	"strings"

	"nsql/pkg/repl"
)

var (
	keywords     = []string{"insert", "select"}
	metaCommands = []string{".exit", ".btree", ".constants"}
)

// StatementHighlighter colours statements in the transcript pane.
type StatementHighlighter struct {
	keywords     map[string]bool
	metaCommands map[string]bool
}

func NewStatementHighlighter() *StatementHighlighter {
	h := &StatementHighlighter{
		keywords:     make(map[string]bool),
		metaCommands: make(map[string]bool),
	}

	for _, kw := range keywords {
		h.keywords[kw] = true
	}
	for _, mc := range metaCommands {
		h.metaCommands[mc] = true
	}
	return h
}

// Highlight renders one statement. Only the first word can be a keyword;
// an insert's username may be the word "select".
func (h *StatementHighlighter) Highlight(stmt string) string {
	words := strings.Fields(stmt)
	highlighted := make([]string, 0, len(words))

	for i, word := range words {
		switch {
		case i == 0 && h.keywords[word]:
			highlighted = append(highlighted, keywordStyle.Render(word))
		case i == 0 && h.metaCommands[word]:
			highlighted = append(highlighted, metaStyle.Render(word))
		case isNumeric(word):
			highlighted = append(highlighted, numberStyle.Render(word))
		default:
			highlighted = append(highlighted, word)
		}
	}

	return strings.Join(highlighted, " ")
}

// PromptLine renders the prompt followed by the highlighted statement.
func (h *StatementHighlighter) PromptLine(stmt string) string {
	return promptStyle.Render(repl.Prompt) + h.Highlight(stmt)
}

// isNumeric checks if a string is an optionally signed integer
func isNumeric(s string) bool {
	s = strings.TrimPrefix(s, "-")
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
