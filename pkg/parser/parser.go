// Package parser turns one input line into a statement.
//
// Dispatch is on the first character and first word of the line: a leading '.'
// selects a meta command, otherwise the first word picks the statement grammar.
// Each statement has its own participle grammar, so arguments that do not
// match the statement shape become a syntax error rather than an unknown keyword.
package parser

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	dberror "nsql/pkg/error"
	"nsql/pkg/parser/statements"
)

// wordLexer splits a line on whitespace. Usernames and emails are free-form, so
// every non-space run is a single Word token.
var wordLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Word", Pattern: `[^\s]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// insertGrammar matches `insert <id> <username> <email>` with nothing after it.
//
//nolint:govet // participle grammar tags are not standard struct tags
type insertGrammar struct {
	Keyword  string `@"insert"`
	ID       string `@Word`
	Username string `@Word`
	Email    string `@Word`
}

// selectGrammar matches a bare `select`.
//
//nolint:govet // participle grammar tags are not standard struct tags
type selectGrammar struct {
	Keyword string `@"select"`
}

var (
	insertParser = participle.MustBuild[insertGrammar](
		participle.Lexer(wordLexer),
		participle.Elide("Whitespace"),
	)
	selectParser = participle.MustBuild[selectGrammar](
		participle.Lexer(wordLexer),
		participle.Elide("Whitespace"),
	)
)

var metaCommands = map[string]statements.StatementType{
	".exit":      statements.Exit,
	".btree":     statements.BTree,
	".constants": statements.Constants,
}

// Parser prepares input lines for execution.
type Parser struct {
}

// ParseStatement parses and validates one line.
//
// Returns:
//   - statements.Statement: an *InsertStatement, *SelectStatement or *MetaCommand
//   - error: UNRECOGNIZED_COMMAND, UNRECOGNIZED_STATEMENT, SYNTAX_ERROR, or the
//     NEGATIVE_ID / STRING_TOO_LONG validation failure of an insert
func (p *Parser) ParseStatement(line string) (statements.Statement, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, dberror.Syntax().WithContext("ParseStatement", "Parser")
	}

	if strings.HasPrefix(line, ".") {
		return p.parseMetaCommand(line)
	}

	var stmt statements.Statement
	var err error

	switch keyword := strings.Fields(line)[0]; keyword {
	case "insert":
		stmt, err = p.parseInsertStatement(line)
	case "select":
		stmt, err = p.parseSelectStatement(line)
	default:
		return nil, dberror.UnrecognizedStatement(line).WithContext("ParseStatement", "Parser")
	}
	if err != nil {
		return nil, err
	}

	if err := stmt.Validate(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// Parse is ParseStatement on a zero Parser.
func Parse(line string) (statements.Statement, error) {
	var p Parser
	return p.ParseStatement(line)
}

func (p *Parser) parseMetaCommand(line string) (statements.Statement, error) {
	stmtType, ok := metaCommands[line]
	if !ok {
		return nil, dberror.UnrecognizedCommand(line).WithContext("parseMetaCommand", "Parser")
	}
	return statements.NewMetaCommand(stmtType), nil
}

func (p *Parser) parseInsertStatement(line string) (*statements.InsertStatement, error) {
	parsed, err := insertParser.ParseString("", line)
	if err != nil {
		return nil, syntaxError("parseInsertStatement", err)
	}

	id, err := strconv.ParseInt(parsed.ID, 10, 32)
	if err != nil {
		return nil, syntaxError("parseInsertStatement", err)
	}

	return statements.NewInsertStatement(int32(id), parsed.Username, parsed.Email), nil
}

func (p *Parser) parseSelectStatement(line string) (*statements.SelectStatement, error) {
	if _, err := selectParser.ParseString("", line); err != nil {
		return nil, syntaxError("parseSelectStatement", err)
	}
	return statements.NewSelectStatement(), nil
}

func syntaxError(operation string, cause error) error {
	err := dberror.Syntax().WithContext(operation, "Parser")
	err.Cause = cause
	return err
}
