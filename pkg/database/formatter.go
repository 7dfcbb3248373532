package database

import (
	"fmt"
	"strings"

	dberror "nsql/pkg/error"
	"nsql/pkg/row"
	"nsql/pkg/storage/btree"
)

const executedMessage = "Executed."

func formatExecuted() QueryResult {
	return QueryResult{
		Success: true,
		Lines:   []string{executedMessage},
	}
}

// formatSelect prints one "(id, username, email)" line per row, then "Executed.".
func formatSelect(rows []row.Row) QueryResult {
	lines := make([]string, 0, len(rows)+1)
	values := make([][]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, r.String())
		values = append(values, r.Values())
	}
	lines = append(lines, executedMessage)

	return QueryResult{
		Success: true,
		Columns: row.ColumnNames(),
		Rows:    values,
		Lines:   lines,
	}
}

func formatConstants(consts []btree.Constant) QueryResult {
	lines := make([]string, 0, len(consts)+1)
	lines = append(lines, "Constants:")
	for _, c := range consts {
		lines = append(lines, fmt.Sprintf("%s: %d", c.Name, c.Value))
	}
	return QueryResult{Success: true, Lines: lines}
}

func formatTree(tree string) QueryResult {
	lines := []string{"Tree:"}
	lines = append(lines, strings.Split(strings.TrimSuffix(tree, "\n"), "\n")...)
	return QueryResult{Success: true, Lines: lines}
}

func formatError(err error) QueryResult {
	return QueryResult{
		Success: false,
		Lines:   []string{dberror.UserMessage(err)},
		Err:     err,
	}
}
