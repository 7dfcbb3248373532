package statements

import (
	"fmt"

	"nsql/pkg/row"
)

// InsertStatement is `insert <id> <username> <email>`.
type InsertStatement struct {
	BaseStatement
	ID       int32
	Username string
	Email    string
}

// NewInsertStatement creates a new INSERT statement
func NewInsertStatement(id int32, username, email string) *InsertStatement {
	return &InsertStatement{
		BaseStatement: NewBaseStatement(Insert),
		ID:            id,
		Username:      username,
		Email:         email,
	}
}

// Validate applies the row constraints: positive id, then column widths.
func (s *InsertStatement) Validate() error {
	return row.Validate(s.ID, s.Username, s.Email)
}

// Row returns the statement's values as a row.
func (s *InsertStatement) Row() row.Row {
	return row.Row{ID: s.ID, Username: s.Username, Email: s.Email}
}

func (s *InsertStatement) String() string {
	return fmt.Sprintf("insert %d %s %s", s.ID, s.Username, s.Email)
}
