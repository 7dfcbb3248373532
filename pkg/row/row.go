// Package row implements the fixed-width binary encoding of the table's only
// schema: (id INT, username VARCHAR(32), email VARCHAR(255)).
//
// Every row encodes to exactly RowSize bytes no matter how long its text is:
//
//	| id (4, little-endian) | username (33, zero padded) | email (256, zero padded) |
//
// Text slots are one byte wider than the column so a short value is always
// followed by a zero byte. A value that fills the column exactly still decodes
// correctly because decoding stops at the slot width as well as at the first zero.
package row

import (
	"fmt"

	dberror "nsql/pkg/error"
)

// Column limits, in bytes.
const (
	ColumnUsernameSize = 32
	ColumnEmailSize    = 255
)

// Encoded layout.
const (
	IDSize         = 4
	UsernameSize   = ColumnUsernameSize + 1
	EmailSize      = ColumnEmailSize + 1
	IDOffset       = 0
	UsernameOffset = IDOffset + IDSize
	EmailOffset    = UsernameOffset + UsernameSize
	RowSize        = IDSize + UsernameSize + EmailSize
)

// Row is one validated table row. Rows are values: once built they are never mutated.
type Row struct {
	ID       int32
	Username string
	Email    string
}

// New validates the fields and builds a Row.
//
// Returns:
//   - Row: the validated row
//   - error: NEGATIVE_ID or STRING_TOO_LONG; nothing is built on failure
func New(id int32, username, email string) (Row, error) {
	if err := Validate(id, username, email); err != nil {
		return Row{}, err
	}
	return Row{ID: id, Username: username, Email: email}, nil
}

// Validate checks a candidate row before anything is written.
// The id is checked first, then both strings; a failure rejects the whole row.
func Validate(id int32, username, email string) error {
	if id <= 0 {
		return dberror.NegativeID().WithContext("Validate", "RowCodec")
	}
	if len(username) > ColumnUsernameSize || len(email) > ColumnEmailSize {
		return dberror.StringTooLong().
			WithContext("Validate", "RowCodec").
			WithDetail("username %d bytes, email %d bytes", len(username), len(email))
	}
	return nil
}

// String renders the row the way select prints it: "(1, user, user@example.com)".
func (r Row) String() string {
	return fmt.Sprintf("(%d, %s, %s)", r.ID, r.Username, r.Email)
}

// Values returns the row as display strings in column order.
func (r Row) Values() []string {
	return []string{fmt.Sprintf("%d", r.ID), r.Username, r.Email}
}

// ColumnNames lists the schema's columns in storage order.
func ColumnNames() []string {
	return []string{"id", "username", "email"}
}
