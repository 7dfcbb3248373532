package error

import "errors"

// Error codes. User and capacity codes carry the exact prompt message.
const (
	CodeNegativeID            = "NEGATIVE_ID"
	CodeStringTooLong         = "STRING_TOO_LONG"
	CodeSyntaxError           = "SYNTAX_ERROR"
	CodeUnrecognizedStatement = "UNRECOGNIZED_STATEMENT"
	CodeUnrecognizedCommand   = "UNRECOGNIZED_COMMAND"
	CodeTableFull             = "TABLE_FULL"
	CodeCorruptFile           = "CORRUPT_FILE"
	CodeIOFailure             = "IO_FAILURE"
	CodePageOutOfBounds       = "PAGE_OUT_OF_BOUNDS"
	CodePageNotCached         = "PAGE_NOT_CACHED"
	CodeTableClosed           = "TABLE_CLOSED"
)

// Sentinels for errors.Is. Functions return fresh instances; these only anchor the code.
var (
	ErrNegativeID            = &DBError{Code: CodeNegativeID, Category: ErrCategoryUser}
	ErrStringTooLong         = &DBError{Code: CodeStringTooLong, Category: ErrCategoryUser}
	ErrSyntax                = &DBError{Code: CodeSyntaxError, Category: ErrCategoryUser}
	ErrUnrecognizedStatement = &DBError{Code: CodeUnrecognizedStatement, Category: ErrCategoryUser}
	ErrUnrecognizedCommand   = &DBError{Code: CodeUnrecognizedCommand, Category: ErrCategoryUser}
	ErrTableFull             = &DBError{Code: CodeTableFull, Category: ErrCategoryCapacity}
	ErrCorruptFile           = &DBError{Code: CodeCorruptFile, Category: ErrCategoryData}
	ErrIOFailure             = &DBError{Code: CodeIOFailure, Category: ErrCategorySystem}
	ErrPageOutOfBounds       = &DBError{Code: CodePageOutOfBounds, Category: ErrCategorySystem}
	ErrPageNotCached         = &DBError{Code: CodePageNotCached, Category: ErrCategorySystem}
	ErrTableClosed           = &DBError{Code: CodeTableClosed, Category: ErrCategorySystem}
)

// NegativeID reports an id that is zero or below.
func NegativeID() *DBError {
	return New(ErrCategoryUser, CodeNegativeID, "ID must be positive.")
}

// StringTooLong reports a username or email longer than its column.
func StringTooLong() *DBError {
	return New(ErrCategoryUser, CodeStringTooLong, "String is too long.")
}

// Syntax reports a statement whose arguments could not be parsed.
func Syntax() *DBError {
	return New(ErrCategoryUser, CodeSyntaxError, "Syntax error. Could not parse statement.")
}

// UnrecognizedStatement reports an input line whose first word is not a statement keyword.
func UnrecognizedStatement(line string) *DBError {
	return New(ErrCategoryUser, CodeUnrecognizedStatement,
		"Unrecognized keyword at start of '"+line+"'.")
}

// UnrecognizedCommand reports an unknown dot command.
func UnrecognizedCommand(line string) *DBError {
	return New(ErrCategoryUser, CodeUnrecognizedCommand, "Unrecognized command '"+line+"'")
}

// TableFull reports a leaf that already holds its maximum number of cells.
func TableFull() *DBError {
	return New(ErrCategoryCapacity, CodeTableFull, "Error: Table full.")
}

// CategoryOf returns the category of the first DBError in err's chain.
func CategoryOf(err error) (ErrorCategory, bool) {
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return dbErr.Category, true
	}
	return 0, false
}

// IsFatal reports whether err must end the session. Errors that are not a
// DBError came from somewhere unexpected and are treated as fatal too.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	category, ok := CategoryOf(err)
	if !ok {
		return true
	}
	return category == ErrCategorySystem || category == ErrCategoryData
}

// UserMessage returns the text shown at the prompt for a recoverable error.
func UserMessage(err error) string {
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return dbErr.Message
	}
	return err.Error()
}
