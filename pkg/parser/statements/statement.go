package statements

// StatementType identifies what an input line asks for.
type StatementType int

const (
	Insert StatementType = iota
	Select
	Exit
	BTree
	Constants
)

func (st StatementType) String() string {
	switch st {
	case Insert:
		return "INSERT"
	case Select:
		return "SELECT"
	case Exit:
		return ".exit"
	case BTree:
		return ".btree"
	case Constants:
		return ".constants"
	default:
		return "UNKNOWN"
	}
}

// IsMeta returns true for dot commands, which act on the session rather than the table.
func (st StatementType) IsMeta() bool {
	return st == Exit || st == BTree || st == Constants
}

// Statement is the interface that all parsed input lines implement
type Statement interface {
	// GetType returns the type of the statement
	GetType() StatementType
	// String returns the statement in its input form
	String() string
	// Validate checks field constraints before the statement is executed
	Validate() error
}

// BaseStatement provides common functionality for all statement types
type BaseStatement struct {
	stmtType StatementType
}

func NewBaseStatement(stmtType StatementType) BaseStatement {
	return BaseStatement{stmtType: stmtType}
}

func (bs *BaseStatement) GetType() StatementType {
	return bs.stmtType
}
