package statements

// MetaCommand is a dot command such as `.exit`.
type MetaCommand struct {
	BaseStatement
}

func NewMetaCommand(stmtType StatementType) *MetaCommand {
	return &MetaCommand{BaseStatement: NewBaseStatement(stmtType)}
}

func (mc *MetaCommand) Validate() error {
	return nil
}

func (mc *MetaCommand) String() string {
	return mc.stmtType.String()
}
