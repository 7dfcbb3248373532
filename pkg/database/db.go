package database

import (
	"errors"
	"log/slog"
	"sync"

	dberror "nsql/pkg/error"
	"nsql/pkg/logging"
	"nsql/pkg/parser"
	"nsql/pkg/parser/statements"
	"nsql/pkg/primitives"
	"nsql/pkg/storage/btree"
	"nsql/pkg/table"
)

// Database is one statement session over one table file.
//
// Execute is the single entry point for input lines: it parses, runs, and
// formats, and is safe to call from several goroutines (the TUI runs statements
// off the UI goroutine).
type Database struct {
	table  *table.Table
	parser *parser.Parser
	path   primitives.Filepath
	closed bool

	mutex sync.Mutex
	stats *DatabaseStats
	log   *slog.Logger
}

// DatabaseStats tracks per-session counters
type DatabaseStats struct {
	QueriesExecuted int64
	ErrorCount      int64
	mutex           sync.RWMutex
}

// QueryResult represents the result of one input line.
//
// Lines is the transcript text for the line, without the prompt. User-level
// errors are reported here and in Err with Success false; fatal errors are
// returned from Execute instead.
type QueryResult struct {
	Success bool
	Columns []string
	Rows    [][]string
	Lines   []string
	Exit    bool
	Err     error
}

// DatabaseInfo contains session metadata
type DatabaseInfo struct {
	Path            string
	RowCount        uint32
	MaxRows         int
	QueriesExecuted int64
	ErrorCount      int64
}

// Open opens the table file at path and starts a session on it.
func Open(path string) (*Database, error) {
	fp := primitives.Filepath(path).Clean()
	created := !fp.Exists()

	tbl, err := table.Open(fp)
	if err != nil {
		return nil, err
	}

	db := &Database{
		table:  tbl,
		parser: &parser.Parser{},
		path:   fp,
		stats:  &DatabaseStats{},
		log:    logging.WithComponent("Database").With("file", fp.String()),
	}
	db.log.Debug("session opened", "created", created)
	return db, nil
}

// Path returns the table file path.
func (db *Database) Path() string {
	return db.path.String()
}

// Execute runs one input line.
//
// Returns:
//   - QueryResult: output lines, and rows for select
//   - error: only fatal errors (corruption, I/O, use after close); the session
//     must end when one is returned
func (db *Database) Execute(line string) (QueryResult, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	log := logging.WithStatement(line).With("file", db.path.String())

	if db.closed {
		return QueryResult{}, dberror.New(dberror.ErrCategorySystem, dberror.CodeTableClosed, "database is closed").
			WithContext("Execute", "Database")
	}

	stmt, err := db.parser.ParseStatement(line)
	if err != nil {
		return db.fail(log, err)
	}

	log.Debug("executing", "type", stmt.GetType())

	var result QueryResult
	switch s := stmt.(type) {
	case *statements.InsertStatement:
		if err := db.table.Insert(s.ID, s.Username, s.Email); err != nil {
			return db.fail(log, err)
		}
		result = formatExecuted()

	case *statements.SelectStatement:
		rows, err := db.table.Rows()
		if err != nil {
			return db.fail(log, err)
		}
		result = formatSelect(rows)

	case *statements.MetaCommand:
		result, err = db.executeMeta(s)
		if err != nil {
			return db.fail(log, err)
		}
	}

	db.recordSuccess()
	return result, nil
}

func (db *Database) executeMeta(cmd *statements.MetaCommand) (QueryResult, error) {
	switch cmd.GetType() {
	case statements.Exit:
		if err := db.closeTable(); err != nil {
			return QueryResult{}, err
		}
		return QueryResult{Success: true, Exit: true}, nil

	case statements.Constants:
		return formatConstants(btree.Constants()), nil

	case statements.BTree:
		tree, err := db.table.RenderTree()
		if err != nil {
			return QueryResult{}, err
		}
		return formatTree(tree), nil

	default:
		return QueryResult{}, dberror.UnrecognizedCommand(cmd.String())
	}
}

// fail records an error and sorts it: recoverable errors become a result,
// fatal ones are returned.
func (db *Database) fail(log *slog.Logger, err error) (QueryResult, error) {
	db.recordError()

	if dberror.IsFatal(err) {
		log.Error("fatal error", "error", err)
		var dbErr *dberror.DBError
		if errors.As(err, &dbErr) {
			log.Debug(dbErr.FormatStack())
		}
		return QueryResult{}, err
	}

	log.Debug("statement rejected", "error", err)
	return formatError(err), nil
}

// recordError updates error statistics
func (db *Database) recordError() {
	db.stats.mutex.Lock()
	db.stats.ErrorCount++
	db.stats.mutex.Unlock()
}

// recordSuccess updates success statistics
func (db *Database) recordSuccess() {
	db.stats.mutex.Lock()
	db.stats.QueriesExecuted++
	db.stats.mutex.Unlock()
}

// GetStatistics returns current session statistics
func (db *Database) GetStatistics() DatabaseInfo {
	db.mutex.Lock()
	var rows uint32
	if !db.closed {
		rows, _ = db.table.NumRows()
	}
	db.mutex.Unlock()

	db.stats.mutex.RLock()
	defer db.stats.mutex.RUnlock()

	return DatabaseInfo{
		Path:            db.path.String(),
		RowCount:        rows,
		MaxRows:         btree.LeafNodeMaxCells,
		QueriesExecuted: db.stats.QueriesExecuted,
		ErrorCount:      db.stats.ErrorCount,
	}
}

// Closed reports whether the table has been closed, by .exit or Close.
func (db *Database) Closed() bool {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return db.closed
}

// Close persists the table. Closing an already closed session is a no-op.
func (db *Database) Close() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if db.closed {
		return nil
	}
	return db.closeTable()
}

func (db *Database) closeTable() error {
	db.closed = true
	if err := db.table.Close(); err != nil {
		return err
	}
	db.log.Info("session closed")
	return nil
}
