// Package logging provides a process-wide structured logger for nSQL.
//
// The package wraps [log/slog] and exposes a single global logger instance
// that is initialized once and then retrieved via GetLogger. The pager, the
// table and the statement loop obtain their loggers through this package so
// that level, format and destination are controlled from the command line.
//
// Logs go to stderr unless a file is configured: stdout belongs to the
// statement transcript ("nSQL> Executed.") and must stay clean.
//
// # Initialisation
//
//	if err := logging.Init(logging.Config{Level: logging.LevelDebug, Format: "json"}); err != nil {
//	    log.Fatal(err)
//	}
//
// If GetLogger is called before Init, a default stderr logger is created
// lazily (via sync.Once) so that tests and library callers are safe.
//
// # Context helpers
//
//	log := logging.WithComponent("pager")   // adds component field
//	log := logging.WithTable(path)          // adds table field
//	log := logging.WithStatement(line)      // adds statement field
package logging
