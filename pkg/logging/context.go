package logging

import (
	"log/slog"
)

// WithComponent creates a logger with component/subsystem context.
//
// Example:
//
//	log := logging.WithComponent("pager")
//	log.Debug("page loaded", "page", 0)
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithTable creates a logger carrying the database file the table lives in.
//
// Example:
//
//	log := logging.WithTable("users.db")
//	log.Info("table opened", "rows", 3)
func WithTable(path string) *slog.Logger {
	return GetLogger().With("table", path)
}

// WithStatement creates a logger for one input line of the statement loop.
func WithStatement(line string) *slog.Logger {
	return GetLogger().With("statement", line)
}

// WithError creates a logger with error context.
// Use this when logging errors to include the error in structured format.
//
// Example:
//
//	log := logging.WithError(err)
//	log.Error("flush failed", "page", 0)
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}
