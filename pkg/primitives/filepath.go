package primitives

import (
	"os"
	"path/filepath"
)

// Filepath is a type-safe wrapper around file paths used throughout the database system.
// It keeps path handling for the database file, log file and import scripts in one
// place and avoids string conversions at call sites.
//
// Example usage:
//
//	dbPath := primitives.Filepath("data/users.db")
//	if err := dbPath.MkdirAll(0o755); err != nil {
//	    return err
//	}
type Filepath string

// String converts the Filepath to a standard string.
func (f Filepath) String() string {
	return string(f)
}

// Base returns the last element of the path (the filename).
//
// Example:
//
//	path := primitives.Filepath("/data/users.db")
//	base := path.Base() // Returns "users.db"
func (f Filepath) Base() string {
	return filepath.Base(string(f))
}

// Dir returns the directory portion of the file path.
func (f Filepath) Dir() string {
	return filepath.Dir(string(f))
}

// Clean returns the shortest path name equivalent to the path by purely lexical processing.
//
// Example:
//
//	path := primitives.Filepath("/data/../data/./users.db")
//	clean := path.Clean() // Returns "/data/users.db"
func (f Filepath) Clean() Filepath {
	return Filepath(filepath.Clean(string(f)))
}

// Exists checks whether the file exists on the filesystem.
//
// Returns:
//   - bool: true if the file exists, false otherwise
func (f Filepath) Exists() bool {
	_, err := os.Stat(string(f))
	return err == nil
}

// IsEmpty checks whether the filepath is an empty string.
// This is useful for validation before file operations.
func (f Filepath) IsEmpty() bool {
	return string(f) == ""
}

// MkdirAll creates the parent directory and any necessary parents.
//
// Parameters:
//   - perm: File permissions for created directories (e.g., 0755)
//
// Returns:
//   - error: nil on success, error if directory creation fails
func (f Filepath) MkdirAll(perm os.FileMode) error {
	return os.MkdirAll(f.Dir(), perm)
}

// Stat returns file information from the filesystem.
// This is a convenience wrapper around os.Stat.
func (f Filepath) Stat() (os.FileInfo, error) {
	return os.Stat(string(f))
}
