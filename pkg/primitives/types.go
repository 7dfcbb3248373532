package primitives

import "math"

// PageNumber is the zero-based index of a page inside the database file.
// The byte offset of a page is PageNumber * page.PageSize.
type PageNumber uint32

// CellNum is the zero-based index of a cell inside a B-tree node.
type CellNum uint32

// Sentinel values for invalid/unset identifiers
const (
	// NoParent marks a node that has no parent, i.e. the root.
	// Page 0 is a real page, so the sentinel sits at the top of the range.
	NoParent PageNumber = math.MaxUint32

	// RootPageNumber is where the table's root node lives.
	RootPageNumber PageNumber = 0
)

// Offset returns the byte offset of the page inside a file of pageSize-byte pages.
func (p PageNumber) Offset(pageSize int) int64 {
	return int64(p) * int64(pageSize)
}
