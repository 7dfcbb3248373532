package btree

import (
	"nsql/pkg/row"
	"nsql/pkg/storage/page"
)

// Common node header layout, shared by every node type.
//
//	| node_type (1) | is_root (1) | parent_pointer (4) |
const (
	NodeTypeSize         = 1
	NodeTypeOffset       = 0
	IsRootSize           = 1
	IsRootOffset         = NodeTypeOffset + NodeTypeSize
	ParentPointerSize    = 4
	ParentPointerOffset  = IsRootOffset + IsRootSize
	CommonNodeHeaderSize = NodeTypeSize + IsRootSize + ParentPointerSize
)

// Leaf node header layout: the common header followed by the cell count.
const (
	LeafNodeNumCellsSize   = 4
	LeafNodeNumCellsOffset = CommonNodeHeaderSize
	LeafNodeHeaderSize     = CommonNodeHeaderSize + LeafNodeNumCellsSize
)

// Leaf node body layout: packed (key, row) cells.
const (
	LeafNodeKeySize       = 4
	LeafNodeKeyOffset     = 0
	LeafNodeValueSize     = row.RowSize
	LeafNodeValueOffset   = LeafNodeKeyOffset + LeafNodeKeySize
	LeafNodeCellSize      = LeafNodeKeySize + LeafNodeValueSize
	LeafNodeSpaceForCells = page.PageSize - LeafNodeHeaderSize
	LeafNodeMaxCells      = LeafNodeSpaceForCells / LeafNodeCellSize
)

// Constant is one named layout number, reported by the .constants command.
type Constant struct {
	Name  string
	Value int
}

// Constants lists the layout numbers in the order they are printed.
func Constants() []Constant {
	return []Constant{
		{"ROW_SIZE", row.RowSize},
		{"COMMON_NODE_HEADER_SIZE", CommonNodeHeaderSize},
		{"LEAF_NODE_HEADER_SIZE", LeafNodeHeaderSize},
		{"LEAF_NODE_CELL_SIZE", LeafNodeCellSize},
		{"LEAF_NODE_SPACE_FOR_CELLS", LeafNodeSpaceForCells},
		{"LEAF_NODE_MAX_CELLS", LeafNodeMaxCells},
	}
}
