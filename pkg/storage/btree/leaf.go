package btree

import (
	"encoding/binary"
	"fmt"

	dberror "nsql/pkg/error"
	"nsql/pkg/primitives"
	"nsql/pkg/storage/page"
)

const component = "LeafNode"

var _ Node = (*LeafNode)(nil)

// LeafNode is a view over one page holding a B-tree leaf.
//
// Layout:
//
//	| common header (6) | num_cells (4) | cell 0 (297) | cell 1 | ... | unused |
//
// Cells are packed from LeafNodeHeaderSize with no gaps and are kept in the
// order they were appended. Nothing is sorted and duplicate keys are allowed.
type LeafNode struct {
	header
}

// NewLeafNode wraps an existing leaf page.
//
// Returns:
//   - *LeafNode: a view sharing the page buffer
//   - error: if the buffer is not a full page, or CORRUPT_FILE if the stored
//     cell count cannot fit in a page
func NewLeafNode(buf []byte) (*LeafNode, error) {
	if len(buf) != page.PageSize {
		return nil, fmt.Errorf("btree: leaf page must be %d bytes, got %d", page.PageSize, len(buf))
	}

	n := &LeafNode{header{page: buf}}
	if cells := n.NumCells(); cells > LeafNodeMaxCells {
		return nil, dberror.New(dberror.ErrCategoryData, dberror.CodeCorruptFile, "leaf cell count exceeds capacity").
			WithContext("NewLeafNode", component).
			WithDetail("num_cells %d, max %d", cells, LeafNodeMaxCells)
	}
	return n, nil
}

// InitializeLeaf formats buf as an empty leaf and returns a view over it.
// The header is zeroed, the type set to leaf, the parent set to NoParent.
func InitializeLeaf(buf []byte, isRoot bool) (*LeafNode, error) {
	if len(buf) != page.PageSize {
		return nil, fmt.Errorf("btree: leaf page must be %d bytes, got %d", page.PageSize, len(buf))
	}

	clear(buf[:LeafNodeHeaderSize])
	n := &LeafNode{header{page: buf}}
	n.setType(NodeLeaf)
	n.SetRoot(isRoot)
	n.SetParent(primitives.NoParent)
	n.SetNumCells(0)
	return n, nil
}

// NumCells returns the number of cells stored in the leaf.
func (n *LeafNode) NumCells() uint32 {
	return binary.LittleEndian.Uint32(n.page[LeafNodeNumCellsOffset : LeafNodeNumCellsOffset+LeafNodeNumCellsSize])
}

// SetNumCells stores the cell count.
func (n *LeafNode) SetNumCells(count uint32) {
	binary.LittleEndian.PutUint32(n.page[LeafNodeNumCellsOffset:LeafNodeNumCellsOffset+LeafNodeNumCellsSize], count)
}

// IsFull reports whether another Append would fail.
func (n *LeafNode) IsFull() bool {
	return n.NumCells() >= LeafNodeMaxCells
}

// CellOffset returns the byte offset of a cell inside the page.
func CellOffset(cellNum primitives.CellNum) int {
	return LeafNodeHeaderSize + int(cellNum)*LeafNodeCellSize
}

// Cell returns the bytes of one cell. The slice aliases the page.
func (n *LeafNode) Cell(cellNum primitives.CellNum) []byte {
	off := CellOffset(cellNum)
	return n.page[off : off+LeafNodeCellSize]
}

// Key returns the key of a cell.
func (n *LeafNode) Key(cellNum primitives.CellNum) int32 {
	cell := n.Cell(cellNum)
	return int32(binary.LittleEndian.Uint32(cell[LeafNodeKeyOffset : LeafNodeKeyOffset+LeafNodeKeySize]))
}

// Value returns the encoded row of a cell. The slice aliases the page.
func (n *LeafNode) Value(cellNum primitives.CellNum) []byte {
	cell := n.Cell(cellNum)
	return cell[LeafNodeValueOffset : LeafNodeValueOffset+LeafNodeValueSize]
}

// Append writes a new cell after the last one.
//
// The position is always the current cell count: there is no search for an
// insertion point, so storage order is insertion order.
//
// Returns:
//   - error: TABLE_FULL if the leaf already holds LeafNodeMaxCells cells, in
//     which case the page is left untouched
func (n *LeafNode) Append(key int32, value []byte) error {
	if len(value) != LeafNodeValueSize {
		return fmt.Errorf("btree: cell value must be %d bytes, got %d", LeafNodeValueSize, len(value))
	}

	numCells := n.NumCells()
	if numCells >= LeafNodeMaxCells {
		return dberror.TableFull().
			WithContext("Append", component).
			WithDetail("leaf holds %d cells", numCells)
	}

	cell := n.Cell(primitives.CellNum(numCells))
	binary.LittleEndian.PutUint32(cell[LeafNodeKeyOffset:LeafNodeKeyOffset+LeafNodeKeySize], uint32(key))
	copy(cell[LeafNodeValueOffset:], value)
	n.SetNumCells(numCells + 1)
	return nil
}

// Scan returns an iterator over the leaf's cells in storage order.
func (n *LeafNode) Scan() *LeafIterator {
	return &LeafIterator{node: n}
}
