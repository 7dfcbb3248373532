package btree

import (
	"fmt"

	"nsql/pkg/iterator"
	"nsql/pkg/primitives"
)

var _ iterator.Iterator[Cell] = (*LeafIterator)(nil)

// Cell is one (key, row bytes) pair yielded by a scan.
// Value aliases the page and must not be modified.
type Cell struct {
	Num   primitives.CellNum
	Key   int32
	Value []byte
}

// LeafIterator walks a leaf's cells by increasing index.
// It reads the cell count on every step, so a cell appended mid-scan is seen.
type LeafIterator struct {
	node *LeafNode
	pos  primitives.CellNum
}

// HasNext reports whether another cell remains.
func (it *LeafIterator) HasNext() bool {
	return uint32(it.pos) < it.node.NumCells()
}

// Next returns the next cell.
func (it *LeafIterator) Next() (Cell, error) {
	if !it.HasNext() {
		return Cell{}, fmt.Errorf("btree: no more cells in leaf")
	}

	c := Cell{
		Num:   it.pos,
		Key:   it.node.Key(it.pos),
		Value: it.node.Value(it.pos),
	}
	it.pos++
	return c, nil
}

// Rewind restarts the scan at cell 0.
func (it *LeafIterator) Rewind() error {
	it.pos = 0
	return nil
}
