package table

import (
	"fmt"

	"nsql/pkg/iterator"
	"nsql/pkg/primitives"
	"nsql/pkg/row"
	"nsql/pkg/storage/btree"
)

// Cursor is a position in the table: a page and a cell within it.
type Cursor struct {
	table      *Table
	pageNum    primitives.PageNumber
	cellNum    primitives.CellNum
	endOfTable bool
}

// Start returns a cursor at the first row. On an empty table the cursor is
// already at the end.
func (t *Table) Start() (*Cursor, error) {
	leaf, err := t.rootLeaf()
	if err != nil {
		return nil, err
	}
	return &Cursor{
		table:      t,
		pageNum:    t.rootPageNum,
		endOfTable: leaf.NumCells() == 0,
	}, nil
}

// End returns a cursor one past the last row, where the next insert lands.
func (t *Table) End() (*Cursor, error) {
	leaf, err := t.rootLeaf()
	if err != nil {
		return nil, err
	}
	return &Cursor{
		table:      t,
		pageNum:    t.rootPageNum,
		cellNum:    primitives.CellNum(leaf.NumCells()),
		endOfTable: true,
	}, nil
}

// EndOfTable reports whether the cursor is past the last row.
func (c *Cursor) EndOfTable() bool {
	return c.endOfTable
}

// CellNum returns the cell the cursor points at.
func (c *Cursor) CellNum() primitives.CellNum {
	return c.cellNum
}

// Value decodes the row under the cursor.
func (c *Cursor) Value() (row.Row, error) {
	if c.endOfTable {
		return row.Row{}, fmt.Errorf("table: cursor is at end of table")
	}
	leaf, err := c.leaf()
	if err != nil {
		return row.Row{}, err
	}
	return row.Deserialize(leaf.Value(c.cellNum)), nil
}

// Advance moves to the next cell.
func (c *Cursor) Advance() error {
	leaf, err := c.leaf()
	if err != nil {
		return err
	}
	c.cellNum++
	if uint32(c.cellNum) >= leaf.NumCells() {
		c.endOfTable = true
	}
	return nil
}

func (c *Cursor) leaf() (*btree.LeafNode, error) {
	if c.table.closed {
		return nil, closedError("Cursor")
	}
	buf, err := c.table.pager.GetPage(c.pageNum)
	if err != nil {
		return nil, err
	}
	return btree.NewLeafNode(buf)
}

var _ iterator.Iterator[row.Row] = (*RowIterator)(nil)

// RowIterator yields decoded rows from a cursor.
type RowIterator struct {
	cursor *Cursor
}

// HasNext reports whether another row remains.
func (it *RowIterator) HasNext() bool {
	return !it.cursor.EndOfTable()
}

// Next decodes the current row and advances.
func (it *RowIterator) Next() (row.Row, error) {
	r, err := it.cursor.Value()
	if err != nil {
		return row.Row{}, err
	}
	if err := it.cursor.Advance(); err != nil {
		return row.Row{}, err
	}
	return r, nil
}

// Rewind moves back to the first row. On a closed table it returns
// TABLE_CLOSED and leaves the position unchanged.
func (it *RowIterator) Rewind() error {
	start, err := it.cursor.table.Start()
	if err != nil {
		return err
	}
	it.cursor = start
	return nil
}
