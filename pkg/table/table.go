// Package table is the storage facade the statement loop talks to.
//
// A Table owns a Pager and knows that page 0 is the root leaf of the row tree.
// It validates and encodes rows on the way in, decodes them on the way out,
// and persists everything on Close. It is the only package that combines the
// pager, the node layout and the row codec.
package table

import (
	"fmt"
	"log/slog"
	"strings"

	dberror "nsql/pkg/error"
	"nsql/pkg/iterator"
	"nsql/pkg/logging"
	"nsql/pkg/primitives"
	"nsql/pkg/row"
	"nsql/pkg/storage/btree"
	"nsql/pkg/storage/page"
)

const component = "Table"

// Table is a single-table database backed by one file.
//
// Thread-safety: none. Callers serialize access; the database session does so
// with its own mutex.
type Table struct {
	pager       *page.Pager
	rootPageNum primitives.PageNumber
	closed      bool
	log         *slog.Logger
}

// Open opens or creates the database file at path.
//
// A file with no pages gets page 0 formatted as an empty root leaf. For an
// existing file, page 0 is read and checked to be a sane leaf.
//
// Returns:
//   - *Table: the open table
//   - error: CORRUPT_FILE for a file that is not a whole number of pages or whose
//     root is not a valid leaf, IO_FAILURE if the file cannot be opened
func Open(path primitives.Filepath) (*Table, error) {
	pager, err := page.Open(path)
	if err != nil {
		return nil, err
	}

	t := &Table{
		pager:       pager,
		rootPageNum: primitives.RootPageNumber,
		log:         logging.WithTable(path.String()),
	}

	fresh := pager.NumPages() == 0
	root, err := pager.GetPage(t.rootPageNum)
	if err != nil {
		_ = pager.Close()
		return nil, err
	}

	if fresh {
		if _, err := btree.InitializeLeaf(root, true); err != nil {
			_ = pager.Close()
			return nil, dberror.Wrap(err, dberror.CodeIOFailure, "Open", component)
		}
		t.log.Info("table created")
		return t, nil
	}

	if btree.TypeOf(root) != btree.NodeLeaf {
		_ = pager.Close()
		return nil, dberror.New(dberror.ErrCategoryData, dberror.CodeCorruptFile, "root page is not a leaf node").
			WithContext("Open", component).
			WithDetail("node type %s", btree.TypeOf(root))
	}

	leaf, err := btree.NewLeafNode(root)
	if err != nil {
		_ = pager.Close()
		return nil, err
	}

	t.log.Info("table opened", "pages", pager.NumPages(), "rows", leaf.NumCells())
	return t, nil
}

// Path returns the database file path.
func (t *Table) Path() primitives.Filepath {
	return t.pager.FilePath()
}

// Insert validates a row and appends it to the root leaf.
//
// Validation runs before anything is touched, so a rejected row leaves the
// table unchanged.
//
// Returns:
//   - error: NEGATIVE_ID, STRING_TOO_LONG, TABLE_FULL, or a fatal pager error
func (t *Table) Insert(id int32, username, email string) error {
	r, err := row.New(id, username, email)
	if err != nil {
		return err
	}

	leaf, err := t.rootLeaf()
	if err != nil {
		return err
	}

	if err := leaf.Append(r.ID, r.Encode()); err != nil {
		t.log.Debug("insert rejected", "id", id, "error", err)
		return dberror.Wrap(err, dberror.CodeIOFailure, "Insert", component)
	}

	t.log.Debug("row inserted", "id", id, "rows", leaf.NumCells())
	return nil
}

// Select returns an iterator over every row in storage order.
// Rows are decoded lazily as the iterator advances.
func (t *Table) Select() (*RowIterator, error) {
	cursor, err := t.Start()
	if err != nil {
		return nil, err
	}
	return &RowIterator{cursor: cursor}, nil
}

// Rows collects every row. It is Select for callers that want a slice.
func (t *Table) Rows() ([]row.Row, error) {
	it, err := t.Select()
	if err != nil {
		return nil, err
	}

	return iterator.Collect[row.Row](it)
}

// NumRows returns the number of stored rows.
func (t *Table) NumRows() (uint32, error) {
	leaf, err := t.rootLeaf()
	if err != nil {
		return 0, err
	}
	return leaf.NumCells(), nil
}

// Constants returns the layout numbers, in print order.
func (t *Table) Constants() []btree.Constant {
	return btree.Constants()
}

// RenderTree returns the text dump of the tree.
//
// Format:
//
//	leaf (size 3)
//	  - 0 : 3
//	  - 1 : 1
//	  - 2 : 2
func (t *Table) RenderTree() (string, error) {
	leaf, err := t.rootLeaf()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "leaf (size %d)\n", leaf.NumCells())

	err = iterator.ForEach[btree.Cell](leaf.Scan(), func(cell btree.Cell) error {
		_, err := fmt.Fprintf(&b, "  - %d : %d\n", cell.Num, cell.Key)
		return err
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// Close flushes every cached page and releases the file.
// Any later call, Close included, returns TABLE_CLOSED.
func (t *Table) Close() error {
	if t.closed {
		return closedError("Close")
	}
	t.closed = true

	if err := t.pager.Close(); err != nil {
		t.log.Error("close failed", "error", err)
		return err
	}
	t.log.Info("table closed")
	return nil
}

func (t *Table) rootLeaf() (*btree.LeafNode, error) {
	if t.closed {
		return nil, closedError("rootLeaf")
	}

	buf, err := t.pager.GetPage(t.rootPageNum)
	if err != nil {
		return nil, err
	}
	return btree.NewLeafNode(buf)
}

func closedError(operation string) error {
	return dberror.New(dberror.ErrCategorySystem, dberror.CodeTableClosed, "table is closed").
		WithContext(operation, component)
}
