package btree

import (
	"bytes"
	"errors"
	"testing"

	dberror "nsql/pkg/error"
	"nsql/pkg/primitives"
	"nsql/pkg/row"
	"nsql/pkg/storage/page"
)

func newLeaf(t *testing.T) *LeafNode {
	t.Helper()
	n, err := InitializeLeaf(make([]byte, page.PageSize), true)
	if err != nil {
		t.Fatalf("InitializeLeaf failed: %v", err)
	}
	return n
}

func encode(t *testing.T, id int32, username, email string) []byte {
	t.Helper()
	r, err := row.New(id, username, email)
	if err != nil {
		t.Fatalf("row.New failed: %v", err)
	}
	return r.Encode()
}

func TestLayoutConstants(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"COMMON_NODE_HEADER_SIZE", CommonNodeHeaderSize, 6},
		{"LEAF_NODE_HEADER_SIZE", LeafNodeHeaderSize, 10},
		{"LEAF_NODE_CELL_SIZE", LeafNodeCellSize, 297},
		{"LEAF_NODE_SPACE_FOR_CELLS", LeafNodeSpaceForCells, 4106},
		{"LEAF_NODE_MAX_CELLS", LeafNodeMaxCells, 13},
		{"PAGE_SIZE", page.PageSize, LeafNodeHeaderSize + LeafNodeSpaceForCells},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}

	consts := Constants()
	if len(consts) != 6 || consts[0].Name != "ROW_SIZE" || consts[0].Value != 293 {
		t.Errorf("unexpected Constants(): %+v", consts)
	}
	if consts[5].Name != "LEAF_NODE_MAX_CELLS" || consts[5].Value != 13 {
		t.Errorf("unexpected last constant: %+v", consts[5])
	}
}

func TestInitializeLeaf(t *testing.T) {
	buf := bytes.Repeat([]byte{0xEE}, page.PageSize)
	n, err := InitializeLeaf(buf, true)
	if err != nil {
		t.Fatalf("InitializeLeaf failed: %v", err)
	}

	if n.Type() != NodeLeaf {
		t.Errorf("type = %s, want leaf", n.Type())
	}
	if !n.IsRoot() {
		t.Error("expected root")
	}
	if n.Parent() != primitives.NoParent {
		t.Errorf("parent = %d, want NoParent", n.Parent())
	}
	if n.NumCells() != 0 {
		t.Errorf("num_cells = %d, want 0", n.NumCells())
	}

	// On-disk header bytes.
	if buf[0] != 1 || buf[1] != 1 {
		t.Errorf("header bytes = %v", buf[:2])
	}
	if !bytes.Equal(buf[2:6], []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("parent bytes = %v", buf[2:6])
	}
	if !bytes.Equal(buf[6:10], []byte{0, 0, 0, 0}) {
		t.Errorf("num_cells bytes = %v", buf[6:10])
	}

	nonRoot, _ := InitializeLeaf(make([]byte, page.PageSize), false)
	if nonRoot.IsRoot() {
		t.Error("expected non-root leaf")
	}
}

func TestInitializeLeaf_WrongSize(t *testing.T) {
	if _, err := InitializeLeaf(make([]byte, 4096), true); err == nil {
		t.Error("expected error for short buffer")
	}
	if _, err := NewLeafNode(make([]byte, page.PageSize+1)); err == nil {
		t.Error("expected error for long buffer")
	}
}

func TestNewLeafNode_CorruptCellCount(t *testing.T) {
	buf := make([]byte, page.PageSize)
	n, _ := InitializeLeaf(buf, true)
	n.SetNumCells(LeafNodeMaxCells + 1)

	_, err := NewLeafNode(buf)
	if !errors.Is(err, dberror.ErrCorruptFile) {
		t.Fatalf("expected CORRUPT_FILE, got %v", err)
	}
}

func TestCellOffset(t *testing.T) {
	tests := []struct {
		cell primitives.CellNum
		want int
	}{
		{0, 10},
		{1, 307},
		{12, 10 + 12*297},
	}

	for _, tt := range tests {
		if got := CellOffset(tt.cell); got != tt.want {
			t.Errorf("CellOffset(%d) = %d, want %d", tt.cell, got, tt.want)
		}
	}
}

func TestAppend_KeepsInsertionOrder(t *testing.T) {
	n := newLeaf(t)

	for _, key := range []int32{3, 1, 2} {
		if err := n.Append(key, encode(t, key, "user", "user@example.com")); err != nil {
			t.Fatalf("Append(%d) failed: %v", key, err)
		}
	}

	if n.NumCells() != 3 {
		t.Fatalf("num_cells = %d, want 3", n.NumCells())
	}

	want := []int32{3, 1, 2}
	for i, key := range want {
		if got := n.Key(primitives.CellNum(i)); got != key {
			t.Errorf("cell %d key = %d, want %d", i, got, key)
		}
		if got := row.Deserialize(n.Value(primitives.CellNum(i))); got.ID != key {
			t.Errorf("cell %d row id = %d, want %d", i, got.ID, key)
		}
	}
}

func TestAppend_AllowsDuplicateKeys(t *testing.T) {
	n := newLeaf(t)
	_ = n.Append(7, encode(t, 7, "a", "a@x"))
	if err := n.Append(7, encode(t, 7, "b", "b@x")); err != nil {
		t.Fatalf("duplicate append failed: %v", err)
	}
	if n.NumCells() != 2 {
		t.Errorf("num_cells = %d, want 2", n.NumCells())
	}
}

func TestAppend_CapacityExceeded(t *testing.T) {
	n := newLeaf(t)

	for i := int32(1); i <= LeafNodeMaxCells; i++ {
		if err := n.Append(i, encode(t, i, "user", "user@example.com")); err != nil {
			t.Fatalf("Append(%d) failed: %v", i, err)
		}
	}
	if !n.IsFull() {
		t.Fatal("expected leaf to be full")
	}

	before := bytes.Clone(n.Page())
	err := n.Append(99, encode(t, 99, "late", "late@example.com"))
	if !errors.Is(err, dberror.ErrTableFull) {
		t.Fatalf("expected TABLE_FULL, got %v", err)
	}
	if !bytes.Equal(before, n.Page()) {
		t.Error("failed append must not modify the page")
	}
}

func TestAppend_WrongValueSize(t *testing.T) {
	n := newLeaf(t)
	if err := n.Append(1, make([]byte, 10)); err == nil {
		t.Error("expected error for short value")
	}
	if n.NumCells() != 0 {
		t.Error("rejected append must not change num_cells")
	}
}

func TestAppend_OnDiskCellLayout(t *testing.T) {
	n := newLeaf(t)
	value := encode(t, 0x0A0B0C0D, "u", "e")
	if err := n.Append(0x0A0B0C0D, value); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	buf := n.Page()
	if !bytes.Equal(buf[6:10], []byte{1, 0, 0, 0}) {
		t.Errorf("num_cells bytes = %v", buf[6:10])
	}
	if !bytes.Equal(buf[10:14], []byte{0x0D, 0x0C, 0x0B, 0x0A}) {
		t.Errorf("key bytes = %v", buf[10:14])
	}
	if !bytes.Equal(buf[14:14+row.RowSize], value) {
		t.Error("row bytes not stored after the key")
	}
}

func TestScan(t *testing.T) {
	n := newLeaf(t)

	it := n.Scan()
	if it.HasNext() {
		t.Fatal("empty leaf should yield nothing")
	}
	if _, err := it.Next(); err == nil {
		t.Error("expected error from exhausted iterator")
	}

	for _, key := range []int32{5, 9} {
		_ = n.Append(key, encode(t, key, "u", "e"))
	}

	it = n.Scan()
	var keys []int32
	for it.HasNext() {
		c, err := it.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		keys = append(keys, c.Key)
	}
	if len(keys) != 2 || keys[0] != 5 || keys[1] != 9 {
		t.Errorf("keys = %v", keys)
	}

	if err := it.Rewind(); err != nil {
		t.Fatalf("Rewind failed: %v", err)
	}
	first, err := it.Next()
	if err != nil || first.Key != 5 || first.Num != 0 {
		t.Errorf("after rewind got %+v, %v", first, err)
	}

	other := n.Scan()
	if c, _ := other.Next(); c.Key != 5 {
		t.Error("a fresh scan must start at cell 0")
	}
}

func TestNodeFor(t *testing.T) {
	buf := make([]byte, page.PageSize)
	_, _ = InitializeLeaf(buf, true)

	node, err := NodeFor(buf)
	if err != nil {
		t.Fatalf("NodeFor failed: %v", err)
	}
	if node.Type() != NodeLeaf {
		t.Errorf("type = %s", node.Type())
	}

	node.SetParent(4)
	if node.Parent() != 4 {
		t.Errorf("parent = %d", node.Parent())
	}

	buf[NodeTypeOffset] = uint8(NodeInternal)
	if _, err := NodeFor(buf); err == nil {
		t.Error("internal nodes are not supported yet")
	}
}
