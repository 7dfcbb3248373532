// Package btree interprets raw page buffers as B-tree nodes.
//
// Nodes are never decoded into Go structs. Every field is read and written
// through an offset/width accessor over the page's byte slice, so the cached
// page in the pager is always the single source of truth and flushing it
// persists the node exactly.
//
// Only leaf nodes are implemented. The node type byte reserves a value for
// internal nodes so that a tree which splits can be added without changing
// the on-disk header or the Node interface.
package btree

import (
	"encoding/binary"
	"fmt"

	"nsql/pkg/primitives"
)

// NodeType is the first byte of every node.
type NodeType uint8

const (
	NodeInternal NodeType = 0
	NodeLeaf     NodeType = 1
)

// String returns the lowercase name used in tree dumps.
func (t NodeType) String() string {
	switch t {
	case NodeInternal:
		return "internal"
	case NodeLeaf:
		return "leaf"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Node is the header every node variant shares.
type Node interface {
	Type() NodeType
	IsRoot() bool
	SetRoot(isRoot bool)
	Parent() primitives.PageNumber
	SetParent(parent primitives.PageNumber)
	Page() []byte
}

// header implements the common node header over a page buffer.
type header struct {
	page []byte
}

// Type returns the node type byte.
func (h header) Type() NodeType {
	return NodeType(h.page[NodeTypeOffset])
}

func (h header) setType(t NodeType) {
	h.page[NodeTypeOffset] = uint8(t)
}

// IsRoot reports whether the node is the tree's root.
func (h header) IsRoot() bool {
	return h.page[IsRootOffset] != 0
}

// SetRoot sets the is_root byte.
func (h header) SetRoot(isRoot bool) {
	var v uint8
	if isRoot {
		v = 1
	}
	h.page[IsRootOffset] = v
}

// Parent returns the parent page number, primitives.NoParent for the root.
func (h header) Parent() primitives.PageNumber {
	return primitives.PageNumber(binary.LittleEndian.Uint32(h.page[ParentPointerOffset : ParentPointerOffset+ParentPointerSize]))
}

// SetParent stores the parent page number.
func (h header) SetParent(parent primitives.PageNumber) {
	binary.LittleEndian.PutUint32(h.page[ParentPointerOffset:ParentPointerOffset+ParentPointerSize], uint32(parent))
}

// Page returns the underlying page buffer.
func (h header) Page() []byte {
	return h.page
}

// TypeOf reads the node type of a page without choosing a variant.
func TypeOf(page []byte) NodeType {
	return NodeType(page[NodeTypeOffset])
}

// NodeFor wraps a page in the variant its type byte names.
func NodeFor(page []byte) (Node, error) {
	switch TypeOf(page) {
	case NodeLeaf:
		leaf, err := NewLeafNode(page)
		if err != nil {
			return nil, err
		}
		return leaf, nil
	default:
		return nil, fmt.Errorf("btree: unsupported node type %s", TypeOf(page))
	}
}
