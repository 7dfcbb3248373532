// Package storage is the root of nSQL's disk-based storage engine.
//
// Data lives in a single file organised into fixed-size 4116-byte pages that
// are read and written as whole units. Pages are cached in memory and only
// written back when the table is closed; there is no log and no recovery.
//
// # Sub-packages
//
//   - [nsql/pkg/storage/page]  – The Pager: file handle, page cache of up to
//     100 pages, lazy page loading and full-page flushes.
//   - [nsql/pkg/storage/btree] – Leaf node layout over a page buffer: common
//     header, cell count, and fixed-size (key, row) cells.
//
// # Page layout
//
// Every page used so far is a leaf. It starts with a 6-byte common header
// (node type, root flag, parent pointer) followed by a 4-byte cell count,
// then up to 13 cells of a 4-byte key and a 293-byte serialized row.
package storage
