// Package inspect reads a database file without opening it as a table and
// reports what each page holds.
//
// The file is read once into memory; nothing is ever written back, so inspect
// is safe to run against a file another process has open.
package inspect

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/zeebo/blake3"

	dberror "nsql/pkg/error"
	"nsql/pkg/primitives"
	"nsql/pkg/storage/btree"
	"nsql/pkg/storage/page"
)

const component = "Inspect"

// PageReport describes one page.
type PageReport struct {
	Number   primitives.PageNumber
	Type     btree.NodeType
	IsRoot   bool
	Parent   primitives.PageNumber
	NumCells uint32
	Keys     []int32
	Digest   string
	Err      error
}

// Report describes a whole file.
type Report struct {
	Path   primitives.Filepath
	Size   int64
	Pages  []PageReport
	Digest string
}

// Options controls how much is read per page.
type Options struct {
	// Cells includes every cell key in the page reports.
	Cells bool
}

// File inspects the database file at path.
//
// Returns:
//   - *Report: the per-page headers and digests
//   - error: IO_FAILURE if the file cannot be read, CORRUPT_FILE if its length
//     is not a whole number of pages
func File(path primitives.Filepath, opts Options) (*Report, error) {
	info, err := path.Stat()
	if err != nil {
		return nil, dberror.Wrap(err, dberror.CodeIOFailure, "File", component)
	}
	if info.IsDir() {
		return nil, dberror.New(dberror.ErrCategorySystem, dberror.CodeIOFailure, "not a database file").
			WithContext("File", component).
			WithDetail("%s is a directory", path)
	}

	data, err := os.ReadFile(path.String())
	if err != nil {
		return nil, dberror.Wrap(err, dberror.CodeIOFailure, "File", component)
	}
	return Bytes(path, data, opts)
}

// Bytes inspects an in-memory copy of a database file.
func Bytes(path primitives.Filepath, data []byte, opts Options) (*Report, error) {
	if len(data)%page.PageSize != 0 {
		return nil, dberror.New(dberror.ErrCategoryData, dberror.CodeCorruptFile,
			"Db file is not a whole number of pages. Corrupt file.").
			WithContext("Bytes", component).
			WithDetail("%s has %d bytes, page size is %d", path, len(data), page.PageSize)
	}

	report := &Report{
		Path:   path,
		Size:   int64(len(data)),
		Digest: digest(data),
	}

	for n := 0; n*page.PageSize < len(data); n++ {
		buf := data[n*page.PageSize : (n+1)*page.PageSize]
		report.Pages = append(report.Pages, inspectPage(primitives.PageNumber(n), buf, opts))
	}
	return report, nil
}

func inspectPage(num primitives.PageNumber, buf []byte, opts Options) PageReport {
	pr := PageReport{
		Number: num,
		Type:   btree.TypeOf(buf),
		Digest: digest(buf),
	}

	node, err := btree.NodeFor(buf)
	if err != nil {
		pr.Err = err
		return pr
	}
	pr.IsRoot = node.IsRoot()
	pr.Parent = node.Parent()

	leaf, ok := node.(*btree.LeafNode)
	if !ok {
		pr.Err = fmt.Errorf("inspect: unexpected node variant %T", node)
		return pr
	}
	pr.NumCells = leaf.NumCells()

	if opts.Cells {
		it := leaf.Scan()
		for it.HasNext() {
			cell, err := it.Next()
			if err != nil {
				pr.Err = err
				break
			}
			pr.Keys = append(pr.Keys, cell.Key)
		}
	}
	return pr
}

func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
