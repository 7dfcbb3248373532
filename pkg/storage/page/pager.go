package page

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	dberror "nsql/pkg/error"
	"nsql/pkg/logging"
	"nsql/pkg/primitives"
)

const component = "Pager"

// Pager mediates between in-memory page buffers and the database file.
//
// The Pager is the single owner of both the OS file handle and the page cache.
// Pages are materialised lazily: the first GetPage for a page either reads it
// from the file or, for a page past the end of the file, hands out a fresh
// zeroed buffer. Mutations only ever touch the cached buffers; the file is
// written when a page is flushed, which in practice happens on Close.
//
// Key responsibilities:
//   - Validating that the file is a whole number of pages on open
//   - Caching up to TableMaxPages page buffers
//   - Tracking how many pages the database logically has
//   - Writing cached pages back at pageNum * PageSize
//
// Thread-safety: none. A Pager belongs to exactly one Table in one goroutine.
type Pager struct {
	file       *os.File            // The underlying OS file handle, nil once closed
	filePath   primitives.Filepath // Path used to open the file
	fileLength int64               // Length of the file when it was opened
	numPages   primitives.PageNumber
	pages      [TableMaxPages][]byte
	log        *slog.Logger
}

// Open opens (creating if absent) the database file for read/write.
//
// This function checks the file length before anything is cached: a file that is
// not an exact multiple of PageSize was not written by this engine or was cut
// short, and is reported as CORRUPT_FILE.
//
// Parameters:
//   - filePath: The path to the database file to open
//
// Returns:
//   - *Pager: A pager with an empty cache
//   - error: CORRUPT_FILE, or IO_FAILURE if the file cannot be opened or stat'ed
func Open(filePath primitives.Filepath) (*Pager, error) {
	if filePath.IsEmpty() {
		return nil, dberror.New(dberror.ErrCategorySystem, dberror.CodeIOFailure, "filePath cannot be empty").
			WithContext("Open", component)
	}

	if err := filePath.MkdirAll(0o755); err != nil {
		return nil, dberror.Wrap(err, dberror.CodeIOFailure, "Open", component)
	}

	file, err := openFile(filePath)
	if err != nil {
		return nil, dberror.Wrap(err, dberror.CodeIOFailure, "Open", component)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, dberror.Wrap(fmt.Errorf("failed to stat file: %w", err), dberror.CodeIOFailure, "Open", component)
	}

	length := info.Size()
	if length%PageSize != 0 {
		_ = file.Close()
		return nil, dberror.New(dberror.ErrCategoryData, dberror.CodeCorruptFile,
			"Db file is not a whole number of pages. Corrupt file.").
			WithContext("Open", component).
			WithDetail("%s has %d bytes, page size is %d", filePath, length, PageSize)
	}

	p := &Pager{
		file:       file,
		filePath:   filePath,
		fileLength: length,
		numPages:   primitives.PageNumber(length / PageSize),
		log:        logging.WithComponent(component).With("file", filePath.String()),
	}
	p.log.Debug("pager opened", "bytes", length, "pages", p.numPages)
	return p, nil
}

// FilePath returns the path used to open the database file.
func (p *Pager) FilePath() primitives.Filepath {
	return p.filePath
}

// NumPages returns the number of pages the database logically has: the pages
// present in the file plus any page allocated in the cache since.
func (p *Pager) NumPages() primitives.PageNumber {
	return p.numPages
}

// GetPage returns the buffer for pageNum, loading or allocating it on a cache miss.
//
// On a miss, a page that exists in the file is read from offset pageNum*PageSize;
// any other page starts out zeroed and extends the page count to pageNum+1.
// The returned slice is the cached buffer itself: writes through it are what Close persists.
//
// Returns:
//   - []byte: The PageSize-byte cached page
//   - error: PAGE_OUT_OF_BOUNDS past TableMaxPages, TABLE_CLOSED, or IO_FAILURE on a short read
func (p *Pager) GetPage(pageNum primitives.PageNumber) ([]byte, error) {
	if p.file == nil {
		return nil, closedError("GetPage")
	}

	if pageNum >= TableMaxPages {
		return nil, dberror.New(dberror.ErrCategorySystem, dberror.CodePageOutOfBounds,
			"Tried to fetch page number out of bounds.").
			WithContext("GetPage", component).
			WithDetail("page %d, limit %d", pageNum, TableMaxPages)
	}

	if cached := p.pages[pageNum]; cached != nil {
		return cached, nil
	}

	buf := make([]byte, PageSize)
	filePages := primitives.PageNumber(p.fileLength / PageSize)

	if pageNum < filePages {
		n, err := p.file.ReadAt(buf, pageNum.Offset(PageSize))
		if err != nil && !(errors.Is(err, io.EOF) && n == PageSize) {
			return nil, dberror.Wrap(fmt.Errorf("failed to read page %d: %w", pageNum, err),
				dberror.CodeIOFailure, "GetPage", component)
		}
		p.log.Debug("page loaded", "page", pageNum)
	} else {
		p.log.Debug("page allocated", "page", pageNum)
	}

	p.pages[pageNum] = buf
	if pageNum >= p.numPages {
		p.numPages = pageNum + 1
	}

	return buf, nil
}

// Flush writes the first size bytes of the cached page back to the file at the page's offset.
//
// The caller decides how many bytes are meaningful. Flushing fewer than PageSize
// bytes of the last page leaves the file shorter than a whole page, so the table
// always flushes full pages.
//
// Returns:
//   - error: PAGE_NOT_CACHED if the page was never loaded, IO_FAILURE if the write fails
func (p *Pager) Flush(pageNum primitives.PageNumber, size int) error {
	if p.file == nil {
		return closedError("Flush")
	}

	if pageNum >= TableMaxPages || p.pages[pageNum] == nil {
		return dberror.New(dberror.ErrCategorySystem, dberror.CodePageNotCached, "Tried to flush null page").
			WithContext("Flush", component).
			WithDetail("page %d", pageNum)
	}

	if size < 0 || size > PageSize {
		return dberror.New(dberror.ErrCategorySystem, dberror.CodeIOFailure, "invalid flush size").
			WithContext("Flush", component).
			WithDetail("size %d, page size %d", size, PageSize)
	}

	offset := pageNum.Offset(PageSize)
	if _, err := p.file.WriteAt(p.pages[pageNum][:size], offset); err != nil {
		return dberror.Wrap(fmt.Errorf("failed to write page data: %w", err), dberror.CodeIOFailure, "Flush", component)
	}

	if end := offset + int64(size); end > p.fileLength {
		p.fileLength = end
	}

	p.log.Debug("page flushed", "page", pageNum, "bytes", size)
	return nil
}

// Close flushes every cached page in full, syncs, and closes the file handle.
//
// The handle is released even when a flush or the sync fails; the first error
// is returned. After Close the cache is dropped and every other method returns
// TABLE_CLOSED, including a second Close.
func (p *Pager) Close() error {
	if p.file == nil {
		return closedError("Close")
	}

	var firstErr error
	for i := primitives.PageNumber(0); i < p.numPages; i++ {
		if p.pages[i] == nil {
			continue
		}
		if err := p.Flush(i, PageSize); err != nil {
			firstErr = err
			break
		}
	}

	if firstErr == nil {
		if err := p.file.Sync(); err != nil {
			firstErr = dberror.Wrap(fmt.Errorf("failed to sync file: %w", err), dberror.CodeIOFailure, "Close", component)
		}
	}

	if err := p.file.Close(); err != nil && firstErr == nil {
		firstErr = dberror.Wrap(err, dberror.CodeIOFailure, "Close", component)
	}
	p.file = nil
	p.pages = [TableMaxPages][]byte{}

	if firstErr != nil {
		p.log.Error("pager close failed", "error", firstErr)
		return firstErr
	}

	p.log.Debug("pager closed", "pages", p.numPages)
	return nil
}

func closedError(operation string) error {
	return dberror.New(dberror.ErrCategorySystem, dberror.CodeTableClosed, "pager is closed").
		WithContext(operation, component)
}

func openFile(filename primitives.Filepath) (*os.File, error) {
	file, err := os.OpenFile(string(filename), os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	return file, nil
}
