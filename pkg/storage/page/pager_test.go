package page

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	dberror "nsql/pkg/error"
	"nsql/pkg/primitives"
)

func tempDBPath(t *testing.T) primitives.Filepath {
	t.Helper()
	return primitives.Filepath(filepath.Join(t.TempDir(), "test.db"))
}

func mustOpen(t *testing.T, path primitives.Filepath) *Pager {
	t.Helper()
	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return p
}

func TestOpen_CreatesEmptyFile(t *testing.T) {
	path := tempDBPath(t)
	p := mustOpen(t, path)

	if p.NumPages() != 0 {
		t.Errorf("expected 0 pages, got %d", p.NumPages())
	}
	if !path.Exists() {
		t.Error("expected file to be created")
	}
	if p.FilePath() != path {
		t.Errorf("FilePath() = %s, want %s", p.FilePath(), path)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestOpen_CreatesParentDirectories(t *testing.T) {
	path := primitives.Filepath(filepath.Join(t.TempDir(), "a", "b", "test.db"))
	p := mustOpen(t, path)
	defer p.Close()

	if !path.Exists() {
		t.Error("expected nested file to be created")
	}
}

func TestOpen_RejectsPartialPage(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"one byte", 1},
		{"header only", 10},
		{"page and a half", PageSize + PageSize/2},
		{"old 4096-byte page", 4096},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tempDBPath(t)
			if err := os.WriteFile(path.String(), make([]byte, tt.length), 0o644); err != nil {
				t.Fatalf("setup failed: %v", err)
			}

			_, err := Open(path)
			if !errors.Is(err, dberror.ErrCorruptFile) {
				t.Fatalf("expected CORRUPT_FILE, got %v", err)
			}
			if !dberror.IsFatal(err) {
				t.Error("corrupt file must be fatal")
			}
		})
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestGetPage_AllocatesZeroedPage(t *testing.T) {
	p := mustOpen(t, tempDBPath(t))
	defer p.Close()

	buf, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if len(buf) != PageSize {
		t.Fatalf("page length %d, want %d", len(buf), PageSize)
	}
	if !bytes.Equal(buf, make([]byte, PageSize)) {
		t.Error("new page should be zeroed")
	}
	if p.NumPages() != 1 {
		t.Errorf("expected 1 page, got %d", p.NumPages())
	}

	again, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	buf[0] = 0xAB
	if again[0] != 0xAB {
		t.Error("expected the cached buffer to be returned")
	}
}

func TestGetPage_GrowsPageCount(t *testing.T) {
	p := mustOpen(t, tempDBPath(t))
	defer p.Close()

	if _, err := p.GetPage(4); err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if p.NumPages() != 5 {
		t.Errorf("expected 5 pages, got %d", p.NumPages())
	}

	if _, err := p.GetPage(2); err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if p.NumPages() != 5 {
		t.Errorf("page count must not shrink, got %d", p.NumPages())
	}
}

func TestGetPage_OutOfBounds(t *testing.T) {
	p := mustOpen(t, tempDBPath(t))
	defer p.Close()

	if _, err := p.GetPage(TableMaxPages - 1); err != nil {
		t.Fatalf("last page should be addressable: %v", err)
	}

	_, err := p.GetPage(TableMaxPages)
	if !errors.Is(err, dberror.ErrPageOutOfBounds) {
		t.Fatalf("expected PAGE_OUT_OF_BOUNDS, got %v", err)
	}
}

func TestClose_PersistsPages(t *testing.T) {
	path := tempDBPath(t)
	p := mustOpen(t, path)

	page0, _ := p.GetPage(0)
	copy(page0, []byte("first page"))
	page1, _ := p.GetPage(1)
	copy(page1[PageSize-4:], []byte("tail"))

	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	info, err := os.Stat(path.String())
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() != 2*PageSize {
		t.Fatalf("file size %d, want %d", info.Size(), 2*PageSize)
	}

	reopened := mustOpen(t, path)
	defer reopened.Close()

	if reopened.NumPages() != 2 {
		t.Fatalf("expected 2 pages after reopen, got %d", reopened.NumPages())
	}

	got0, err := reopened.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage(0) failed: %v", err)
	}
	if !bytes.HasPrefix(got0, []byte("first page")) {
		t.Errorf("page 0 not persisted: %q", got0[:10])
	}

	got1, err := reopened.GetPage(1)
	if err != nil {
		t.Fatalf("GetPage(1) failed: %v", err)
	}
	if string(got1[PageSize-4:]) != "tail" {
		t.Errorf("page 1 not persisted: %q", got1[PageSize-4:])
	}
}

func TestFlush_PartialWrite(t *testing.T) {
	path := tempDBPath(t)
	p := mustOpen(t, path)
	defer p.Close()

	buf, _ := p.GetPage(0)
	copy(buf, []byte("header"))

	if err := p.Flush(0, 6); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	data, err := os.ReadFile(path.String())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "header" {
		t.Errorf("file content %q, want %q", data, "header")
	}
}

func TestFlush_Errors(t *testing.T) {
	p := mustOpen(t, tempDBPath(t))
	defer p.Close()

	if err := p.Flush(3, PageSize); !errors.Is(err, dberror.ErrPageNotCached) {
		t.Errorf("expected PAGE_NOT_CACHED, got %v", err)
	}

	if _, err := p.GetPage(0); err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if err := p.Flush(0, PageSize+1); err == nil {
		t.Error("expected error for oversize flush")
	}
}

func TestClose_Twice(t *testing.T) {
	p := mustOpen(t, tempDBPath(t))
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := p.Close(); !errors.Is(err, dberror.ErrTableClosed) {
		t.Errorf("expected TABLE_CLOSED on second close, got %v", err)
	}
	if _, err := p.GetPage(0); !errors.Is(err, dberror.ErrTableClosed) {
		t.Errorf("expected TABLE_CLOSED after close, got %v", err)
	}
}

func TestClose_ReleasesHandleOnFlushFailure(t *testing.T) {
	p := mustOpen(t, tempDBPath(t))

	if _, err := p.GetPage(0); err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	file := p.file
	if err := file.Close(); err != nil {
		t.Fatalf("setup close failed: %v", err)
	}

	if err := p.Close(); !errors.Is(err, dberror.ErrIOFailure) {
		t.Fatalf("expected IO_FAILURE, got %v", err)
	}
	if p.file != nil {
		t.Error("file handle should be released after a failed close")
	}
	if err := p.Close(); !errors.Is(err, dberror.ErrTableClosed) {
		t.Errorf("expected TABLE_CLOSED after failed close, got %v", err)
	}
}
