package repl

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"nsql/pkg/database"
	dberror "nsql/pkg/error"
)

func openSession(t *testing.T, path string) *database.Database {
	t.Helper()
	db, err := database.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return db
}

// runScript feeds commands to a fresh loop and returns the transcript split
// into lines, the way a piped terminal would show it.
func runScript(t *testing.T, path string, commands []string) []string {
	t.Helper()
	db := openSession(t, path)
	defer db.Close()

	in := strings.NewReader(strings.Join(commands, "\n") + "\n")
	var out bytes.Buffer
	if err := Run(db, in, &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return strings.Split(out.String(), "\n")
}

func assertTranscript(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("transcript =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func TestRun_InsertAndRetrieve(t *testing.T) {
	got := runScript(t, tempDB(t), []string{
		"insert 1 user1 person1@example.com",
		"select",
		".exit",
	})

	assertTranscript(t, got, []string{
		"nSQL> Executed.",
		"nSQL> (1, user1, person1@example.com)",
		"Executed.",
		"nSQL> ",
	})
}

func TestRun_TableFull(t *testing.T) {
	var script []string
	for i := 1; i <= 14; i++ {
		script = append(script, fmt.Sprintf("insert %d user%d person%d@example.com", i, i, i))
	}
	script = append(script, ".exit")

	got := runScript(t, tempDB(t), script)
	if got[len(got)-2] != "nSQL> Error: Table full." {
		t.Errorf("second to last line = %q", got[len(got)-2])
	}
	if got[len(got)-3] != "nSQL> Executed." {
		t.Errorf("13th insert line = %q", got[len(got)-3])
	}
}

func TestRun_MaxLengthStrings(t *testing.T) {
	username := strings.Repeat("a", 32)
	email := strings.Repeat("a", 255)

	got := runScript(t, tempDB(t), []string{
		fmt.Sprintf("insert 1 %s %s", username, email),
		"select",
		".exit",
	})

	assertTranscript(t, got, []string{
		"nSQL> Executed.",
		fmt.Sprintf("nSQL> (1, %s, %s)", username, email),
		"Executed.",
		"nSQL> ",
	})
}

func TestRun_StringsTooLong(t *testing.T) {
	got := runScript(t, tempDB(t), []string{
		fmt.Sprintf("insert 1 %s %s", strings.Repeat("a", 33), strings.Repeat("a", 257)),
		"select",
		".exit",
	})

	assertTranscript(t, got, []string{
		"nSQL> String is too long.",
		"nSQL> Executed.",
		"nSQL> ",
	})
}

func TestRun_OversizeLineKeepsSession(t *testing.T) {
	path := tempDB(t)

	got := runScript(t, path, []string{
		"insert 1 a a@x",
		fmt.Sprintf("insert 2 %s e@x", strings.Repeat("u", 2<<20)),
		"select",
		".exit",
	})
	assertTranscript(t, got, []string{
		"nSQL> Executed.",
		"nSQL> String is too long.",
		"nSQL> (1, a, a@x)",
		"Executed.",
		"nSQL> ",
	})

	reopened := runScript(t, path, []string{"select"})
	assertTranscript(t, reopened, []string{
		"nSQL> (1, a, a@x)",
		"Executed.",
		"nSQL> ",
	})
}

func TestRun_LastLineWithoutNewline(t *testing.T) {
	db := openSession(t, tempDB(t))

	var out bytes.Buffer
	if err := Run(db, strings.NewReader("insert 1 a a@x\r\nselect"), &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.String() != "nSQL> Executed.\nnSQL> (1, a, a@x)\nExecuted.\nnSQL> " {
		t.Errorf("transcript = %q", out.String())
	}
}

func TestRun_NegativeID(t *testing.T) {
	got := runScript(t, tempDB(t), []string{
		"insert -1 cstack foo@bar.com",
		"select",
		".exit",
	})

	assertTranscript(t, got, []string{
		"nSQL> ID must be positive.",
		"nSQL> Executed.",
		"nSQL> ",
	})
}

func TestRun_KeepsDataAfterClose(t *testing.T) {
	path := tempDB(t)

	first := runScript(t, path, []string{
		"insert 1 user1 person1@example.com",
		".exit",
	})
	assertTranscript(t, first, []string{
		"nSQL> Executed.",
		"nSQL> ",
	})

	second := runScript(t, path, []string{
		"select",
		".exit",
	})
	assertTranscript(t, second, []string{
		"nSQL> (1, user1, person1@example.com)",
		"Executed.",
		"nSQL> ",
	})
}

func TestRun_ConstantsAndTree(t *testing.T) {
	got := runScript(t, tempDB(t), []string{
		"insert 3 user3 person3@example.com",
		"insert 1 user1 person1@example.com",
		"insert 2 user2 person2@example.com",
		".btree",
		".constants",
		".exit",
	})

	assertTranscript(t, got, []string{
		"nSQL> Executed.",
		"nSQL> Executed.",
		"nSQL> Executed.",
		"nSQL> Tree:",
		"leaf (size 3)",
		"  - 0 : 3",
		"  - 1 : 1",
		"  - 2 : 2",
		"nSQL> Constants:",
		"ROW_SIZE: 293",
		"COMMON_NODE_HEADER_SIZE: 6",
		"LEAF_NODE_HEADER_SIZE: 10",
		"LEAF_NODE_CELL_SIZE: 297",
		"LEAF_NODE_SPACE_FOR_CELLS: 4106",
		"LEAF_NODE_MAX_CELLS: 13",
		"nSQL> ",
	})
}

func TestRun_ErrorsAndBlankLines(t *testing.T) {
	got := runScript(t, tempDB(t), []string{
		"",
		"foo bar",
		".foo",
		"insert 1 onlyuser",
		".exit",
	})

	assertTranscript(t, got, []string{
		"nSQL> nSQL> Unrecognized keyword at start of 'foo bar'.",
		"nSQL> Unrecognized command '.foo'",
		"nSQL> Syntax error. Could not parse statement.",
		"nSQL> ",
	})
}

func TestRun_EndOfInputClosesCleanly(t *testing.T) {
	path := tempDB(t)
	db := openSession(t, path)

	var out bytes.Buffer
	if err := Run(db, strings.NewReader("insert 5 user5 person5@example.com\n"), &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.String() != "nSQL> Executed.\nnSQL> " {
		t.Errorf("transcript = %q", out.String())
	}
	if !db.Closed() {
		t.Error("end of input must close the session")
	}

	got := runScript(t, path, []string{"select"})
	assertTranscript(t, got, []string{
		"nSQL> (5, user5, person5@example.com)",
		"Executed.",
		"nSQL> ",
	})
}

type fatalSession struct {
	closed bool
}

func (s *fatalSession) Execute(string) (database.QueryResult, error) {
	return database.QueryResult{}, dberror.New(dberror.ErrCategorySystem, dberror.CodeIOFailure, "disk gone")
}

func (s *fatalSession) Close() error {
	s.closed = true
	return nil
}

func TestRun_FatalErrorStops(t *testing.T) {
	session := &fatalSession{}
	var out bytes.Buffer

	err := Run(session, strings.NewReader("select\nselect\n"), &out)
	if !errors.Is(err, dberror.ErrIOFailure) {
		t.Fatalf("expected IO_FAILURE, got %v", err)
	}
	if session.closed {
		t.Error("fatal error must not close the session")
	}
	if out.String() != Prompt {
		t.Errorf("transcript = %q", out.String())
	}
}
