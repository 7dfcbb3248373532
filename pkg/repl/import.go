package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ImportReport summarizes a script run.
type ImportReport struct {
	Total      int
	Successful int
	Exited     bool
}

func (r ImportReport) String() string {
	return fmt.Sprintf("Import completed: %d/%d statements successful", r.Successful, r.Total)
}

// Import executes a newline-separated statement script.
//
// Each non-blank line is one statement. Rejected statements are reported to
// diag and the script continues; a fatal error stops it and is returned. A
// .exit line closes the session and ends the script.
func Import(session Session, script io.Reader, diag io.Writer) (ImportReport, error) {
	var report ImportReport

	reader := bufio.NewReader(script)

	for {
		line, ok, err := readLine(reader)
		if err != nil {
			return report, fmt.Errorf("failed to read script: %w", err)
		}
		if !ok {
			return report, nil
		}

		stmt := strings.TrimSpace(line)
		if stmt == "" {
			continue
		}
		report.Total++

		result, err := session.Execute(stmt)
		if err != nil {
			return report, err
		}

		if !result.Success {
			fmt.Fprintf(diag, "Failed to execute: %s\n   Error: %s\n",
				truncateString(stmt, 50), strings.Join(result.Lines, " "))
			continue
		}
		report.Successful++

		if result.Exit {
			report.Exited = true
			return report, nil
		}
	}
}

// truncateString limits string length for display, cutting on a rune boundary.
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	runes := 0
	for i := range s {
		if runes == maxLen-3 {
			return s[:i] + "..."
		}
		runes++
	}
	return s
}
