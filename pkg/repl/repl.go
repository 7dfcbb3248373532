// Package repl runs the line-oriented statement loop over any reader and writer.
//
// The transcript format is fixed: the prompt is written without a newline, and
// each output line of a statement follows it. Nothing else is written to out;
// diagnostics go through the logger.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"nsql/pkg/database"
	"nsql/pkg/logging"
)

// Prompt is written before every line is read.
const Prompt = "nSQL> "

// Session is the subset of a database session the loop needs.
type Session interface {
	Execute(line string) (database.QueryResult, error)
	Close() error
}

// Run reads lines from in until .exit or end of input.
//
// Blank lines are skipped and prompt again. At end of input the session is
// closed exactly as .exit would. A fatal error from Execute stops the loop and
// is returned; the session is not closed so that nothing half-applied is flushed.
func Run(session Session, in io.Reader, out io.Writer) error {
	log := logging.WithComponent("REPL")
	reader := bufio.NewReader(in)

	for {
		if _, err := io.WriteString(out, Prompt); err != nil {
			return fmt.Errorf("failed to write prompt: %w", err)
		}

		line, ok, err := readLine(reader)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if !ok {
			log.Debug("end of input")
			return session.Close()
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		result, err := session.Execute(line)
		if err != nil {
			logging.WithError(err).Debug("session aborted")
			return err
		}

		if err := writeLines(out, result.Lines); err != nil {
			return err
		}

		if result.Exit {
			log.Debug("exit requested")
			return nil
		}
	}
}

// readLine returns the next line without its line terminator. Lines have no
// length limit; an oversize value is rejected by statement validation instead.
// ok is false once the input is exhausted.
func readLine(r *bufio.Reader) (line string, ok bool, err error) {
	line, err = r.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF):
		if line == "" {
			return "", false, nil
		}
	case err != nil:
		return "", false, err
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

func writeLines(out io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(out, l); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
