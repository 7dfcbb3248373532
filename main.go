package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"nsql/pkg/database"
	"nsql/pkg/debug/inspect"
	"nsql/pkg/logging"
	"nsql/pkg/primitives"
	"nsql/pkg/repl"
	"nsql/pkg/ui"
)

// CLI is the command line of the nsql binary.
var CLI struct {
	LogLevel  string `name:"log-level" help:"Log verbosity (debug, info, warn, error)" enum:"debug,info,warn,error" default:"warn" env:"NSQL_LOG_LEVEL"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" enum:"text,json" default:"text"`
	LogFile   string `name:"log-file" help:"Write logs to this file instead of stderr" type:"path"`

	Repl    ReplCmd    `cmd:"" default:"withargs" help:"Open a database file and read statements (default)"`
	Inspect InspectCmd `cmd:"" help:"Dump the pages of a database file without modifying it"`
}

// ReplCmd runs the statement loop.
type ReplCmd struct {
	File   string `arg:"" optional:"" default:"nsql.db" help:"Database file" type:"path"`
	TUI    bool   `name:"tui" help:"Use the full-screen console when attached to a terminal"`
	Import string `name:"import" help:"Execute a newline-separated statement script before the prompt" type:"existingfile"`
}

func (c *ReplCmd) Run() error {
	log := logging.WithComponent("main")

	db, err := database.Open(c.File)
	if err != nil {
		return err
	}

	if c.Import != "" {
		exited, err := importScript(db, c.Import)
		if err != nil || exited {
			return err
		}
	}

	if c.TUI {
		if isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
			return startInteractiveMode(db)
		}
		log.Warn("--tui needs a terminal, falling back to the line prompt")
	}

	return repl.Run(db, os.Stdin, os.Stdout)
}

// importScript runs a statement file and reports the outcome on stderr.
func importScript(db *database.Database, path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to read import file: %w", err)
	}
	defer f.Close()

	report, err := repl.Import(db, f, os.Stderr)
	if err != nil {
		return false, err
	}
	fmt.Fprintln(os.Stderr, report)
	return report.Exited, nil
}

// startInteractiveMode launches the Bubble Tea UI
func startInteractiveMode(db *database.Database) error {
	p := tea.NewProgram(
		ui.NewModel(db),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	if m, ok := final.(ui.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return db.Close()
}

// InspectCmd prints a read-only page report.
type InspectCmd struct {
	File  string `arg:"" help:"Database file" type:"existingfile"`
	Cells bool   `name:"cells" help:"List the key of every cell"`
}

func (c *InspectCmd) Run() error {
	report, err := inspect.File(primitives.Filepath(c.File), inspect.Options{Cells: c.Cells})
	if err != nil {
		return err
	}
	return report.Render(os.Stdout)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("nsql"),
		kong.Description("A single-table storage engine with a line-oriented statement prompt"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := logging.Init(logging.Config{
		Level:      logging.LogLevel(CLI.LogLevel),
		OutputPath: CLI.LogFile,
		Format:     CLI.LogFormat,
	})
	ctx.FatalIfErrorf(err)

	err = ctx.Run()
	_ = logging.Close()
	ctx.FatalIfErrorf(err)
}
