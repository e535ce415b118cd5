package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rowantrollope/handycmd/internal/cmd"
	"github.com/rowantrollope/handycmd/internal/config"
	"github.com/rowantrollope/handycmd/internal/output"
)

// Lister lists a backend directory for path completion.
type Lister interface {
	ReadDir(ctx context.Context, path string) ([]string, error)
	IsDir(ctx context.Context, path string) (bool, error)
}

// REPL is the interactive read-eval-print loop. Input is collected until a line
// ends with ';' and then dispatched as one document.
type REPL struct {
	Dispatcher *cmd.Dispatcher
	Lister     Lister
	Config     *config.Config
	Formatter  *output.Formatter
	// Label names the backend in the prompt.
	Label string

	buf strings.Builder
}

// NewREPL creates a new REPL instance.
func NewREPL(d *cmd.Dispatcher, lister Lister, cfg *config.Config, formatter *output.Formatter, label string) *REPL {
	return &REPL{
		Dispatcher: d,
		Lister:     lister,
		Config:     cfg,
		Formatter:  formatter,
		Label:      label,
	}
}

// Run starts the interactive REPL loop.
func (r *REPL) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          r.prompt(),
		HistoryFile:     r.Config.HistoryFile,
		HistoryLimit:    10000,
		AutoComplete:    NewCompleter(r.Lister),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer rl.Close()

	for {
		rl.SetPrompt(r.prompt())

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			r.buf.Reset()
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if quit := r.Feed(ctx, line); quit {
			return nil
		}
	}
}

func (r *REPL) prompt() string {
	return BuildPrompt(r.Label, r.Pending(), r.Config.ShouldColor())
}

// Pending returns true while a statement is being continued over several lines.
func (r *REPL) Pending() bool {
	return r.buf.Len() > 0
}

// Feed handles one input line and returns true when the user asked to leave.
func (r *REPL) Feed(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)

	if !r.Pending() {
		if trimmed == "" {
			return false
		}
		if quit, handled := r.builtin(trimmed); handled {
			return quit
		}
	}

	r.buf.WriteString(line)
	r.buf.WriteString("\n")
	if !strings.HasSuffix(trimmed, ";") {
		return false
	}

	text := r.buf.String()
	r.buf.Reset()

	sum := r.Dispatcher.Dispatch(ctx, text)
	if sum.Total() == 0 {
		r.Formatter.Errorf("no statement recognized, type 'help' for the grammar\n")
	}
	return false
}

func (r *REPL) builtin(line string) (quit, handled bool) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "exit", "quit":
		return len(fields) == 1, len(fields) == 1
	case "help":
		topic := ""
		if len(fields) > 1 {
			topic = fields[1]
		}
		cmd.WriteHelp(r.Formatter.Writer, topic)
		return false, true
	case "clear":
		if len(fields) == 1 {
			fmt.Fprint(r.Formatter.Writer, "\033[H\033[2J")
			return false, true
		}
	}
	return false, false
}
