package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rowantrollope/handycmd/internal/cmd"
	"github.com/rowantrollope/handycmd/internal/statement"
)

// Formatter handles text/JSON/colored output. It implements cmd.Reporter.
type Formatter struct {
	Writer    io.Writer
	ErrWriter io.Writer
	JSON      bool
	Color     bool

	mu sync.Mutex
}

// NewFormatter creates a new output formatter.
func NewFormatter(jsonMode, colorMode bool) *Formatter {
	return &Formatter{
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		JSON:      jsonMode,
		Color:     colorMode,
	}
}

// Record is the JSON form of one outcome.
type Record struct {
	Kind     statement.Kind `json:"kind"`
	Category cmd.Category   `json:"category"`
	Targets  []string       `json:"targets,omitempty"`
	Message  string         `json:"message"`
	Error    string         `json:"error,omitempty"`
}

// NewRecord converts an outcome into its JSON record.
func NewRecord(o cmd.Outcome) Record {
	r := Record{
		Kind:     o.Kind,
		Category: o.Category(),
		Targets:  o.Targets,
		Message:  o.Message(),
	}
	if o.Err != nil {
		r.Error = o.Err.Error()
	}
	return r
}

// Report writes one line per outcome. The batch is written under a single lock
// so concurrent passes never interleave their lines.
func (f *Formatter) Report(kind statement.Kind, outcomes []cmd.Outcome) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, o := range outcomes {
		if f.JSON {
			f.writeJSON(NewRecord(o))
			continue
		}
		f.writeText(o)
	}
}

func (f *Formatter) writeJSON(r Record) {
	w := f.Writer
	if r.Category == cmd.CategoryError {
		w = f.ErrWriter
	}
	// one record per line
	enc := json.NewEncoder(w)
	_ = enc.Encode(r)
}

func (f *Formatter) writeText(o cmd.Outcome) {
	msg := o.Message()
	switch o.Category() {
	case cmd.CategorySuccess:
		fmt.Fprintln(f.Writer, f.paint(color.FgGreen, msg))
	case cmd.CategoryWarn:
		fmt.Fprintln(f.Writer, f.paint(color.FgYellow, msg))
	default:
		fmt.Fprintln(f.ErrWriter, f.paint(color.FgRed, msg))
	}
}

func (f *Formatter) paint(attr color.Attribute, s string) string {
	if !f.Color {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

// Printf prints formatted text to stdout.
func (f *Formatter) Printf(format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.Writer, format, args...)
}

// Println prints a line to stdout.
func (f *Formatter) Println(args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintln(f.Writer, args...)
}

// Errorf prints a formatted error message to stderr.
func (f *Formatter) Errorf(format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprint(f.ErrWriter, f.paint(color.FgRed, fmt.Sprintf(format, args...)))
}

// PrintSummary prints the totals of a dispatch pass.
func (f *Formatter) PrintSummary(sum cmd.Summary) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.JSON {
		enc := json.NewEncoder(f.Writer)
		_ = enc.Encode(map[string]interface{}{
			"kinds":          sum.Kinds,
			"succeeded":      sum.Succeeded,
			"already_exists": sum.AlreadyExists,
			"failed":         sum.Failed,
		})
		return
	}
	fmt.Fprintln(f.Writer, f.paint(color.Faint, sum.String()))
}
