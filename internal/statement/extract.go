package statement

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned when the correlated captures of a statement kind do not
// line up, e.g. more WRITE paths than WRITE bodies.
var ErrMalformed = errors.New("malformed statement")

// MalformedError reports mismatched capture counts for one kind.
type MalformedError struct {
	Kind   Kind
	Slots  []string
	Counts []int
}

func (e *MalformedError) Error() string {
	parts := make([]string, len(e.Slots))
	for i, slot := range e.Slots {
		parts[i] = fmt.Sprintf("%d %s", e.Counts[i], slot)
	}
	return fmt.Sprintf("%s: %s captures do not line up (%s)", ErrMalformed, e.Kind, strings.Join(parts, ", "))
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}

// Command is one matched occurrence of a statement.
type Command struct {
	Kind  Kind
	Slots []string
	Args  []string
}

// Arg returns the capture for slot, or "" if the command has no such slot.
func (c Command) Arg(slot string) string {
	for i, s := range c.Slots {
		if s == slot {
			return c.Args[i]
		}
	}
	return ""
}

// Extract returns every non-overlapping occurrence of p in text, left to right.
// Each matcher is run over the whole text and the Nth result of every matcher is
// paired into the Nth command. Captures are trimmed.
func Extract(p Pattern, text string) ([]Command, error) {
	if len(p.Matchers) == 0 {
		return nil, nil
	}

	columns := make([][]string, len(p.Matchers))
	for i, m := range p.Matchers {
		for _, sub := range m.Re.FindAllStringSubmatch(text, -1) {
			columns[i] = append(columns[i], strings.TrimSpace(sub[1]))
		}
	}

	n := len(columns[0])
	for _, col := range columns[1:] {
		if len(col) != n {
			counts := make([]int, len(columns))
			for i, c := range columns {
				counts[i] = len(c)
			}
			return nil, &MalformedError{Kind: p.Kind, Slots: p.Slots(), Counts: counts}
		}
	}

	slots := p.Slots()
	commands := make([]Command, 0, n)
	for i := 0; i < n; i++ {
		args := make([]string, len(columns))
		for j := range columns {
			args[j] = columns[j][i]
		}
		if excluded(args, p.Exclude) {
			continue
		}
		commands = append(commands, Command{Kind: p.Kind, Slots: slots, Args: args})
	}
	return commands, nil
}

func excluded(args, words []string) bool {
	for _, arg := range args {
		for _, field := range strings.Fields(arg) {
			for _, w := range words {
				if field == w {
					return true
				}
			}
		}
	}
	return false
}
