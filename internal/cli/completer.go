package cli

import (
	"context"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rowantrollope/handycmd/internal/statement"
)

// Keywords that appear inside a statement rather than at its start.
var infixKeywords = map[string]bool{
	"TO":            true,
	"THIS CONTENT:": true,
	"FORCE":         true,
}

var builtinCommands = []string{"clear", "exit", "help", "quit"}

// NewCompleter creates a tab completer for the REPL. lister may be nil, which
// disables path completion.
func NewCompleter(lister Lister) *Completer {
	var starters, infix []string
	for _, kw := range statement.Keywords() {
		if infixKeywords[kw] {
			infix = append(infix, kw)
		} else {
			starters = append(starters, kw)
		}
	}
	return &Completer{lister: lister, starters: starters, infix: infix}
}

// Completer provides tab completion for the REPL.
type Completer struct {
	lister   Lister
	starters []string
	infix    []string
}

// Do implements readline.AutoCompleter.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	lineStr := string(line[:pos])

	// only the statement being typed matters
	stmt := lineStr
	if i := strings.LastIndex(stmt, ";"); i >= 0 {
		stmt = stmt[i+1:]
	}
	stmt = strings.TrimLeft(stmt, " \t")

	partial := ""
	if !strings.HasSuffix(lineStr, " ") {
		if fields := strings.Fields(stmt); len(fields) > 0 {
			partial = fields[len(fields)-1]
		}
	}

	// statement keywords, including the two-word ones
	cands := completeKeyword(stmt, c.starters)
	if stmt == lineStr && !strings.Contains(stmt, " ") {
		cands = append(cands, completeWord(stmt, builtinCommands)...)
	}
	if len(cands) > 0 {
		return cands, len(partial)
	}

	if partial != "" && partial == strings.ToUpper(partial) {
		if cands := completeWord(partial, c.infix); len(cands) > 0 {
			return cands, len(partial)
		}
	}

	if strings.HasPrefix(partial, `"`) {
		return nil, 0
	}
	return c.completePath(partial), len(partial)
}

// completeKeyword offers the rest of every option that starts with stmt.
func completeKeyword(stmt string, options []string) [][]rune {
	var result [][]rune
	for _, kw := range options {
		if len(stmt) < len(kw) && strings.HasPrefix(kw, strings.ToUpper(stmt)) {
			result = append(result, []rune(kw[len(stmt):]+" "))
		}
	}
	return result
}

func completeWord(prefix string, options []string) [][]rune {
	var result [][]rune
	for _, w := range options {
		if len(prefix) < len(w) && strings.HasPrefix(w, prefix) {
			result = append(result, []rune(w[len(prefix):]+" "))
		}
	}
	return result
}

func (c *Completer) completePath(partial string) [][]rune {
	if c.lister == nil {
		return nil
	}
	ctx := context.Background()

	dir := ""
	prefix := partial
	if i := strings.LastIndex(partial, "/"); i >= 0 {
		dir = partial[:i+1]
		prefix = partial[i+1:]
	}

	children, err := c.lister.ReadDir(ctx, dir)
	if err != nil {
		return nil
	}
	sort.Strings(children)

	var candidates [][]rune
	for _, child := range children {
		if !strings.HasPrefix(child, prefix) {
			continue
		}
		suffix := child[len(prefix):]
		if isDir, err := c.lister.IsDir(ctx, dir+child); err == nil && isDir {
			suffix += "/"
		}
		candidates = append(candidates, []rune(suffix))
	}
	return candidates
}

// Ensure Completer satisfies the readline.AutoCompleter interface.
var _ readline.AutoCompleter = (*Completer)(nil)
