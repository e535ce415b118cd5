package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/rowantrollope/handycmd/internal/cmd"
	"github.com/rowantrollope/handycmd/internal/config"
	"github.com/rowantrollope/handycmd/internal/fs"
	"github.com/rowantrollope/handycmd/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestREPL(t *testing.T) (*REPL, string, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	root := t.TempDir()
	var out, errOut bytes.Buffer
	formatter := output.NewFormatter(false, false)
	formatter.Writer = &out
	formatter.ErrWriter = &errOut

	local := fs.NewLocal(root)
	d := cmd.NewDispatcher(local, formatter, 2)
	cfg := config.DefaultConfig()
	cfg.NoColor = true
	return NewREPL(d, local, cfg, formatter, root), root, &out, &errOut
}

func TestFeedSingleLineStatement(t *testing.T) {
	r, root, out, _ := newTestREPL(t)

	quit := r.Feed(context.Background(), "CREATE FOLDER docs;")

	assert.False(t, quit)
	assert.False(t, r.Pending())
	assert.Equal(t, "created a new folder at \"docs\"\n", out.String())
	info, err := os.Stat(filepath.Join(root, "docs"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFeedBuffersUntilTerminator(t *testing.T) {
	r, root, out, _ := newTestREPL(t)
	ctx := context.Background()

	r.Feed(ctx, `WRITE TO poem.txt THIS CONTENT: "roses`)
	assert.True(t, r.Pending())
	assert.Empty(t, out.String())

	r.Feed(ctx, `are red";`)
	assert.False(t, r.Pending())

	data, err := os.ReadFile(filepath.Join(root, "poem.txt"))
	require.NoError(t, err)
	assert.Equal(t, "roses\nare red", string(data))
}

func TestFeedBuiltins(t *testing.T) {
	r, _, out, _ := newTestREPL(t)
	ctx := context.Background()

	assert.False(t, r.Feed(ctx, "   "))
	assert.False(t, r.Feed(ctx, "help RENAME"))
	assert.Contains(t, out.String(), "RENAME old TO new;")

	out.Reset()
	assert.False(t, r.Feed(ctx, "help"))
	assert.Contains(t, out.String(), "DELETE path FORCE;")

	assert.True(t, r.Feed(ctx, "exit"))
	assert.True(t, r.Feed(ctx, "QUIT"))
}

func TestFeedExitInsideStatementIsText(t *testing.T) {
	r, _, _, _ := newTestREPL(t)
	ctx := context.Background()

	r.Feed(ctx, `WRITE TO a.txt THIS CONTENT: "first line`)
	assert.False(t, r.Feed(ctx, "exit"), "exit inside a pending statement is content")
	assert.True(t, r.Pending())
}

func TestFeedUnrecognized(t *testing.T) {
	r, _, out, errOut := newTestREPL(t)

	r.Feed(context.Background(), "make me a sandwich;")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "no statement recognized")
}

func TestBuildPrompt(t *testing.T) {
	assert.Equal(t, "handycmd:main> ", BuildPrompt("main", false, false))
	cont := BuildPrompt("main", true, false)
	assert.True(t, strings.HasSuffix(cont, "...> "))
	assert.Len(t, cont, len("handycmd:main> "))
	assert.Equal(t, "\033[32mhandycmd:main> \033[0m", BuildPrompt("main", false, true))
	assert.Equal(t, "handycmd:/.../nested/path> ", BuildPrompt("/very/long/deeply/nested/path/nested/path", false, false))
}

func complete(c *Completer, line string) []string {
	cands, _ := c.Do([]rune(line), len([]rune(line)))
	out := make([]string, len(cands))
	for i, r := range cands {
		out[i] = string(r)
	}
	sort.Strings(out)
	return out
}

func TestCompleterKeywords(t *testing.T) {
	c := NewCompleter(nil)

	assert.Equal(t, []string{"ATE FILE ", "ATE FOLDER "}, complete(c, "CRE"))
	assert.Equal(t, []string{"ILE ", "OLDER "}, complete(c, "CREATE F"))
	assert.Equal(t, []string{"lp "}, complete(c, "he"))
	assert.Equal(t, []string{"NAME "}, complete(c, "CREATE FILE a; RE"))
	assert.Equal(t, []string{"IS CONTENT: "}, complete(c, "WRITE TO a.txt TH"))
	assert.Equal(t, []string{"RCE "}, complete(c, "DELETE tmp FO"))
}

func TestCompleterPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.md"), nil, 0o644))

	c := NewCompleter(fs.NewLocal(root))

	assert.Equal(t, []string{"eadme.md"}, complete(c, "DELETE FILE r"))
	assert.Equal(t, []string{"rc/"}, complete(c, "CREATE FILE s"))
	assert.Equal(t, []string{"ain.go"}, complete(c, "DELETE FILE src/m"))
	assert.Equal(t, []string{"main.go", "pkg/"}, complete(c, "RENAME src/"))
	assert.Empty(t, complete(c, `WRITE TO a THIS CONTENT: "x`))
}
