// Package testutil provides helpers shared by bandprobe tests.
package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// FakeTool writes an executable shell script into a temp directory and
// returns the argv prefix that invokes it through sh, so tests do not
// depend on exec-bit handling of the filesystem.
func FakeTool(t *testing.T, script string) []string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return []string{"sh", path}
}

// ConventionalToolScript behaves like a well-mannered target tool: prints
// a usage line with a subcommand group and long flags on --help, accepts
// exactly `run --input-csv F --outdir D`, writes a result file, and exits
// 2 on anything else.
const ConventionalToolScript = `
usage() {
  echo "usage: tool {run,check} --input-csv PATH --outdir DIR"
}
case "$1" in
  --help|-h) usage; exit 0;;
esac
if [ "$1" = "run" ] || [ "$1" = "check" ]; then
  shift
fi
if [ "$1" = "--input-csv" ] && [ -n "$2" ] && [ "$3" = "--outdir" ] && [ -n "$4" ]; then
  mkdir -p "$4"
  echo "processed $2" > "$4/result.txt"
  exit 0
fi
usage >&2
exit 2
`

// AlwaysUsageToolScript rejects every invocation shape, help included.
const AlwaysUsageToolScript = `
echo "usage: tool ???" >&2
exit 2
`

// BrokenToolScript prints conventional help but fails with a tool-level
// error (exit 7) as soon as it is handed --input-csv, exercising the
// non-usage failure path: the search must stop there, not continue.
const BrokenToolScript = `
case "$1" in
  --help|-h) echo "usage: tool --input-csv PATH --outdir DIR"; exit 0;;
esac
if [ "$1" = "--input-csv" ]; then
  echo "boom" >&2
  exit 7
fi
echo "usage: tool --input-csv PATH --outdir DIR" >&2
exit 2
`

// FixedTokenGenerator returns predetermined run tokens, enabling
// deterministic summaries in tests.
type FixedTokenGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedTokenGenerator creates a generator that returns tokens in order
// and panics when exhausted, to fail fast on test misconfiguration.
func NewFixedTokenGenerator(tokens ...string) *FixedTokenGenerator {
	return &FixedTokenGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
func (g *FixedTokenGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.tokens) {
		panic("FixedTokenGenerator: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
