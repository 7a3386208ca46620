package suite

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bandprobe/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeBand(t *testing.T, root, name string) string {
	t.Helper()
	path := filepath.Join(root, "test_data", name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("h1,h2\n1,2\n"), 0o644))
	return path
}

func newTestRunner(t *testing.T, tool []string, root string, mutate func(*Options)) *Runner {
	t.Helper()
	opts := Options{
		Tool:    tool,
		Root:    root,
		OutDir:  filepath.Join(t.TempDir(), "out"),
		Tokens:  testutil.NewFixedTokenGenerator("run-1"),
		Logger:  quietLogger(),
	}
	if mutate != nil {
		mutate(&opts)
	}
	return New(opts)
}

// TestRun_ConventionalTool: the happy path. The tool's first planned
// attempt is accepted for every band and all artifacts are persisted.
func TestRun_ConventionalTool(t *testing.T) {
	tool := testutil.FakeTool(t, testutil.ConventionalToolScript)
	root := t.TempDir()
	band1 := writeBand(t, root, "band_01.csv")
	band2 := writeBand(t, root, "band_02.csv")

	r := newTestRunner(t, tool, root, nil)
	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-1", summary.RunID)
	assert.True(t, summary.OK)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.OKCount)
	assert.Equal(t, 0, summary.Failures)
	require.Len(t, summary.Results, 2)

	first := summary.Results[0]
	assert.Equal(t, band1, first.Band)
	assert.True(t, first.OK)
	assert.Equal(t, 0, first.ExitCode)
	assert.Equal(t, 1, first.Attempts, "the scored attempt must win on the first try")
	// Winning command: tool run --input-csv <band> --outdir <band dir>
	require.Len(t, first.Command, len(tool)+5)
	assert.Equal(t, "run", first.Command[len(tool)])
	assert.Equal(t, "--input-csv", first.Command[len(tool)+1])
	assert.Equal(t, band1, first.Command[len(tool)+2])
	assert.Equal(t, "--outdir", first.Command[len(tool)+3])

	assert.Equal(t, band2, summary.Results[1].Band)

	// Artifacts.
	outDir := r.opts.OutDir
	for _, name := range []string{SummaryFileName, HelpTextFileName, DatasetsFileName} {
		_, statErr := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, statErr, name)
	}
	helpData, readErr := os.ReadFile(filepath.Join(outDir, HelpTextFileName))
	require.NoError(t, readErr)
	assert.Contains(t, string(helpData), "{run,check}")

	datasets, readErr := os.ReadFile(filepath.Join(outDir, DatasetsFileName))
	require.NoError(t, readErr)
	assert.Equal(t, band1+"\n"+band2+"\n", string(datasets))

	// The tool's own output file is fingerprinted.
	var paths []string
	for _, pf := range first.Produced {
		paths = append(paths, pf.Path)
		assert.Len(t, pf.SHA256, 64)
		assert.Positive(t, pf.Bytes)
	}
	assert.Contains(t, paths, "bands/band_01/result.txt")
	assert.Contains(t, paths, "bands/band_01/"+AttemptLogName)

	sum, hashErr := HashFile(filepath.Join(outDir, "bands", "band_01", "result.txt"))
	require.NoError(t, hashErr)
	for _, pf := range first.Produced {
		if pf.Path == "bands/band_01/result.txt" {
			assert.Equal(t, sum, pf.SHA256)
		}
	}
}

// TestRun_AlwaysUsageTool: a tool that rejects everything exhausts the
// plan; the band fails with exit 2 and the log holds every attempt.
func TestRun_AlwaysUsageTool(t *testing.T) {
	tool := testutil.FakeTool(t, testutil.AlwaysUsageToolScript)
	root := t.TempDir()
	writeBand(t, root, "band_01.csv")

	r := newTestRunner(t, tool, root, nil)
	summary, err := r.Run(context.Background())
	require.NoError(t, err, "band failures are summary content, not errors")

	assert.False(t, summary.OK)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Failures)
	require.Len(t, summary.Results, 1)

	res := summary.Results[0]
	assert.False(t, res.OK)
	assert.Equal(t, 2, res.ExitCode)
	assert.Greater(t, res.Attempts, 1)

	logData, readErr := os.ReadFile(filepath.Join(r.opts.OutDir, filepath.FromSlash(res.Log)))
	require.NoError(t, readErr)
	// One "$ " record per executed attempt; nothing silently dropped.
	assert.Equal(t, res.Attempts, strings.Count(string(logData), "$ "))
	assert.Equal(t, res.Attempts, strings.Count(string(logData), "exit 2\n"))
}

// TestRun_BrokenTool: a non-usage exit is final for the band and stops
// the search immediately.
func TestRun_BrokenTool(t *testing.T) {
	tool := testutil.FakeTool(t, testutil.BrokenToolScript)
	root := t.TempDir()
	writeBand(t, root, "band_01.csv")

	r := newTestRunner(t, tool, root, nil)
	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, summary.OK)
	require.Len(t, summary.Results, 1)
	res := summary.Results[0]
	assert.False(t, res.OK)
	assert.Equal(t, 7, res.ExitCode)
	assert.Equal(t, 1, res.Attempts)
}

// TestRun_PartialSuccess: one good band among broken data is an overall
// pass.
func TestRun_PartialSuccess(t *testing.T) {
	tool := testutil.FakeTool(t, `
case "$1" in
  --help|-h) echo "usage: tool {run,check} --input-csv PATH --outdir DIR"; exit 0;;
esac
if [ "$1" = "run" ]; then shift; fi
if [ "$1" = "--input-csv" ] && [ "$3" = "--outdir" ]; then
  case "$2" in
    *band_01*) mkdir -p "$4"; exit 0;;
    *) echo "corrupt input" >&2; exit 5;;
  esac
fi
exit 2
`)
	root := t.TempDir()
	writeBand(t, root, "band_01.csv")
	writeBand(t, root, "band_02.csv")

	r := newTestRunner(t, tool, root, nil)
	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.OK, "one passing band is an overall pass")
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.OKCount)
	assert.Equal(t, 1, summary.Failures)
}

// TestRun_FailFast stops after the first failed band.
func TestRun_FailFast(t *testing.T) {
	tool := testutil.FakeTool(t, testutil.BrokenToolScript)
	root := t.TempDir()
	writeBand(t, root, "band_01.csv")
	writeBand(t, root, "band_02.csv")

	r := newTestRunner(t, tool, root, func(o *Options) { o.FailFast = true })
	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total, "fail-fast: second band never runs")
	assert.Equal(t, 1, summary.Failures)
}

// TestRun_MaxLimit processes only the first N bands in discovery order.
func TestRun_MaxLimit(t *testing.T) {
	tool := testutil.FakeTool(t, testutil.ConventionalToolScript)
	root := t.TempDir()
	band1 := writeBand(t, root, "band_01.csv")
	writeBand(t, root, "band_02.csv")
	writeBand(t, root, "band_03.csv")

	r := newTestRunner(t, tool, root, func(o *Options) { o.Max = 1 })
	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, band1, summary.Results[0].Band)
}

// TestRun_NoDatasets: discovery failure aborts before any band runs and
// is still reported in the persisted summary.
func TestRun_NoDatasets(t *testing.T) {
	tool := testutil.FakeTool(t, testutil.ConventionalToolScript)

	r := newTestRunner(t, tool, t.TempDir(), nil)
	summary, err := r.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, ErrCodeNoDatasets, ErrorCode(err))
	assert.False(t, summary.OK)
	assert.Empty(t, summary.Results)
	assert.NotEmpty(t, summary.Error)

	data, readErr := os.ReadFile(filepath.Join(r.opts.OutDir, SummaryFileName))
	require.NoError(t, readErr)
	assert.Contains(t, string(data), `"ok": false`)
}

// TestRun_ToolUnlaunchable: failing to even start the tool for help
// introspection is fatal to the whole run.
func TestRun_ToolUnlaunchable(t *testing.T) {
	root := t.TempDir()
	writeBand(t, root, "band_01.csv")

	r := newTestRunner(t, []string{"/definitely/not/a/tool"}, root, nil)
	summary, err := r.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, ErrCodeToolUnavailable, ErrorCode(err))
	assert.Empty(t, summary.Results)
}

// TestRun_SummaryCountsConsistent: total equals discovered-and-processed
// bands, ok + failures equals total.
func TestRun_SummaryCountsConsistent(t *testing.T) {
	tool := testutil.FakeTool(t, testutil.ConventionalToolScript)
	root := t.TempDir()
	for _, name := range []string{"band_01.csv", "band_02.csv", "band_03.csv"} {
		writeBand(t, root, name)
	}

	r := newTestRunner(t, tool, root, nil)
	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Len(t, summary.Results, summary.Total)
	assert.Equal(t, summary.Total, summary.OKCount+summary.Failures)
}

func TestBandName(t *testing.T) {
	assert.Equal(t, "band_01", bandName("test_data/band_01.csv"))
	assert.Equal(t, "band_x", bandName("/abs/path/band_x.csv"))
}
