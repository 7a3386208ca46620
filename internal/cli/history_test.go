package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bandprobe/internal/store"
	"github.com/roach88/bandprobe/internal/suite"
)

func seedHistory(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.RecordRun(context.Background(), &suite.Summary{
		RunID:     "run-a",
		StartedAt: time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC),
		OK:        true,
		Tool:      []string{"./analyze"},
		Pattern:   "test_data/band_*.csv",
		Total:     2,
		OKCount:   1,
		Failures:  1,
		Results: []suite.BandResult{
			{Band: "test_data/band_01.csv", OK: true, Attempts: 1, Seconds: 0.5},
			{Band: "test_data/band_02.csv", OK: false, ExitCode: 2, Attempts: 63, Seconds: 2.5},
		},
	}))
	return dbPath
}

func TestHistoryCommand_ListRuns(t *testing.T) {
	dbPath := seedHistory(t)

	stdout, _, err := execCLI(t, "history", "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "PASS")
	assert.Contains(t, stdout, "1/2 ok")
	assert.Contains(t, stdout, "./analyze")
}

func TestHistoryCommand_ShowBands(t *testing.T) {
	dbPath := seedHistory(t)

	stdout, _, err := execCLI(t, "history", "--db", dbPath, "--run", "run-a")
	require.NoError(t, err)

	assert.Contains(t, stdout, "test_data/band_01.csv")
	assert.Contains(t, stdout, "test_data/band_02.csv")
	assert.Contains(t, stdout, "FAIL")
	assert.Contains(t, stdout, "exit=2")
}

func TestHistoryCommand_EmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fresh.db")

	stdout, _, err := execCLI(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No runs recorded.")
}

func TestHistoryCommand_DBRequired(t *testing.T) {
	_, _, err := execCLI(t, "history")
	assert.Error(t, err)
}
