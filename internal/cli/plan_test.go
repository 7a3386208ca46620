package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bandprobe/internal/testutil"
)

func TestPlanCommand_Text(t *testing.T) {
	tool := testutil.FakeTool(t, testutil.ConventionalToolScript)

	args := append([]string{"plan", "a.csv", "--outdir", "/o"}, toolFlags(tool)...)
	stdout, _, err := execCLI(t, args...)
	require.NoError(t, err)

	assert.Contains(t, stdout, "input flag:  --input-csv")
	assert.Contains(t, stdout, "output flag: --outdir")
	assert.Contains(t, stdout, "attempts:")

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	// First attempt listed is the fully scored one.
	var firstAttempt string
	for _, line := range lines {
		if strings.HasPrefix(line, "  ") {
			firstAttempt = strings.TrimSpace(line)
			break
		}
	}
	assert.Equal(t, strings.Join(tool, " ")+" run --input-csv a.csv --outdir /o", firstAttempt)
}

func TestPlanCommand_JSON(t *testing.T) {
	tool := testutil.FakeTool(t, testutil.ConventionalToolScript)

	args := append([]string{"plan", "a.csv", "--format", "json"}, toolFlags(tool)...)
	stdout, _, err := execCLI(t, args...)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "--input-csv", data["input_flag"])
	attempts, ok := data["attempts"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, attempts)
}

func TestPlanCommand_ToolRequired(t *testing.T) {
	_, _, err := execCLI(t, "plan", "a.csv")
	assert.Error(t, err)
}

func TestPlanCommand_UnlaunchableTool(t *testing.T) {
	_, _, err := execCLI(t, "plan", "a.csv", "--tool", "/definitely/not/a/tool")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
