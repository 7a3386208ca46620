package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bandprobe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
tool: [python3, scripts/run_tool.py]
pattern: "data/band_*.csv"
outdir: ci_out
max: 5
fail_fast: true
timeout_seconds: 120
db: history.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"python3", "scripts/run_tool.py"}, cfg.Tool)
	assert.Equal(t, "data/band_*.csv", cfg.Pattern)
	assert.Equal(t, "ci_out", cfg.OutDir)
	assert.Equal(t, 5, cfg.Max)
	assert.True(t, cfg.FailFast)
	assert.Equal(t, 120, cfg.TimeoutSeconds)
	assert.Equal(t, "history.db", cfg.DB)
}

// TestLoad_DefaultsApply: unset keys keep their defaults.
func TestLoad_DefaultsApply(t *testing.T) {
	path := writeConfig(t, "tool: [./analyze]\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Default().Pattern, cfg.Pattern)
	assert.Equal(t, Default().OutDir, cfg.OutDir)
	assert.Zero(t, cfg.Max)
	assert.False(t, cfg.FailFast)
}

// TestLoad_UnknownKeyRejected catches config typos instead of silently
// ignoring them.
func TestLoad_UnknownKeyRejected(t *testing.T) {
	path := writeConfig(t, "tool: [./analyze]\npatern: oops\n")

	_, err := Load(path)
	assert.Error(t, err)
}

// TestLoad_WithoutTool: the file may omit the tool list entirely and leave
// it to the CLI flags; loading must not reject that.
func TestLoad_WithoutTool(t *testing.T) {
	path := writeConfig(t, "outdir: ci_out\nmax: 3\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Tool)
	assert.Equal(t, 3, cfg.Max)
}

// TestLoad_DefersValidation: out-of-range values load fine; Validate on
// the merged value is what rejects them, after flag overrides had their
// chance to correct the field.
func TestLoad_DefersValidation(t *testing.T) {
	path := writeConfig(t, "tool: [./analyze]\nmax: -1\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	cfg.Max = 0
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// TestValidate_RequiresTool: an empty tool list never validates.
func TestValidate_RequiresTool(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate())

	cfg.Tool = []string{"./analyze"}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyPattern(t *testing.T) {
	cfg := Default()
	cfg.Tool = []string{"./analyze"}
	cfg.Pattern = ""
	assert.Error(t, cfg.Validate())
}
