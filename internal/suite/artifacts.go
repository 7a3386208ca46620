package suite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/bandprobe/internal/probe"
)

// Artifact file names inside the suite output directory.
const (
	SummaryFileName  = "band_suite_summary.json"
	HelpTextFileName = "tool_help.txt"
	DatasetsFileName = "datasets.txt"
	FaultFileName    = "fault.json"
	AttemptLogName   = "attempts.log"
)

// WriteSummary persists the suite summary as indented JSON.
func WriteSummary(outDir string, s *Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	path := filepath.Join(outDir, SummaryFileName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// writeHelpText persists the captured usage text of the target tool.
func writeHelpText(outDir string, help probe.HelpText) error {
	path := filepath.Join(outDir, HelpTextFileName)
	if err := os.WriteFile(path, []byte(help), 0o644); err != nil {
		return fmt.Errorf("write help text: %w", err)
	}
	return nil
}

// writeDatasets persists the discovered dataset list, one path per line.
func writeDatasets(outDir string, datasets []string) error {
	path := filepath.Join(outDir, DatasetsFileName)
	content := strings.Join(datasets, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write dataset list: %w", err)
	}
	return nil
}

// Fault is the dedicated artifact for unexpected harness faults.
type Fault struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// WriteFault records an internal harness fault with full diagnostic detail.
// Best effort: the output directory is created if the fault happened before
// setup finished.
func WriteFault(outDir, message, stack string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("write fault: %w", err)
	}
	data, err := json.MarshalIndent(Fault{Message: message, Stack: stack}, "", "  ")
	if err != nil {
		return fmt.Errorf("write fault: %w", err)
	}
	path := filepath.Join(outDir, FaultFileName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fault: %w", err)
	}
	return nil
}
