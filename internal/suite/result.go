package suite

import "time"

// ProducedFile fingerprints one artifact the target tool wrote into a
// band's output directory.
type ProducedFile struct {
	Path   string `json:"path"` // relative to the suite output directory
	SHA256 string `json:"sha256"`
	Bytes  int64  `json:"bytes"`
}

// BandResult is one band's outcome. Created once per discovered band, in
// discovery order, and immutable after creation.
type BandResult struct {
	// Band is the dataset path as discovered.
	Band string `json:"band"`

	// OK is true when some attempt exited zero.
	OK bool `json:"ok"`

	// ExitCode of the final attempt for this band. 2 means every attempt
	// was rejected as a usage error.
	ExitCode int `json:"exit_code"`

	// Command is the winning command line, or the last attempted one when
	// the plan was exhausted.
	Command []string `json:"command,omitempty"`

	// Attempts counts how many candidate invocations actually ran.
	Attempts int `json:"attempts"`

	// Log is the per-band attempt log path, relative to the output
	// directory. It contains every attempted command line and its output.
	Log string `json:"log"`

	// OutDir is the band's output directory, relative to the suite output
	// directory.
	OutDir string `json:"out_dir"`

	// Seconds is the wall-clock time spent driving this band's plan.
	Seconds float64 `json:"seconds"`

	// Produced fingerprints every file present in the band's output
	// directory after the final attempt.
	Produced []ProducedFile `json:"produced_files,omitempty"`
}

// Summary is the aggregate suite report, the sole artifact consumed by
// external CI systems.
type Summary struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`

	// OK is the overall verdict: at least one band passed.
	OK bool `json:"ok"`

	Tool    []string `json:"tool"`
	Pattern string   `json:"pattern"`

	// Error describes a discovery failure (no datasets, unlaunchable
	// tool). When set, Results is empty and OK is false.
	Error string `json:"error,omitempty"`

	// Total == len(Results); OKCount + Failures == Total.
	Total    int `json:"total"`
	OKCount  int `json:"ok_count"`
	Failures int `json:"failures"`

	Results []BandResult `json:"results"`

	// HelpTextPath points at the captured copy of the tool's usage text,
	// relative to the output directory.
	HelpTextPath string `json:"help_text_path,omitempty"`
}
