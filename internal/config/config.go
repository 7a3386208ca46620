// Package config loads the bandprobe suite configuration from YAML and
// validates it against an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Config is the suite configuration. YAML keys match the CLI flags; the
// JSON tags exist so CUE validation sees the same field names.
type Config struct {
	Tool           []string `yaml:"tool" json:"tool"`
	Pattern        string   `yaml:"pattern" json:"pattern"`
	OutDir         string   `yaml:"outdir" json:"outdir"`
	Max            int      `yaml:"max" json:"max"`
	FailFast       bool     `yaml:"fail_fast" json:"fail_fast"`
	TimeoutSeconds int      `yaml:"timeout_seconds" json:"timeout_seconds"`
	DB             string   `yaml:"db" json:"db"`
}

// Default returns the configuration used when no file is given.
// Tool has no default; it must come from the file or the CLI.
func Default() Config {
	return Config{
		Pattern: "test_data/band_*.csv",
		OutDir:  "_ci_out",
	}
}

// Load reads a YAML config file, layered over Default. Unknown keys are
// rejected to catch typos.
//
// The result is not validated here: the file may legitimately omit fields
// (tool, most commonly) that CLI flags supply later. Callers apply their
// overrides and then call Validate on the merged value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate unifies the configuration with the embedded CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup schema: %w", err)
	}

	val := ctx.Encode(c)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid configuration:\n%s", cueerrors.Details(err, nil))
	}
	return nil
}
