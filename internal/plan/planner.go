package plan

import (
	"path/filepath"
	"strings"

	"github.com/roach88/bandprobe/internal/probe"
)

// Build produces the attempt plan for one dataset.
//
// tool is the argv prefix that launches the target tool (one or more
// tokens, e.g. ["python3", "scripts/run_tool.py"]). dataset is the input
// file path, outDir the per-band output directory.
//
// Generation order:
//  1. heuristic combinations using flags chosen by keyword scoring, per
//     subcommand candidate
//  2. the fallback vocabulary cross product, per subcommand candidate
//
// followed by deduplication on exact token-sequence equality, first
// occurrence winning. Build never fails and the plan is never empty.
func Build(surface probe.Surface, tool []string, dataset, outDir string) Plan {
	inFlag, hasIn := pickFlag(surface.Flags, inputKeywords)
	outFlag, hasOut := pickFlag(surface.Flags, outputKeywords)

	p := Plan{}
	if hasIn {
		p.InputFlag = inFlag
	}
	if hasOut {
		p.OutputFlag = outFlag
	}

	subs := subcommandCandidates(surface.Subcommands)

	var attempts []Attempt
	for _, sub := range subs {
		attempts = append(attempts, heuristicAttempts(tool, sub, dataset, outDir, inFlag, hasIn, outFlag, hasOut)...)
	}
	for _, sub := range subs {
		attempts = append(attempts, fallbackAttempts(tool, sub, dataset, outDir)...)
	}

	p.Attempts = dedup(attempts)
	return p
}

// pickFlag scores every flag against the keyword table and returns the
// first flag reaching the maximum strictly-positive score. Later flags
// with an equal score do not overwrite the winner, which keeps selection
// deterministic for a fixed extraction order.
func pickFlag(flags []string, keywords []string) (string, bool) {
	best := ""
	bestScore := 0
	for _, f := range flags {
		if s := scoreFlag(f, keywords); s > bestScore {
			best, bestScore = f, s
		}
	}
	return best, bestScore > 0
}

func scoreFlag(name string, keywords []string) int {
	lower := strings.ToLower(name)
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

// directoryExpecting classifies an output flag by its name: "dir" or
// "folder" anywhere in the lowercased name means the tool wants a
// directory, anything else is assumed to want a file path.
func directoryExpecting(flag string) bool {
	lower := strings.ToLower(flag)
	return strings.Contains(lower, "dir") || strings.Contains(lower, "folder")
}

// outTarget resolves the value passed to an output flag.
func outTarget(outDir string, dir bool) string {
	if dir {
		return outDir
	}
	return filepath.Join(outDir, reportFileName)
}

// subcommandCandidates orders the subcommand tokens to try. "run" is the
// conventional primary action, so it goes first when present; otherwise
// the first listed token. The empty candidate (no subcommand at all) is
// always included to cover tools whose primary action is the default.
func subcommandCandidates(subs []string) []string {
	if len(subs) == 0 {
		return []string{""}
	}
	pick := subs[0]
	for _, s := range subs {
		if s == "run" {
			pick = "run"
			break
		}
	}
	return []string{pick, ""}
}

// base builds the invocation prefix for a subcommand candidate.
func base(tool []string, sub string) Attempt {
	a := make(Attempt, 0, len(tool)+1)
	a = append(a, tool...)
	if sub != "" {
		a = append(a, sub)
	}
	return a
}

// heuristicAttempts generates the scored combinations for one subcommand
// candidate, most specific first: input flag with output flag, input flag
// alone, positional dataset with output flag, positional dataset alone.
// Dimensions collapse when the corresponding flag was not identified.
func heuristicAttempts(tool []string, sub, dataset, outDir, inFlag string, hasIn bool, outFlag string, hasOut bool) []Attempt {
	inputModes := [][]string{}
	if hasIn {
		inputModes = append(inputModes, []string{inFlag, dataset})
	}
	inputModes = append(inputModes, []string{dataset})

	var out []Attempt
	for _, in := range inputModes {
		if hasOut {
			a := append(base(tool, sub), in...)
			a = append(a, outFlag, outTarget(outDir, directoryExpecting(outFlag)))
			out = append(out, a)
		}
		out = append(out, append(base(tool, sub), in...))
	}
	return out
}

// fallbackAttempts generates the brute-force set for one subcommand
// candidate: the input x output vocabulary cross product, then input-only
// variants, then positional-with-output variants, then the bare positional
// invocation.
func fallbackAttempts(tool []string, sub, dataset, outDir string) []Attempt {
	var out []Attempt

	for _, in := range inputVocab {
		for _, of := range outputVocab {
			a := append(base(tool, sub), in, dataset, of.Flag, outTarget(outDir, of.Dir))
			out = append(out, a)
		}
	}
	for _, in := range inputVocab {
		out = append(out, append(base(tool, sub), in, dataset))
	}
	for _, of := range outputVocab {
		out = append(out, append(base(tool, sub), dataset, of.Flag, outTarget(outDir, of.Dir)))
	}
	out = append(out, append(base(tool, sub), dataset))

	return out
}

// dedup removes later duplicates by exact token-sequence equality,
// preserving first occurrence.
func dedup(attempts []Attempt) []Attempt {
	seen := make(map[string]struct{}, len(attempts))
	out := make([]Attempt, 0, len(attempts))
	for _, a := range attempts {
		k := a.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, a)
	}
	return out
}
