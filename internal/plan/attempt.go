package plan

import "strings"

// Attempt is one fully formed candidate command line (executable plus
// arguments). Immutable once constructed; equality is token-sequence
// equality.
type Attempt []string

// Key returns a comparison key for exact token-sequence equality.
// NUL never appears in argv tokens, so the join is unambiguous.
func (a Attempt) Key() string {
	return strings.Join(a, "\x00")
}

// String renders the attempt the way it would be typed in a shell,
// for logs and reports. Not meant to be re-parsed.
func (a Attempt) String() string {
	return strings.Join(a, " ")
}

// Plan is the ordered, deduplicated attempt sequence for one
// (dataset, output location) pair.
type Plan struct {
	// Attempts in generation order: heuristic-scored combinations first,
	// fallback vocabulary combinations last. No two entries are
	// token-sequence equal.
	Attempts []Attempt `json:"attempts"`

	// InputFlag and OutputFlag are the surface flags chosen by keyword
	// scoring, empty when nothing scored above zero. Informational; the
	// attempts already embed them.
	InputFlag  string `json:"input_flag,omitempty"`
	OutputFlag string `json:"output_flag,omitempty"`
}
