package probe

import (
	"regexp"
	"strings"
)

// Surface is what the help text revealed about the target tool's CLI.
type Surface struct {
	// Flags holds the distinct long-form option tokens found in the help
	// text (including the leading double dash), in first-seen order.
	// First-seen order matters: the planner breaks scoring ties by
	// encounter order, so extraction must be deterministic.
	Flags []string

	// Subcommands holds the tokens of the first brace-delimited choice
	// group (e.g. "{run,check}"), in help-text order. Empty when the help
	// text has no such group.
	Subcommands []string
}

// longFlag matches a double-dash option token not immediately preceded by
// another dash-word character, so "----x" and "a--b" do not count.
var longFlag = regexp.MustCompile(`(^|[^\w-])(--[A-Za-z0-9][\w-]*)`)

// braceGroup matches a single-line brace-delimited group, the conventional
// rendering of a mutually-exclusive subcommand choice in usage lines.
var braceGroup = regexp.MustCompile(`\{([^{}\n]+)\}`)

var bareWord = regexp.MustCompile(`^[A-Za-z0-9][\w-]*$`)

// Extract parses help text into a Surface. It never fails: unconventional
// help text yields a sparse (possibly empty) Surface and the planner falls
// back to its fixed vocabulary.
func Extract(help HelpText) Surface {
	return Surface{
		Flags:       extractFlags(string(help)),
		Subcommands: extractSubcommands(string(help)),
	}
}

// extractFlags collects distinct --option tokens, preserving first-seen
// order. This is a textual match, not a grammar: flags mentioned in prose
// are collected too, and that over-collection is intentional.
func extractFlags(text string) []string {
	var flags []string
	seen := make(map[string]struct{})

	for _, m := range longFlag.FindAllStringSubmatch(text, -1) {
		tok := m[2]
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		flags = append(flags, tok)
	}
	return flags
}

// extractSubcommands returns the comma-split tokens of the first brace
// group whose entries are all bare words, trimmed of whitespace with
// empties dropped. Groups like "{0,1}" qualify but "{a|b}" or argument
// placeholders with punctuation do not; the first qualifying group wins.
func extractSubcommands(text string) []string {
	for _, m := range braceGroup.FindAllStringSubmatch(text, -1) {
		var toks []string
		ok := true
		for _, raw := range strings.Split(m[1], ",") {
			tok := strings.TrimSpace(raw)
			if tok == "" {
				continue
			}
			if !bareWord.MatchString(tok) {
				ok = false
				break
			}
			toks = append(toks, tok)
		}
		if ok && len(toks) > 0 {
			return toks
		}
	}
	return nil
}
