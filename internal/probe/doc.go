// Package probe discovers the CLI surface of the target tool.
//
// The target tool's true argument grammar is unknown to the harness. probe
// runs the tool once with a help request, captures whatever usage text it
// prints, and extracts two signals from it: the set of long-form option
// names, and an optional list of subcommand tokens. Both extractions are
// textual pattern matches, tolerant of unconventional help output: they
// never fail, they only degrade in coverage.
package probe
