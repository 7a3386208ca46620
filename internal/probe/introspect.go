package probe

import (
	"context"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// HelpText is the captured usage output of the target tool, merged
// stdout+stderr. Produced once per run and treated as immutable.
type HelpText string

// Invoker executes one command line and reports its exit code and merged
// output. driver.ExecRunner is the production implementation.
type Invoker interface {
	Run(ctx context.Context, argv []string) (exitCode int, output []byte, err error)
}

// Introspect invokes the target tool with a help request and returns its
// combined output. The tool's exit status is ignored: many tools exit
// non-zero while printing usage, and that is not an error here.
//
// A launch failure (the tool cannot be spawned at all) is returned as an
// error and is fatal to the whole run. No retries.
//
// The captured text is NFC-normalized so that flag extraction behaves the
// same regardless of how the tool's help output encodes combining characters.
func Introspect(ctx context.Context, inv Invoker, tool []string) (HelpText, error) {
	if len(tool) == 0 {
		return "", fmt.Errorf("introspect: empty tool command")
	}

	argv := make([]string, 0, len(tool)+1)
	argv = append(argv, tool...)
	argv = append(argv, "--help")

	_, out, err := inv.Run(ctx, argv)
	if err != nil {
		return "", fmt.Errorf("introspect: cannot launch target tool %q: %w", tool[0], err)
	}

	return HelpText(norm.NFC.String(string(out))), nil
}
