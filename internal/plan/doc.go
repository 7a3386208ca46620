// Package plan generates the bounded search space of candidate invocations
// for one dataset.
//
// The planner cannot know the target tool's true argument grammar, so it
// orders attempts from most likely correct (flags chosen by keyword scoring
// against the extracted surface) to least likely (an exhaustive cross
// product over a fixed vocabulary of common flag spellings). The execution
// driver then walks the plan in order and stops at the first attempt the
// tool accepts, so a good ordering keeps the number of real child-process
// executions small.
//
// Plan construction never fails: even an empty surface yields the full
// fallback set.
package plan
