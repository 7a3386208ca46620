// Package driver executes attempt plans against the target tool.
//
// Attempts run strictly in order as synchronous child processes. A usage
// exit (code 2) means the tool rejected the invocation's shape and the
// driver moves on to the next attempt; any other exit code is final for
// the dataset. Every attempt is appended to the per-band log, including
// the ones superseded later.
package driver
