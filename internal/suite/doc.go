// Package suite discovers band datasets and drives the probe -> plan ->
// drive pipeline once per band, in discovery order, aggregating a summary
// report for external CI systems.
//
// Execution is strictly sequential: one band at a time, one attempt at a
// time. One passing band is enough for an overall pass; the suite reports
// regression-detection breadth, not all-or-nothing gating.
package suite
