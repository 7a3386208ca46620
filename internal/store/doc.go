// Package store persists suite run history in SQLite.
//
// History is optional: the suite runs fine without a database. When a
// database path is configured, every run's summary and per-band results
// are recorded, and the history command reads them back.
package store
