// Package logging provides a unified logging interface for bigcalc.
// It abstracts the underlying logging implementation, allowing consistent
// structured logging across the CLI, the HTTP service and calibration while
// supporting multiple backends.
package logging
