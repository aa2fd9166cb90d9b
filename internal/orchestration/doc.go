// Package orchestration runs one arithmetic request under several
// multiplication strategies concurrently and cross-checks the results. It
// talks to the presentation layers only through the ProgressReporter and
// ResultPresenter interfaces.
package orchestration
