// Package tui is the interactive terminal dashboard of bigcalc. The user
// types expressions, picks a multiplication strategy and watches progress,
// result history and runtime memory while calculations run.
//
// Calculations run through the orchestration package exactly as in the CLI.
// The bridge types turn its progress and presentation callbacks into
// bubbletea messages.
package tui
