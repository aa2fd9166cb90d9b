// Package cli implements the terminal presentation of bigcalc: progress
// spinner, result display, the interactive prompt and shell completion.
//
// Functions follow a naming pattern:
//   - Display* write formatted, colorized output to an io.Writer.
//   - Format* return strings without performing I/O.
//   - Write* write to the filesystem.
package cli
