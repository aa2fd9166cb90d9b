// Package ui holds the color themes shared by the command-line output, the
// REPL and the terminal user interface.
package ui
