// Package memory estimates the transient memory of a calculation, enforces a
// user-supplied budget and controls the garbage collector while very large
// operands are processed.
package memory
