// Package calc turns the arithmetic of package bigint into named, cancellable
// calculations.
//
// A Request names one operation (add, sub, mul, div, mod, modexp, cmp) and
// its operands. A Calculator evaluates requests with one multiplication
// strategy, reporting progress on a channel. Calculators are obtained from a
// CalculatorFactory by strategy name, which lets the orchestration layer run
// the same request under several strategies and cross-check the results.
package calc
