// Package server exposes bigcalc over HTTP.
//
// Endpoints:
//
//	GET /calculate?op=mul&a=...&b=...[&m=...][&algo=karatsuba]
//	GET /health
//	GET /metrics
//
// Results are cached in a bounded LRU cache, every response carries an
// X-Request-ID header, and each calculation runs in its own OpenTelemetry
// span.
package server
