// Package feed reads newline-delimited JSON feeds one line at a time.
//
// A Reader is forward-only: it yields each line in file order together with
// its 1-based line number and returns io.EOF after the last line. Blank lines
// are yielded like any other line; deciding what they mean is the caller's job.
//
// Paths ending in ".gz" are decompressed transparently, and "-" reads
// standard input.
package feed
