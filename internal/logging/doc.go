// Package logging provides concrete implementations of the docload.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: zerolog console output on stderr, debug level in verbose mode
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
