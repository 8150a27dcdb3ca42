// Package server owns the listening socket and connection lifecycle.
//
// Ownership boundary:
// - accept loop and per-connection handler goroutines
// - cooperative shutdown via the server-owned cancellation context
// - message classification/dispatch for one connection at a time
//
// The server does not frame messages: one read is one message, bounded by a
// fixed receive buffer.
package server
