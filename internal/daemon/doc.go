// Package daemon coordinates the long-running airdate process.
//
// It wires configuration, the catalog store, and the publisher manager into a
// single lifecycle with flock-based locking to prevent multiple instances. The
// daemon exposes catalog maintenance helpers, triggers manual publication
// passes, emits database health summaries, and owns the demo seed used for
// local development.
//
// Keep orchestration logic here: publication semantics live in the publisher
// package while the daemon focuses on startup, shutdown, and high level
// coordination.
package daemon
