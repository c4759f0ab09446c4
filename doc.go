// Package instrumental implements a client suite for shipping application
// metrics to an Instrumental-style backend over a persistent TCP connection
// using a small text-line protocol.
//
// The suite is built from two core pieces:
//   - a protocol client owning one socket, the hello/authenticate handshake,
//     line framing, name/value sanitization and failure accounting
//   - a reporter translating gauge/counter/histogram/meter/timer snapshots
//     into protocol lines with unit conversion and fixed numeric formatting
//
// Features:
//   - Two-step hello/authenticate handshake before any metric line is sent
//   - Sanitization of metric names and values into the protocol alphabet
//   - Reconnect-on-error: a failed report cycle closes the connection and
//     the next cycle dials fresh
//   - Out-of-band notice annotations
//   - A development ingest server with in-memory or PostgreSQL storage and
//     an HTTP read API
//   - Structured logging
//   - Graceful shutdown handling
//
// Both agent and server binaries support configuration via command-line
// flags and environment variables.
package instrumental
