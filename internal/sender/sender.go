// Package sender implements the client side of the Instrumental line
// protocol: connection establishment, the hello/authenticate handshake,
// metric line framing and sanitization, and failure accounting.
package sender

import "net"

// Version is reported to the backend in the hello line.
const Version = "1.0.0"

// MetricType is the kind field of a protocol line.
type MetricType string

const (
	// Gauge submits an instantaneous value.
	Gauge MetricType = "gauge"

	// Increment adds to a server-side tally.
	Increment MetricType = "increment"
)

// Sender is the polymorphic transport capability the reporter writes through.
//
// It is implemented by the socket-based Client and by test doubles, so
// alternate transports can be substituted without callers depending on a
// concrete implementation.
type Sender interface {
	// Connect opens the transport and performs the handshake.
	Connect() error

	// Send writes one metric line. Delivery is only guaranteed after Flush.
	Send(kind MetricType, name, value string, timestamp int64) error

	// Flush forces any buffered bytes to the wire.
	Flush() error

	// IsConnected reports the current connection flag without side effects.
	IsConnected() bool

	// Close shuts the transport down, best-effort and safe to repeat.
	Close() error

	// Failures returns the running count of failed connects and sends.
	Failures() int
}

// ConnFactory creates the underlying transport connection, injected so tests
// can substitute the socket.
type ConnFactory interface {
	Dial(address string) (net.Conn, error)
}

// ConnFactoryFunc adapts a function to the ConnFactory interface.
type ConnFactoryFunc func(address string) (net.Conn, error)

// Dial implements ConnFactory.
func (f ConnFactoryFunc) Dial(address string) (net.Conn, error) {
	return f(address)
}
