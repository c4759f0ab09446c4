package sender

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	internalerrors "github.com/Schera-ole/instrumental/internal/errors"
)

// DefaultReadTimeout bounds how long a handshake read may block on the peer.
const DefaultReadTimeout = 5000 * time.Millisecond

// DefaultConnFactory dials plain TCP and applies the socket options the
// protocol wants: no-delay on (handshake lines must not sit in Nagle buffers)
// and keep-alive on. The traffic-class and performance-preference hints from
// the protocol definition have no portable socket API here and are treated as
// advisory no-ops.
var DefaultConnFactory ConnFactory = ConnFactoryFunc(func(address string) (net.Conn, error) {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, err
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.SetNoDelay(true); err != nil {
			conn.Close()
			return nil, err
		}
		if err := tcp.SetKeepAlive(true); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return conn, nil
})

// Client is the socket-based Sender.
//
// It owns exactly one connection at a time and is intended for a single
// caller: the external scheduler must not invoke a report cycle concurrently
// with itself, so no internal locking is done.
type Client struct {
	apiKey  string
	host    string
	port    int
	addr    *net.TCPAddr
	factory ConnFactory

	conn      net.Conn
	reader    *bufio.Reader
	writer    *bufio.Writer
	connected bool
	failures  int

	readTimeout time.Duration
}

// NewClient creates a client for a backend addressed by hostname and port.
// The hostname is resolved on Connect.
func NewClient(apiKey string, host string, port int, factory ConnFactory) *Client {

	if factory == nil {
		factory = DefaultConnFactory
	}
	return &Client{
		apiKey:      apiKey,
		host:        host,
		port:        port,
		factory:     factory,
		readTimeout: DefaultReadTimeout,
	}
}

// NewClientAddr creates a client for a pre-resolved backend address.
func NewClientAddr(apiKey string, addr *net.TCPAddr, factory ConnFactory) *Client {

	if factory == nil {
		factory = DefaultConnFactory
	}
	return &Client{
		apiKey:      apiKey,
		addr:        addr,
		factory:     factory,
		readTimeout: DefaultReadTimeout,
	}
}

// Connect opens the connection and performs the two-step handshake.
//
// Calling Connect on an already-connected client is caller misuse: it fails
// without touching the existing connection. Every failed attempt increments
// the failure counter. A hello rejection leaves no usable connection behind;
// an authenticate rejection keeps the connection so the caller can Close it.
func (c *Client) Connect() error {

	if c.connected {
		return internalerrors.ErrAlreadyConnected
	}

	address, err := c.resolve()
	if err != nil {
		c.failures++
		return err
	}

	conn, err := c.factory.Dial(address)
	if err != nil {
		c.failures++
		return fmt.Errorf("dialing %s: %w", address, err)
	}

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	_, err = fmt.Fprintf(writer, "hello version %s hostname %s pid %d runtime %s platform %s\n",
		Version, hostname, os.Getpid(), runtime.Version(), runtime.GOOS+"-"+runtime.GOARCH)
	if err == nil {
		err = writer.Flush()
	}
	if err != nil {
		c.failures++
		return fmt.Errorf("writing hello: %w", err)
	}
	if !c.readOK(conn, reader) {
		c.failures++
		return internalerrors.ErrHelloFailed
	}

	_, err = fmt.Fprintf(writer, "authenticate %s\n", c.apiKey)
	if err == nil {
		err = writer.Flush()
	}
	if err != nil {
		c.failures++
		return fmt.Errorf("writing authenticate: %w", err)
	}
	if !c.readOK(conn, reader) {
		// The connection stays referenced so the caller can Close it.
		c.conn = conn
		c.reader = reader
		c.writer = writer
		c.failures++
		return internalerrors.ErrAuthenticateFailed
	}

	c.conn = conn
	c.reader = reader
	c.writer = writer
	c.connected = true
	return nil
}

// resolve produces the dial address, surfacing an unresolvable hostname as an
// UnknownHostError whose message is exactly the hostname.
func (c *Client) resolve() (string, error) {
	if c.addr != nil {
		return c.addr.String(), nil
	}
	ips, err := net.LookupIP(c.host)
	if err != nil || len(ips) == 0 {
		return "", &internalerrors.UnknownHostError{Host: c.host}
	}
	return net.JoinHostPort(ips[0].String(), strconv.Itoa(c.port)), nil
}

// readOK reads one reply line and reports whether it begins with "ok".
func (c *Client) readOK(conn net.Conn, reader *bufio.Reader) bool {
	conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.HasPrefix(line, "ok")
}

// Send writes one metric line through the buffered writer. Delivery is only
// guaranteed once Flush succeeds.
func (c *Client) Send(kind MetricType, name, value string, timestamp int64) error {

	if !c.connected {
		return internalerrors.ErrNotConnected
	}
	_, err := fmt.Fprintf(c.writer, "%s %s %s %d\n",
		kind, SanitizeName(name), SanitizeValue(value), timestamp)
	if err != nil {
		c.failures++
		return fmt.Errorf("writing metric line: %w", err)
	}
	return nil
}

// Notice submits an out-of-band instantaneous annotation.
func (c *Client) Notice(description string) error {

	return c.notice(description, 0)
}

// NoticeDuration submits an out-of-band annotation covering a span of time,
// truncated to whole seconds.
func (c *Client) NoticeDuration(description string, duration time.Duration) error {

	return c.notice(description, int64(duration/time.Second))
}

func (c *Client) notice(description string, durationSeconds int64) error {
	if !c.connected {
		return internalerrors.ErrNotConnected
	}
	// The description is the trailing field and may contain spaces, but an
	// embedded newline would smuggle in a second protocol line.
	description = strings.ReplaceAll(description, "\n", " ")
	_, err := fmt.Fprintf(c.writer, "notice %d %d %s\n",
		time.Now().Unix(), durationSeconds, description)
	if err != nil {
		c.failures++
		return fmt.Errorf("writing notice line: %w", err)
	}
	return nil
}

// Flush forces buffered lines to the wire.
func (c *Client) Flush() error {

	if !c.connected {
		return internalerrors.ErrNotConnected
	}
	if err := c.writer.Flush(); err != nil {
		c.failures++
		return fmt.Errorf("flushing metric lines: %w", err)
	}
	return nil
}

// IsConnected reports the connection flag without side effects.
func (c *Client) IsConnected() bool {

	return c.connected
}

// Close shuts the connection down. It flushes whatever is buffered
// best-effort, closes the socket, and clears the flag. Safe to call when
// never connected or already closed.
func (c *Client) Close() error {

	c.connected = false
	if c.conn == nil {
		return nil
	}
	if c.writer != nil {
		c.writer.Flush()
	}
	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	c.writer = nil
	if err != nil {
		return fmt.Errorf("closing connection: %w", err)
	}
	return nil
}

// Failures returns the running count of failed connection attempts and
// failed sends. It is never reset.
func (c *Client) Failures() int {

	return c.failures
}
