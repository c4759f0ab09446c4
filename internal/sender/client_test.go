package sender

import (
	"bytes"
	"errors"
	"net"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalerrors "github.com/Schera-ole/instrumental/internal/errors"
)

const testAPIKey = "Th3Ap1K3y"

// fakeConn is a scripted net.Conn: reads serve pre-loaded responses, writes
// are captured for inspection.
type fakeConn struct {
	responses bytes.Reader
	out       bytes.Buffer
	writeErr  error
	closes    int
}

func (c *fakeConn) Read(b []byte) (int, error) {
	return c.responses.Read(b)
}

func (c *fakeConn) Write(b []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	return c.out.Write(b)
}

func (c *fakeConn) Close() error {
	c.closes++
	return nil
}

func (c *fakeConn) LocalAddr() net.Addr                { return &net.TCPAddr{} }
func (c *fakeConn) RemoteAddr() net.Addr               { return &net.TCPAddr{} }
func (c *fakeConn) SetDeadline(t time.Time) error      { return nil }
func (c *fakeConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(t time.Time) error { return nil }

// newTestClient wires a client to a fakeConn pre-loaded with the given
// replies.
func newTestClient(t *testing.T, responses string) (*Client, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	conn.responses.Reset([]byte(responses))
	addr := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 1234}
	client := NewClientAddr(testAPIKey, addr, ConnFactoryFunc(func(address string) (net.Conn, error) {
		return conn, nil
	}))
	return client, conn
}

func TestConnectPerformsHandshake(t *testing.T) {
	client, conn := newTestClient(t, "ok\nok\n")

	err := client.Connect()
	require.NoError(t, err)
	assert.True(t, client.IsConnected())

	written := conn.out.String()
	assert.Regexp(t, regexp.MustCompile(`^hello version .* hostname .* pid .* runtime .* platform .*\n.*\n$`), written)
	assert.Contains(t, written, "authenticate "+testAPIKey)
}

func TestFailuresStartAtZero(t *testing.T) {
	client, _ := newTestClient(t, "")
	assert.Zero(t, client.Failures())
}

func TestDoesNotAllowDoubleConnections(t *testing.T) {
	client, _ := newTestClient(t, "ok\nok\n")
	require.NoError(t, client.Connect())

	err := client.Connect()
	require.ErrorIs(t, err, internalerrors.ErrAlreadyConnected)
	assert.Equal(t, "already connected", err.Error())

	// The existing connection must be untouched.
	assert.True(t, client.IsConnected())
}

func TestCloseShutsConnectionDown(t *testing.T) {
	client, conn := newTestClient(t, "ok\nok\n")
	require.NoError(t, client.Connect())

	require.NoError(t, client.Close())
	assert.False(t, client.IsConnected())
	assert.Equal(t, 1, conn.closes)

	// Safe to repeat.
	require.NoError(t, client.Close())
	assert.Equal(t, 1, conn.closes)
}

func TestConnectFailsIfHelloRejected(t *testing.T) {
	// No reply at all counts as a rejected hello.
	client, conn := newTestClient(t, "")

	err := client.Connect()
	require.ErrorIs(t, err, internalerrors.ErrHelloFailed)
	assert.False(t, client.IsConnected())
	assert.Equal(t, 1, client.Failures())

	// A rejected hello leaves no usable connection behind.
	assert.Zero(t, conn.closes)
	assert.Regexp(t, regexp.MustCompile(`^hello version .* hostname .* pid .* runtime .* platform .*\n$`), conn.out.String())
}

func TestConnectFailsIfAuthenticateRejected(t *testing.T) {
	client, conn := newTestClient(t, "ok\n")

	err := client.Connect()
	require.ErrorIs(t, err, internalerrors.ErrAuthenticateFailed)
	assert.False(t, client.IsConnected())
	assert.Equal(t, 1, client.Failures())
	assert.Contains(t, conn.out.String(), "authenticate "+testAPIKey)

	// The connection stays open until the caller closes it.
	assert.Zero(t, conn.closes)
	require.NoError(t, client.Close())
	assert.Equal(t, 1, conn.closes)
}

func TestSendWritesMetricLine(t *testing.T) {
	client, conn := newTestClient(t, "ok\nok\n")
	require.NoError(t, client.Connect())
	conn.out.Reset()

	require.NoError(t, client.Send(Gauge, "name", "value", 100))
	require.NoError(t, client.Flush())

	assert.Equal(t, "gauge name value 100\n", conn.out.String())
}

func TestSendSanitizesNames(t *testing.T) {
	client, conn := newTestClient(t, "ok\nok\n")
	require.NoError(t, client.Connect())
	conn.out.Reset()

	require.NoError(t, client.Send(Gauge, "name woo/foo$bar.invoked(param1, param2)", "value", 100))
	require.NoError(t, client.Flush())

	assert.Equal(t, "gauge name.woo.foo.bar.invoked__param1-param2__ value 100\n", conn.out.String())
}

func TestSendSanitizesValues(t *testing.T) {
	client, conn := newTestClient(t, "ok\nok\n")
	require.NoError(t, client.Connect())
	conn.out.Reset()

	require.NoError(t, client.Send(Gauge, "name", "value woo", 100))
	require.NoError(t, client.Flush())

	assert.Equal(t, "gauge name value.woo 100\n", conn.out.String())
}

func TestSendRequiresConnection(t *testing.T) {
	client, _ := newTestClient(t, "")
	err := client.Send(Gauge, "name", "value", 100)
	require.ErrorIs(t, err, internalerrors.ErrNotConnected)
}

func TestNotice(t *testing.T) {
	client, conn := newTestClient(t, "ok\nok\n")
	require.NoError(t, client.Connect())
	conn.out.Reset()

	require.NoError(t, client.Notice("simpleNotice"))
	require.NoError(t, client.Flush())

	assert.Regexp(t, regexp.MustCompile(`^notice [0-9]+ 0 simpleNotice\n$`), conn.out.String())
}

func TestNoticeDuration(t *testing.T) {
	client, conn := newTestClient(t, "ok\nok\n")
	require.NoError(t, client.Connect())
	conn.out.Reset()

	require.NoError(t, client.NoticeDuration("durationNotice", 5*time.Second))
	require.NoError(t, client.Flush())
	assert.Regexp(t, regexp.MustCompile(`^notice [0-9]+ 5 durationNotice\n$`), conn.out.String())

	// Sub-second remainders are truncated.
	conn.out.Reset()
	require.NoError(t, client.NoticeDuration("durationNotice", 2500*time.Millisecond))
	require.NoError(t, client.Flush())
	assert.Regexp(t, regexp.MustCompile(`^notice [0-9]+ 2 durationNotice\n$`), conn.out.String())
}

func TestConnectFailsForUnknownHost(t *testing.T) {
	const unavailableHost = "unknown-host-10el6m7yg56ge7dm.invalid"

	dialed := false
	client := NewClient(testAPIKey, unavailableHost, 1234, ConnFactoryFunc(func(address string) (net.Conn, error) {
		dialed = true
		return nil, errors.New("should not be dialed")
	}))

	err := client.Connect()
	require.Error(t, err)

	var unknownHost *internalerrors.UnknownHostError
	require.ErrorAs(t, err, &unknownHost)
	assert.Equal(t, unavailableHost, err.Error())
	assert.Equal(t, 1, client.Failures())
	assert.False(t, dialed)
}

func TestFlushFailureCountsAsFailure(t *testing.T) {
	client, conn := newTestClient(t, "ok\nok\n")
	require.NoError(t, client.Connect())
	conn.out.Reset()

	require.NoError(t, client.Send(Gauge, "name", "value", 100))
	conn.writeErr = errors.New("broken pipe")

	err := client.Flush()
	require.Error(t, err)
	assert.Equal(t, 1, client.Failures())
}
