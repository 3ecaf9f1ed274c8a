// Package tcp provides the transport primitives the http package is built
// on: a lifecycle-aware wrapper around net.Conn, a read-deadline timer, and
// the listener loop that turns accepted sockets into goroutines.
package tcp

import (
	"net"
	"sync"
	"sync/atomic"
)

// Lifecycle decides what Connection.Finish does once a request/response
// cycle is over: close the transport, or leave it open for the next
// pipelined or keep-alive message.
type Lifecycle int32

const (
	// KeepAlive returns the connection to service for another message.
	KeepAlive Lifecycle = iota
	// Close shuts the transport down when Finish is called.
	Close
)

var connSeq atomic.Uint64

// Connection owns one accepted net.Conn. It is shared, one phase at a time,
// by a Reader, a Dispatch Engine and a Response Writer; whichever of those
// holds it last is responsible for calling Finish.
type Connection struct {
	id        uint64
	conn      net.Conn
	lifecycle atomic.Int32
	open      atomic.Bool
	finishMu  sync.Mutex
	finished  bool

	// onRecycle is invoked by Finish when the lifecycle is KeepAlive,
	// giving the acceptor a chance to drive another receive/dispatch
	// cycle on the same socket instead of tearing it down.
	onRecycle func(*Connection)
}

// NewConnection wraps an already-accepted net.Conn. onRecycle may be nil,
// in which case a KeepAlive lifecycle behaves the same as Close.
func NewConnection(conn net.Conn, onRecycle func(*Connection)) *Connection {
	c := &Connection{
		id:        connSeq.Add(1),
		conn:      conn,
		onRecycle: onRecycle,
	}
	c.lifecycle.Store(int32(KeepAlive))
	c.open.Store(true)
	return c
}

// ID returns a process-local, monotonically increasing identifier useful for
// correlating log lines emitted while servicing this connection.
func (c *Connection) ID() uint64 { return c.id }

// Raw exposes the underlying net.Conn for operations (TLS state, remote
// address, ...) this wrapper does not itself surface.
func (c *Connection) Raw() net.Conn { return c.conn }

// ReadSome performs one read into buf. It is the Go realization of the
// spec's async_read_some: a blocking call made from this connection's own
// goroutine, which is how the framework expresses "asynchronous" I/O without
// a callback-based reactor.
func (c *Connection) ReadSome(buf []byte) (int, error) {
	return c.conn.Read(buf)
}

// Write performs one write of b in full (or returns the short-write error).
func (c *Connection) Write(b []byte) (int, error) {
	return c.conn.Write(b)
}

// SetLifecycle records whether Finish should close or recycle the
// connection. Concurrent calls from different phases of the same connection
// cannot happen by construction (see package tcp doc comment), so a plain
// atomic store is sufficient.
func (c *Connection) SetLifecycle(l Lifecycle) {
	c.lifecycle.Store(int32(l))
}

// Lifecycle returns the currently configured lifecycle.
func (c *Connection) Lifecycle() Lifecycle {
	return Lifecycle(c.lifecycle.Load())
}

// IsOpen reports whether the transport has not yet been closed.
func (c *Connection) IsOpen() bool {
	return c.open.Load()
}

// Finish is the end-of-use hook: idempotent, safe to call from more than one
// phase (the dispatcher's error gate and a handler's Response Writer
// callback both call it in different code paths, never both in the same
// request, but the guard costs nothing and matches the source's intent).
func (c *Connection) Finish() {
	c.finishMu.Lock()
	already := c.finished
	c.finished = true
	c.finishMu.Unlock()
	if already {
		return
	}

	if c.Lifecycle() == KeepAlive && c.onRecycle != nil {
		c.onRecycle(c)
		return
	}
	c.closeNow()
}

// closeNow shuts down and closes the transport unconditionally, ignoring
// a close error the way the source does: by the time Finish runs, the
// caller has nothing useful to do with a close failure.
func (c *Connection) closeNow() {
	if c.open.CompareAndSwap(true, false) {
		_ = c.conn.Close()
	}
}
