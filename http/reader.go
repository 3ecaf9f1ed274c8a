package http

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/mattyclarkson/pion/tcp"
)

// ReadStatus is the terminal outcome of a Reader's read-and-parse cycle.
type ReadStatus int

const (
	// StatusOK means a complete, valid message was decoded.
	StatusOK ReadStatus = iota
	// StatusParseError means the bytes received do not form a valid
	// message; err on the Result will be a *ParseError.
	StatusParseError
	// StatusIOError means the underlying connection failed before a
	// complete message was received.
	StatusIOError
	// StatusTimeout means the configured read timeout elapsed with no
	// complete message received.
	StatusTimeout
)

// Result is what Receive returns: either a decoded Message (Status ==
// StatusOK) or the reason decoding stopped short.
type Result struct {
	Status  ReadStatus
	Message *Message
	Err     error
}

// Reader drives a Parser against a tcp.Connection, handling partial reads,
// read deadlines, and pipelined bytes (extra bytes read past the end of one
// message are held over for the next Receive call on the same connection).
// It realizes the spec's IDLE -> READING -> PARSING <-> READING -> DONE
// state machine: IDLE is "Receive not yet called", READING is "blocked in
// ReadSome", PARSING is "handing bytes to Parser.Parse", and DONE is one of
// the four ReadStatus values above.
type Reader struct {
	conn  *tcp.Connection
	timer *tcp.DeadlineTimer
	buf   *tcp.BufferPool

	parser  *Parser
	pending []byte // bytes read but not yet consumed by the parser
}

// NewReader builds a Reader bound to conn, decoding with the limits
// configured on parser. bufPool supplies read buffers; pass nil to have the
// Reader allocate its own.
func NewReader(conn *tcp.Connection, parser *Parser, bufPool *tcp.BufferPool) *Reader {
	if bufPool == nil {
		bufPool = tcp.NewBufferPool(0)
	}
	return &Reader{
		conn:   conn,
		timer:  tcp.NewDeadlineTimer(conn),
		buf:    bufPool,
		parser: parser,
	}
}

// Receive blocks until a complete message has been decoded, the connection
// fails, or timeout elapses without one. timeout <= 0 disables the
// deadline, matching the spec's "a timeout of zero disables the timer".
func (r *Reader) Receive(timeout time.Duration) Result {
	r.parser.Reset()

	if timeout > 0 {
		r.timer.Arm(timeout)
		defer r.timer.Cancel()
	}

	for {
		if len(r.pending) > 0 {
			n, err := r.parser.Parse(r.pending)
			r.pending = r.pending[n:]
			if err != nil {
				var pe *ParseError
				if errors.As(err, &pe) {
					return Result{Status: StatusParseError, Err: pe}
				}
				return Result{Status: StatusParseError, Err: err}
			}
			if r.parser.Complete() {
				return Result{Status: StatusOK, Message: r.parser.Message()}
			}
		}

		chunk := r.buf.Get()
		n, err := r.conn.ReadSome(chunk)
		if n > 0 {
			r.pending = append(r.pending, chunk[:n]...)
		}
		r.buf.Put(chunk)

		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				return Result{Status: StatusTimeout, Err: err}
			}
			if errors.Is(err, io.EOF) {
				// Some readers deliver the final bytes together with EOF
				// rather than on a prior call; consume them before deciding
				// whether this is a body-until-close finalization.
				if len(r.pending) > 0 {
					n, perr := r.parser.Parse(r.pending)
					r.pending = r.pending[n:]
					if perr != nil {
						var pe *ParseError
						if errors.As(perr, &pe) {
							return Result{Status: StatusParseError, Err: pe}
						}
						return Result{Status: StatusParseError, Err: perr}
					}
					if r.parser.Complete() {
						return Result{Status: StatusOK, Message: r.parser.Message()}
					}
				}
				if r.parser.Started() && r.parser.FinishOnEOF() {
					return Result{Status: StatusOK, Message: r.parser.Message()}
				}
			}
			return Result{Status: StatusIOError, Err: err}
		}
	}
}

// Pending reports whether bytes have already been read past the previous
// message's end (a pipelined next request), so the caller can decide
// whether to re-arm a read timeout before calling Receive again.
func (r *Reader) Pending() bool { return len(r.pending) > 0 }
