package http

import (
	"github.com/mattyclarkson/pion/tcp"
)

// ResponseWriter assembles and sends one response, mirroring the original
// HTTPResponseWriter: callers append static fragments with WriteNoCopy,
// append dynamic text with WriteString/WriteValue the way the original
// streams values with operator<<, and finish with Send, which writes the
// framed bytes and runs a finished callback (bound to the connection's
// Finish in normal use, so the writer never has to know about connection
// lifecycle itself).
type ResponseWriter struct {
	conn     *tcp.Connection
	msg      Message
	body     []byte
	finished func()
}

// NewResponseWriter builds a writer bound to conn. finished is invoked
// after Send completes (successfully or not); pass conn.Finish for the
// common case of "one response, then apply connection lifecycle".
func NewResponseWriter(conn *tcp.Connection, finished func()) *ResponseWriter {
	return &ResponseWriter{conn: conn, finished: finished}
}

// SetStatus sets the response status code and, if message is "", fills in
// the standard reason phrase.
func (w *ResponseWriter) SetStatus(code int, message string) {
	w.msg.StatusCode = code
	w.msg.StatusMessage = message
}

// SetVersion sets the response's HTTP version string, e.g. to echo the
// request's version.
func (w *ResponseWriter) SetVersion(version string) { w.msg.Version = version }

// Headers exposes the response headers for direct manipulation.
func (w *ResponseWriter) Headers() *Headers { return &w.msg.Headers }

// WriteNoCopy appends a static byte slice to the response body without
// copying it now; the slice must not be mutated before Send.
func (w *ResponseWriter) WriteNoCopy(b []byte) { w.body = append(w.body, b...) }

// WriteString appends a dynamic string to the response body, the
// streaming-append equivalent of the original's operator<<.
func (w *ResponseWriter) WriteString(s string) { w.body = append(w.body, s...) }

// WriteValue appends any byte-representable value's string form, covering
// the original's non-string operator<< overloads (resource, method, etc.
// are already strings in this port, so this is mostly a convenience
// alias).
func (w *ResponseWriter) WriteValue(v string) { w.WriteString(v) }

// Send frames the accumulated status line, headers, and body and writes
// them to the connection, then invokes the finished callback. It sets
// Content-Length automatically if the caller has not already set one.
func (w *ResponseWriter) Send() error {
	defer func() {
		if w.finished != nil {
			w.finished()
		}
	}()

	if w.msg.Headers.Get("Content-Length") == "" {
		w.msg.Headers.Set("Content-Length", itoa(len(w.body)))
	}

	head := buildResponseHead(&w.msg, make([]byte, 0, 256+len(w.body)))
	head = append(head, w.body...)
	_, err := w.conn.Write(head)
	return err
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
