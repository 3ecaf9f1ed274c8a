package http

import (
	"bytes"
	"testing"
)

func TestParserSimpleGET(t *testing.T) {
	p := NewParser(0, 0)
	raw := []byte("GET /hello HTTP/1.1\r\nHost: example.com\r\n\r\n")

	n, err := p.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(raw) {
		t.Fatalf("consumed %d, want %d", n, len(raw))
	}
	if !p.Complete() {
		t.Fatal("expected Complete() after a full request")
	}
	msg := p.Message()
	if msg.Method != "GET" || msg.Resource != "/hello" || msg.Version != "HTTP/1.1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.Headers.Get("Host") != "example.com" {
		t.Fatalf("missing Host header: %v", msg.Headers)
	}
	if !msg.Valid {
		t.Fatal("expected Valid = true")
	}
}

func TestParserByteAtATime(t *testing.T) {
	p := NewParser(0, 0)
	raw := []byte("POST /submit HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello")

	total := 0
	for total < len(raw) && !p.Complete() {
		n, err := p.Parse(raw[total : total+1])
		if err != nil {
			t.Fatalf("unexpected error at byte %d: %v", total, err)
		}
		total += n
		if n == 0 {
			// NEED_MORE: feed the next byte too.
			continue
		}
	}
	if !p.Complete() {
		t.Fatalf("parser never completed, consumed %d of %d", total, len(raw))
	}
	if got := string(p.Message().Body); got != "hello" {
		t.Fatalf("body = %q, want hello", got)
	}
}

func TestParserNeedMoreReturnsZeroNilError(t *testing.T) {
	p := NewParser(0, 0)
	n, err := p.Parse([]byte("GET /par"))
	if err != nil {
		t.Fatalf("partial request line should not error, got %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 bytes consumed on NEED_MORE, got %d", n)
	}
}

func TestParserMalformedRequestLine(t *testing.T) {
	p := NewParser(0, 0)
	_, err := p.Parse([]byte("NOT A VALID REQUEST LINE AT ALL\r\n\r\n"))
	if err == nil {
		t.Fatal("expected a parse error")
	}
	var pe *ParseError
	if !errorsAs(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestParserUnsupportedMethod(t *testing.T) {
	p := NewParser(0, 0)
	_, err := p.Parse([]byte("FOOBAR / HTTP/1.1\r\n\r\n"))
	var pe *ParseError
	if !errorsAs(err, &pe) || pe.Kind != ErrKindUnsupportedMethod {
		t.Fatalf("expected ErrKindUnsupportedMethod, got %v", err)
	}
}

func TestParserContentLengthTooLarge(t *testing.T) {
	p := NewParser(0, 10)
	_, err := p.Parse([]byte("POST /x HTTP/1.1\r\nContent-Length: 1000\r\n\r\n"))
	var pe *ParseError
	if !errorsAs(err, &pe) || pe.Kind != ErrKindTooLarge {
		t.Fatalf("expected ErrKindTooLarge, got %v", err)
	}
}

func TestParserChunkedBody(t *testing.T) {
	p := NewParser(0, 0)
	raw := []byte("POST /x HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n")

	n, err := p.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(raw) {
		t.Fatalf("consumed %d, want %d", n, len(raw))
	}
	if !p.Complete() {
		t.Fatal("expected completion")
	}
	if got := string(p.Message().Body); got != "hello world" {
		t.Fatalf("body = %q, want %q", got, "hello world")
	}
}

func TestParserChunkedWithTrailer(t *testing.T) {
	p := NewParser(0, 0)
	raw := []byte("POST /x HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"3\r\nabc\r\n0\r\nX-Trailer: done\r\n\r\n")

	_, err := p.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Complete() {
		t.Fatal("expected completion")
	}
	if got := string(p.Message().Body); got != "abc" {
		t.Fatalf("body = %q, want abc", got)
	}
	if got := p.Message().Headers.Get("X-Trailer"); got != "done" {
		t.Fatalf("trailer header missing, got %q", got)
	}
}

func TestParserHTTP10UntilCloseWaitsForFinishOnEOF(t *testing.T) {
	p := NewParser(0, 0)
	raw := []byte("POST /x HTTP/1.0\r\n\r\nhello world")

	n, err := p.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(raw) {
		t.Fatalf("consumed %d, want %d", n, len(raw))
	}
	if p.Complete() {
		t.Fatal("an HTTP/1.0 body-until-close message must not complete before EOF")
	}
	if !p.Started() {
		t.Fatal("expected Started() once the request line and body bytes were consumed")
	}
	if !p.FinishOnEOF() {
		t.Fatal("expected FinishOnEOF to finalize a body-until-close message")
	}
	if !p.Complete() {
		t.Fatal("expected Complete() after FinishOnEOF")
	}
	if got := string(p.Message().Body); got != "hello world" {
		t.Fatalf("body = %q, want %q", got, "hello world")
	}
}

func TestParserFinishOnEOFIsNoopOutsideUntilCloseBody(t *testing.T) {
	p := NewParser(0, 0)
	if _, err := p.Parse([]byte("GET /par")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.FinishOnEOF() {
		t.Fatal("FinishOnEOF must not finalize a message still mid-request-line")
	}
}

func TestParserStartedIsFalseBeforeAnyBytes(t *testing.T) {
	p := NewParser(0, 0)
	if p.Started() {
		t.Fatal("a fresh parser should report Started() == false")
	}
}

func TestParserResetAllowsReuse(t *testing.T) {
	p := NewParser(0, 0)
	raw := []byte("GET /one HTTP/1.1\r\n\r\n")
	if _, err := p.Parse(raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Reset()
	raw2 := []byte("GET /two HTTP/1.1\r\n\r\n")
	if _, err := p.Parse(raw2); err != nil {
		t.Fatalf("unexpected error after reset: %v", err)
	}
	if p.Message().Resource != "/two" {
		t.Fatalf("resource = %q, want /two", p.Message().Resource)
	}
}

// errorsAs is a tiny local wrapper so this file only needs the errors
// package's As without importing it twice across test files.
func errorsAs(err error, target **ParseError) bool {
	pe, ok := err.(*ParseError)
	if !ok {
		return false
	}
	*target = pe
	return true
}

func TestParseHeaderLineRejectsMissingColon(t *testing.T) {
	_, _, err := parseHeaderLine([]byte("no-colon-here"))
	if err == nil {
		t.Fatal("expected an error for a header line with no colon")
	}
}

func TestBuildResponseHeadContainsStatusLine(t *testing.T) {
	msg := &Message{Version: "HTTP/1.1", StatusCode: 200, StatusMessage: "OK"}
	msg.Headers.Set("Content-Length", "0")
	head := buildResponseHead(msg, nil)
	if !bytes.HasPrefix(head, []byte("HTTP/1.1 200 OK\r\n")) {
		t.Fatalf("unexpected head: %q", head)
	}
}
