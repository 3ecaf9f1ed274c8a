package http

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/mattyclarkson/pion/tcp"
)

func readStatusLine(t *testing.T, client net.Conn) string {
	t.Helper()
	client.SetReadDeadline(time.Now().Add(time.Second))
	line, err := bufio.NewReader(client).ReadString('\n')
	if err != nil {
		t.Fatalf("read status line: %v", err)
	}
	return line
}

func readHeaders(t *testing.T, client net.Conn) Headers {
	t.Helper()
	client.SetReadDeadline(time.Now().Add(time.Second))
	reader := bufio.NewReader(client)

	var headers Headers
	if _, err := reader.ReadString('\n'); err != nil {
		t.Fatalf("read status line: %v", err)
	}
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read header line: %v", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			t.Fatalf("malformed header line: %q", line)
		}
		headers.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return headers
}

func TestResponderBadRequestStatusLine(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	conn := tcp.NewConnection(server, nil)

	go ErrorResponders{}.HandleBadRequest(conn, func() {}, "garbage")

	line := readStatusLine(t, client)
	if !strings.HasPrefix(line, "HTTP/1.1 400") {
		t.Fatalf("unexpected status line: %q", line)
	}
}

func TestResponderMethodNotAllowed(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	conn := tcp.NewConnection(server, nil)

	go ErrorResponders{}.HandleMethodNotAllowed(conn, func() {}, "TRACE", "GET, POST")

	line := readStatusLine(t, client)
	if !strings.HasPrefix(line, "HTTP/1.1 405") {
		t.Fatalf("unexpected status line: %q", line)
	}
}

func TestResponderMethodNotAllowedSetsAllowHeader(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	conn := tcp.NewConnection(server, nil)

	go ErrorResponders{}.HandleMethodNotAllowed(conn, func() {}, "TRACE", "GET, POST")

	headers := readHeaders(t, client)
	if got := headers.Get("Allow"); got != "GET, POST" {
		t.Fatalf("expected Allow header %q, got %q", "GET, POST", got)
	}
}

func TestResponderMethodNotAllowedOmitsAllowHeaderWhenEmpty(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	conn := tcp.NewConnection(server, nil)

	go ErrorResponders{}.HandleMethodNotAllowed(conn, func() {}, "TRACE", "")

	headers := readHeaders(t, client)
	if got := headers.Get("Allow"); got != "" {
		t.Fatalf("expected no Allow header, got %q", got)
	}
}

func TestResponderFinishedCallbackRuns(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	conn := tcp.NewConnection(server, nil)

	called := make(chan struct{})
	go ErrorResponders{}.HandleForbiddenRequest(conn, func() { close(called) }, "/secret")

	readStatusLine(t, client)
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("finished callback never ran")
	}
}
