package tcp

import (
	"context"
	"errors"
	"net"

	"golang.org/x/sync/errgroup"
)

// ConnHandler is invoked once per accepted connection, on its own goroutine.
// It must not return until the connection is done with (no further reads or
// writes will be issued against it by the caller).
type ConnHandler func(ctx context.Context, conn *Connection)

// Listener owns a net.Listener and turns every accepted socket into a
// goroutine running handle. It generalizes the teacher's StartEpoll accept
// loop (listen, accept in a loop, hand the fd to a worker) to the
// goroutine-per-connection model idiomatic for a net.Conn-based Go server,
// while keeping the same shape: one loop owns the listening socket, work is
// handed off immediately, and the loop keeps accepting while handlers run
// concurrently.
type Listener struct {
	ln      net.Listener
	handle  ConnHandler
	group   *errgroup.Group
	groupCx context.Context
}

// Listen binds addr (host:port, passed straight to net.Listen) and returns
// a Listener ready to Serve.
func Listen(network, addr string) (*Listener, error) {
	ln, err := net.Listen(network, addr)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln}, nil
}

// Addr returns the bound local address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Serve runs the accept loop until ctx is cancelled or Accept fails
// permanently (e.g. the listener was closed by Shutdown). Each accepted
// connection is wrapped and handed to handle on its own goroutine, tracked
// by an errgroup so Shutdown can wait for in-flight connections to drain.
func (l *Listener) Serve(ctx context.Context, handle ConnHandler) error {
	group, groupCtx := errgroup.WithContext(context.Background())
	l.group = group
	l.groupCx = groupCtx
	l.handle = handle

	go func() {
		<-ctx.Done()
		_ = l.ln.Close()
	}()

	for {
		rawConn, err := l.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return l.group.Wait()
			}
			continue
		}

		conn := NewConnection(rawConn, nil)
		l.group.Go(func() error {
			handle(ctx, conn)
			conn.Finish()
			return nil
		})
	}
}

// Shutdown stops accepting new connections and blocks until every in-flight
// handler goroutine started by Serve has returned, or ctx is done first.
func (l *Listener) Shutdown(ctx context.Context) error {
	_ = l.ln.Close()
	if l.group == nil {
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- l.group.Wait() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
