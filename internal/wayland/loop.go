package wayland

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// pollTick bounds how long the readiness watcher sleeps in poll(2) before
// rechecking cancellation.
const pollTick = 50 * time.Millisecond

// startLoop spins up the reactor: one goroutine per event source feeding
// channels, and one consumer goroutine that serializes all three branches.
// No two branches ever run concurrently with each other.
func (s *Server) startLoop(ctx context.Context) {
	conns := make(chan *net.UnixConn)
	ready := make(chan struct{})
	rearm := make(chan struct{})

	g, ctx := errgroup.WithContext(ctx)
	s.group = g

	g.Go(func() error { return s.acceptLoop(ctx, conns) })
	g.Go(func() error { return s.watchDispatch(ctx, ready, rearm) })
	g.Go(func() error { return s.run(ctx, conns, ready, rearm) })

	// Accept blocks in the kernel; closing the listener is what actually
	// interrupts it on cancellation.
	g.Go(func() error {
		<-ctx.Done()
		return s.listener.Close()
	})
}

// acceptLoop forwards accepted transport connections to the consumer.
func (s *Server) acceptLoop(ctx context.Context, conns chan<- *net.UnixConn) error {
	for {
		conn, err := s.listener.AcceptUnix()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		select {
		case conns <- conn:
		case <-ctx.Done():
			conn.Close()
			return nil
		}
	}
}

// watchDispatch watches the marshalling layer's poll fd and signals the
// consumer when client requests are pending. The fd is level-triggered, so
// after signaling it waits for the consumer to drain and re-arm before
// polling again.
func (s *Server) watchDispatch(ctx context.Context, ready chan<- struct{}, rearm <-chan struct{}) error {
	fd := int32(s.display.PollFD())
	for {
		if ctx.Err() != nil {
			return nil
		}
		fds := []unix.PollFd{{Fd: fd, Events: unix.POLLIN}}
		n, err := unix.Poll(fds, int(pollTick/time.Millisecond))
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("poll dispatch fd: %w", err)
		}
		if n == 0 {
			continue
		}
		select {
		case ready <- struct{}{}:
		case <-ctx.Done():
			return nil
		}
		select {
		case <-rearm:
		case <-ctx.Done():
			return nil
		}
	}
}

// run is the single consumer multiplexing the three event sources, first
// ready wins. Any branch error terminates the whole loop; there is no
// restart or per-client recovery here, that call belongs to the embedder.
func (s *Server) run(ctx context.Context, conns <-chan *net.UnixConn, ready <-chan struct{}, rearm chan<- struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case id := <-s.destroy.recv():
			s.log.Debug("destroy global", "global", id)
			s.state.removeGlobal(id)

		case conn := <-conns:
			client, err := s.state.insertClient(conn)
			if err != nil {
				conn.Close()
				return err
			}
			s.log.Debug("client connected", "client", client.ID())

		case <-ready:
			if err := s.state.dispatch(); err != nil {
				return err
			}
			select {
			case rearm <- struct{}{}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
