package protocol

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"golang.org/x/sys/unix"
)

// Loopback is a framing-free Display used by tests and the debug command.
// It accepts clients and signals dispatch readiness through a pipe, but
// speaks no actual Wayland: bytes received from clients are counted and
// discarded. It lets the surrounding machinery (accept fan-out, dispatch
// loop, destroy queue) run without a real marshalling library.
type Loopback struct {
	mu       sync.Mutex
	nextID   ClientID
	clients  map[ClientID]net.Conn
	removed  []GlobalID
	rfd, wfd int
	dispatch int
	closed   bool
	onGone   func(ClientID)
}

var errLoopbackClosed = errors.New("loopback display closed")

func NewLoopback() (*Loopback, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return nil, fmt.Errorf("create readiness pipe: %w", err)
	}
	return &Loopback{
		clients: make(map[ClientID]net.Conn),
		rfd:     fds[0],
		wfd:     fds[1],
	}, nil
}

func (l *Loopback) Handle() Handle { return loopbackHandle{l} }

func (l *Loopback) OnClientGone(fn func(ClientID)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onGone = fn
}

func (l *Loopback) PollFD() int { return l.rfd }

// Dispatch drains the readiness pipe and counts the round.
func (l *Loopback) Dispatch() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return errLoopbackClosed
	}
	var buf [64]byte
	for {
		n, err := unix.Read(l.rfd, buf[:])
		if n <= 0 || err != nil {
			break
		}
	}
	l.dispatch++
	return nil
}

func (l *Loopback) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return errLoopbackClosed
	}
	return nil
}

func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	for _, conn := range l.clients {
		_ = conn.Close()
	}
	clear(l.clients)
	_ = unix.Close(l.rfd)
	return unix.Close(l.wfd)
}

// Notify marks the display dispatch-ready, as arriving client requests
// would. Safe from any goroutine.
func (l *Loopback) Notify() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	// A full pipe already reads as ready; dropping the byte is fine.
	_, _ = unix.Write(l.wfd, []byte{0})
}

// DispatchCount reports how many dispatch rounds have run.
func (l *Loopback) DispatchCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dispatch
}

// RemovedGlobals returns the globals erased so far, in removal order.
func (l *Loopback) RemovedGlobals() []GlobalID {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]GlobalID, len(l.removed))
	copy(out, l.removed)
	return out
}

// ClientCount reports the number of live inserted clients.
func (l *Loopback) ClientCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

type loopbackHandle struct{ l *Loopback }

func (h loopbackHandle) InsertClient(conn net.Conn, _ ClientTrust) (Client, error) {
	l := h.l
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, errLoopbackClosed
	}
	l.nextID++
	id := l.nextID
	l.clients[id] = conn

	// Relay client traffic into the readiness pipe so the dispatch loop
	// wakes up, then drop the connection on EOF.
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := conn.Read(buf)
			if n > 0 {
				l.Notify()
			}
			if err != nil {
				l.mu.Lock()
				c, ok := l.clients[id]
				if ok {
					_ = c.Close()
					delete(l.clients, id)
				}
				gone := l.onGone
				l.mu.Unlock()
				if ok && gone != nil {
					gone(id)
				}
				return
			}
		}
	}()

	return loopbackClient(id), nil
}

func (h loopbackHandle) RemoveGlobal(id GlobalID) {
	h.l.mu.Lock()
	defer h.l.mu.Unlock()
	h.l.removed = append(h.l.removed, id)
}

type loopbackClient ClientID

func (c loopbackClient) ID() ClientID { return ClientID(c) }
