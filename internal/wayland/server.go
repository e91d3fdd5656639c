// Package wayland is the core of veil: an embedded Wayland display server
// that runs inside a host 3D/XR engine's frame loop. It bridges the
// asynchronous protocol dispatch machinery and the engine's synchronous
// once-per-frame render tick, sharing the engine's GPU context so committed
// client buffers land in textures the engine can draw directly.
package wayland

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/veilwm/veil/internal/gles"
	"github.com/veilwm/veil/internal/host"
	"github.com/veilwm/veil/internal/protocol"
	"github.com/veilwm/veil/internal/surface"
)

// Server is one running embedded Wayland display server.
//
// Two execution contexts touch it: the dispatch loop goroutines started at
// construction, and the host's render thread calling Update and FrameEvent
// once per frame. Shared protocol state is guarded by State's mutex; the
// GPU context is touched only from the render thread.
type Server struct {
	engine   host.Engine
	display  protocol.Display
	renderer gles.Renderer
	state    *State
	serial   *Serial
	destroy  *DestroyQueue
	surfaces *surface.Registry

	listener   *net.UnixListener
	socketName string

	log    *log.Logger
	cancel context.CancelFunc
	group  *errgroup.Group
	once   sync.Once
	result error
}

// New constructs and starts a server. Startup is all-or-nothing: a host
// backend mismatch, renderer construction failure, or an exhausted socket
// search range fails construction with no partial state left behind.
//
// newRenderer is called with the engine's EGL handles and must return a
// renderer sharing that context; the embedding engine supplies the real
// GLES implementation.
func New(engine host.Engine, display protocol.Display, newRenderer gles.Factory, opts ...Option) (*Server, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.surfaces == nil {
		o.surfaces = surface.NewRegistry()
	}

	handles, err := eglHandles(engine)
	if err != nil {
		return nil, err
	}
	renderer, err := newRenderer(handles)
	if err != nil {
		return nil, fmt.Errorf("create shared renderer: %w", err)
	}

	listener, socketName, err := bindAuto(o.socketDir, o.socketBase, o.socketRange)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		engine:     engine,
		display:    display,
		renderer:   renderer,
		state:      newState(display, o.output),
		serial:     &Serial{},
		destroy:    newDestroyQueue(o.queueCapacity),
		surfaces:   o.surfaces,
		listener:   listener,
		socketName: socketName,
		log:        o.log,
		cancel:     cancel,
	}
	display.OnClientGone(func(id protocol.ClientID) {
		s.log.Debug("client disconnected", "client", id)
		s.state.RemoveClient(id)
	})
	s.startLoop(ctx)

	s.log.Info("wayland active", "socket", socketName)
	return s, nil
}

// SocketName returns the bound socket name, e.g. "wayland-1". The embedder
// advertises it to client processes, conventionally via WAYLAND_DISPLAY.
func (s *Server) SocketName() string {
	return s.socketName
}

// ClientEnv returns the environment entries a spawned client process needs
// to find this server.
func (s *Server) ClientEnv() []string {
	return []string{"WAYLAND_DISPLAY=" + s.socketName}
}

// State exposes the shared protocol state to collaborator subsystems.
func (s *Server) State() *State {
	return s.state
}

// Serial exposes the shared ordering-token counter.
func (s *Server) Serial() *Serial {
	return s.serial
}

// Surfaces exposes the live-surface registry the per-frame passes iterate.
func (s *Server) Surfaces() *surface.Registry {
	return s.surfaces
}

// DestroyGlobal requests removal of a published global. Safe from any
// goroutine; the physical registry mutation happens on the dispatch loop.
// Blocks while the queue is full.
func (s *Server) DestroyGlobal(ctx context.Context, id protocol.GlobalID) error {
	return s.destroy.Enqueue(ctx, id)
}

// Update is the per-frame buffer-upload pass. Render thread only, with the
// shared context current. It flushes pending protocol events, then walks
// the live-surface snapshot uploading newly committed buffers; surfaces
// with no new commit do no GPU work.
func (s *Server) Update(draw host.Draw) error {
	if err := s.state.flush(); err != nil {
		return err
	}
	for _, sf := range s.surfaces.Valid() {
		sf.Process(draw, s.renderer)
	}
	return nil
}

// FrameEvent delivers frame-completion notifications scoped to the current
// output, letting clients pace themselves to the host's frame cadence.
// Render thread only. Kept separate from Update because "this output
// finished presenting" is not "buffer contents were uploaded".
func (s *Server) FrameEvent(draw host.Draw) {
	out := s.state.Output()
	for _, sf := range s.surfaces.Valid() {
		sf.Frame(draw, out)
	}
}

// MakeContextCurrent forces the shared GPU context current on the calling
// thread, for host callbacks that arrive outside the normal per-frame
// sequence. A failure leaves rendering undefined, so it is process-ending.
func (s *Server) MakeContextCurrent() {
	if err := s.renderer.MakeCurrent(); err != nil {
		panic(fmt.Sprintf("wayland: make EGL context current: %v", err))
	}
}

// Close aborts the dispatch loop mid-iteration: no drain of pending
// destructions, no per-client goodbye. Idempotent. The returned error is
// whatever terminated the loop, if anything did before Close.
func (s *Server) Close() error {
	s.once.Do(func() {
		s.cancel()
		err := s.group.Wait()
		if errors.Is(err, net.ErrClosed) || errors.Is(err, context.Canceled) {
			err = nil
		}
		if cerr := s.display.Close(); err == nil {
			err = cerr
		}
		s.result = err
	})
	return s.result
}

// Wait blocks until the dispatch loop stops, returning the error that
// stopped it. Useful to embedders that want to supervise and reconstruct
// the whole server on steady-state failure.
func (s *Server) Wait() error {
	err := s.group.Wait()
	if errors.Is(err, net.ErrClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
