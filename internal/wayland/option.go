package wayland

import (
	"github.com/charmbracelet/log"

	"github.com/veilwm/veil/internal/host"
	"github.com/veilwm/veil/internal/logger"
	"github.com/veilwm/veil/internal/surface"
)

type options struct {
	queueCapacity int
	socketDir     string
	socketBase    string
	socketRange   int
	surfaces      *surface.Registry
	output        host.Output
	log           *log.Logger
}

func defaultOptions() options {
	return options{
		queueCapacity: DefaultDestroyQueueCapacity,
		socketDir:     runtimeDir(),
		socketBase:    DefaultSocketBase,
		socketRange:   DefaultSocketSearchRange,
		log:           logger.New("wayland"),
	}
}

// Option configures a Server.
type Option func(*options)

// WithQueueCapacity bounds the destroy-global queue.
func WithQueueCapacity(n int) Option {
	return func(o *options) { o.queueCapacity = n }
}

// WithSocketDir overrides the directory the listening socket binds under.
func WithSocketDir(dir string) Option {
	return func(o *options) { o.socketDir = dir }
}

// WithSocketBase overrides the socket name prefix.
func WithSocketBase(base string) Option {
	return func(o *options) { o.socketBase = base }
}

// WithSocketSearchRange bounds how many candidate names bind-auto tries.
func WithSocketSearchRange(n int) Option {
	return func(o *options) { o.socketRange = n }
}

// WithSurfaceRegistry wires in the surface collaborator's registry. Without
// one the per-frame passes see no surfaces.
func WithSurfaceRegistry(reg *surface.Registry) Option {
	return func(o *options) { o.surfaces = reg }
}

// WithOutput sets the initial output configuration reported to clients.
func WithOutput(out host.Output) Option {
	return func(o *options) { o.output = out }
}

// WithLogger replaces the component logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.log = l }
}
