package wayland

import (
	"errors"
	"fmt"

	"github.com/veilwm/veil/internal/gles"
	"github.com/veilwm/veil/internal/host"
)

// ErrNotEGL means the host engine is not running on the one graphics
// backend whose context can be shared with Wayland clients.
var ErrNotEGL = errors.New("host engine is not running on OpenGL ES with EGL")

// eglHandles reads the native EGL display/config/context from the host
// engine. The handles are borrowed: they stay valid only while the engine
// keeps its own context alive, and must never be released from this side.
func eglHandles(engine host.Engine) (gles.EGLHandles, error) {
	if b := engine.GraphicsBackend(); b != host.BackendOpenGLESEGL {
		return gles.EGLHandles{}, fmt.Errorf("%w: backend is %s", ErrNotEGL, b)
	}
	return gles.EGLHandles{
		Display: engine.EGLDisplay(),
		Config:  engine.EGLConfig(),
		Context: engine.EGLContext(),
	}, nil
}
