package wayland

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilwm/veil/internal/host"
)

type fakeEngine struct {
	backend host.GraphicsBackend
	display host.ForeignHandle
	config  host.ForeignHandle
	context host.ForeignHandle
}

func (e fakeEngine) GraphicsBackend() host.GraphicsBackend { return e.backend }
func (e fakeEngine) EGLDisplay() host.ForeignHandle        { return e.display }
func (e fakeEngine) EGLConfig() host.ForeignHandle         { return e.config }
func (e fakeEngine) EGLContext() host.ForeignHandle        { return e.context }

func TestEGLHandles(t *testing.T) {
	engine := fakeEngine{
		backend: host.BackendOpenGLESEGL,
		display: 0x1000,
		config:  0x2000,
		context: 0x3000,
	}

	h, err := eglHandles(engine)
	require.NoError(t, err)
	assert.Equal(t, host.ForeignHandle(0x1000), h.Display)
	assert.Equal(t, host.ForeignHandle(0x2000), h.Config)
	assert.Equal(t, host.ForeignHandle(0x3000), h.Context)
}

func TestEGLHandlesBackendMismatch(t *testing.T) {
	for _, backend := range []host.GraphicsBackend{
		host.BackendNone,
		host.BackendOpenGLGLX,
		host.BackendD3D11,
		host.BackendVulkan,
	} {
		t.Run(backend.String(), func(t *testing.T) {
			_, err := eglHandles(fakeEngine{backend: backend})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotEGL)
			assert.Contains(t, err.Error(), backend.String())
		})
	}
}
