// Package host declares the contract veil consumes from the embedding 3D/XR
// engine. The engine owns the process, the render loop, and the GPU context;
// veil only borrows handles from it.
package host

import "time"

// ForeignHandle is a native pointer borrowed from the host engine. It is
// never dereferenced, reference-counted, or freed on this side; it stays
// valid only while the engine keeps its own context alive.
type ForeignHandle uintptr

// GraphicsBackend identifies the rendering API family the host engine was
// initialized with.
type GraphicsBackend int

const (
	BackendNone GraphicsBackend = iota
	BackendOpenGLESEGL
	BackendOpenGLGLX
	BackendOpenGLWGL
	BackendD3D11
	BackendVulkan
)

func (b GraphicsBackend) String() string {
	switch b {
	case BackendOpenGLESEGL:
		return "opengles_egl"
	case BackendOpenGLGLX:
		return "opengl_glx"
	case BackendOpenGLWGL:
		return "opengl_wgl"
	case BackendD3D11:
		return "d3d11"
	case BackendVulkan:
		return "vulkan"
	default:
		return "none"
	}
}

// Engine is the subset of the host engine's backend API veil reads at
// startup. The EGL accessors are only meaningful when GraphicsBackend
// reports BackendOpenGLESEGL.
type Engine interface {
	GraphicsBackend() GraphicsBackend
	EGLDisplay() ForeignHandle
	EGLConfig() ForeignHandle
	EGLContext() ForeignHandle
}

// Draw is the per-frame token the engine hands to its render callbacks.
// It is valid only for the duration of the frame it was issued for and
// must not be retained.
type Draw interface {
	// FrameIndex counts frames presented since the engine started.
	FrameIndex() uint64
	// PredictedDisplayTime is when the frame being recorded is expected
	// to reach the display.
	PredictedDisplayTime() time.Time
}

// Output describes the presentation target frame events are reported
// against, in Wayland terms: the host engine's render surface.
type Output struct {
	Name    string
	Width   int32 // pixels
	Height  int32 // pixels
	Refresh int32 // millihertz, wl_output convention
	Scale   int32
}
