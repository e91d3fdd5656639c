// Package gles is the boundary to the GPU texture/shader pipeline. The
// pipeline itself lives with the embedding engine; veil only needs a renderer
// that shares the host's EGL context so buffer uploads land in textures the
// engine can draw directly.
package gles

import "github.com/veilwm/veil/internal/host"

// EGLHandles are the native EGL objects read from the host engine at
// startup. All three are borrowed, never owned: veil must not destroy them,
// and they become invalid the moment the engine tears down its context.
type EGLHandles struct {
	Display host.ForeignHandle
	Config  host.ForeignHandle
	Context host.ForeignHandle
}

// Renderer is a GPU renderer sharing the host engine's context. Surface
// collaborators use it to upload committed client buffers into textures;
// this package only requires the context-affinity operation.
//
// All Renderer methods are thread-affine GPU calls: they may only run on a
// thread that can legally own the shared context, in practice the host's
// render thread.
type Renderer interface {
	// MakeCurrent forces the shared context current on the calling thread.
	// Needed when the engine invokes callbacks on a thread other than the
	// one that created the context.
	MakeCurrent() error
}

// Factory builds a Renderer that shares the context described by h.
// The embedding engine supplies the real EGL/GLES implementation; tests and
// the debug command use NewHeadlessRenderer.
type Factory func(h EGLHandles) (Renderer, error)
