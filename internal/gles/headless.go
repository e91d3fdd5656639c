package gles

import "sync"

// HeadlessRenderer satisfies Renderer without touching a GPU. It records the
// handles it was built from and counts MakeCurrent calls, which is all the
// debug command and tests need.
type HeadlessRenderer struct {
	mu      sync.Mutex
	handles EGLHandles
	current int
}

// NewHeadlessRenderer is a Factory.
func NewHeadlessRenderer(h EGLHandles) (Renderer, error) {
	return &HeadlessRenderer{handles: h}, nil
}

func (r *HeadlessRenderer) MakeCurrent() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current++
	return nil
}

// Handles returns the EGL handles the renderer was constructed around.
func (r *HeadlessRenderer) Handles() EGLHandles {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handles
}

// MakeCurrentCount reports how many times the context was forced current.
func (r *HeadlessRenderer) MakeCurrentCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
