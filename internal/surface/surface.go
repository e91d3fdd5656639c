// Package surface defines the boundary between the compositor core and the
// surface collaborator that owns client surface lifecycle. The core never
// creates or destroys surfaces; it iterates a snapshot of the currently
// valid ones once per frame.
package surface

import (
	"sync"

	"github.com/veilwm/veil/internal/gles"
	"github.com/veilwm/veil/internal/host"
)

// Surface is one live client surface as seen by the per-frame bridge.
type Surface interface {
	// Process uploads any newly committed buffer content into a GPU
	// texture through the shared renderer. A surface with no new commit
	// must do no GPU work. Render thread only.
	Process(draw host.Draw, r gles.Renderer)
	// Frame delivers a frame-completion event scoped to out, letting the
	// client pace itself to the host's frame cadence. Render thread only.
	Frame(draw host.Draw, out host.Output)
}

// Registry tracks the currently valid surfaces. Collaborator subsystems add
// and remove entries from any goroutine; readers get a stable snapshot.
type Registry struct {
	mu      sync.RWMutex
	nextKey uint64
	entries map[uint64]Surface
	order   []uint64
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[uint64]Surface)}
}

// Add registers a surface and returns the key to remove it with.
func (g *Registry) Add(s Surface) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextKey++
	g.entries[g.nextKey] = s
	g.order = append(g.order, g.nextKey)
	return g.nextKey
}

// Remove drops a surface. Removing an unknown key is a no-op.
func (g *Registry) Remove(key uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.entries[key]; !ok {
		return
	}
	delete(g.entries, key)
	for i, k := range g.order {
		if k == key {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// Valid returns a snapshot of the live surfaces in insertion order. The
// slice is the caller's; concurrent Add/Remove never mutate it.
func (g *Registry) Valid() []Surface {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Surface, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, g.entries[k])
	}
	return out
}

func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}
