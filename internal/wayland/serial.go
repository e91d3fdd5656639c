package wayland

import "sync/atomic"

// Serial mints the monotonically increasing ordering tokens Wayland events
// are tagged with. One counter is shared by the whole server; collaborator
// subsystems reach it through Server.Serial. Wraparound at 2^32 is expected
// behavior, not an error.
type Serial struct {
	n atomic.Uint32
}

// Next returns the current value and advances the counter.
func (s *Serial) Next() uint32 {
	return s.n.Add(1) - 1
}
