package wayland

import (
	"fmt"
	"net"
	"slices"
	"sync"

	"github.com/veilwm/veil/internal/host"
	"github.com/veilwm/veil/internal/protocol"
)

// GlobalInfo describes a published protocol capability.
type GlobalInfo struct {
	Interface string
	Version   uint32
}

// State is the shared display/state owner: the global registry, the table
// of live clients, and the hooks collaborator subsystems attach. It is
// touched from two execution contexts, the dispatch loop and the host's
// render thread, so every access goes through one mutex. The lock is never
// held across anything that can block.
type State struct {
	mu          sync.Mutex
	display     protocol.Display
	globals     map[protocol.GlobalID]GlobalInfo
	clients     map[protocol.ClientID]protocol.Client
	output      host.Output
	onNewClient []func(protocol.ClientID)
}

func newState(display protocol.Display, output host.Output) *State {
	return &State{
		display: display,
		globals: make(map[protocol.GlobalID]GlobalInfo),
		clients: make(map[protocol.ClientID]protocol.Client),
		output:  output,
	}
}

// OnNewClient registers a hook invoked once for every accepted client, so
// seat, shell, and decoration subsystems can allocate per-client state.
// Hooks run on the dispatch loop goroutine and must not block.
func (s *State) OnNewClient(fn func(protocol.ClientID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onNewClient = append(s.onNewClient, fn)
}

// AnnounceGlobal records a capability the marshalling layer has published.
// Called by the extension subsystem that created the global.
func (s *State) AnnounceGlobal(id protocol.GlobalID, iface string, version uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globals[id] = GlobalInfo{Interface: iface, Version: version}
}

// Globals returns a snapshot of the published globals.
func (s *State) Globals() map[protocol.GlobalID]GlobalInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[protocol.GlobalID]GlobalInfo, len(s.globals))
	for id, info := range s.globals {
		out[id] = info
	}
	return out
}

// Clients returns the identities of the currently connected clients.
func (s *State) Clients() []protocol.ClientID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]protocol.ClientID, 0, len(s.clients))
	for id := range s.clients {
		out = append(out, id)
	}
	return out
}

// RemoveClient drops a disconnected client from the table. Invoked by the
// marshalling layer's disconnect path.
func (s *State) RemoveClient(id protocol.ClientID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, id)
}

// SetOutput replaces the output configuration reported in frame events.
func (s *State) SetOutput(out host.Output) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output = out
}

// Output returns the current output configuration.
func (s *State) Output() host.Output {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output
}

// insertClient registers an accepted connection with the protocol engine
// and fans out the new-client notification. Dispatch loop only. Hooks run
// outside the lock so they may call back into State.
func (s *State) insertClient(conn net.Conn) (protocol.Client, error) {
	s.mu.Lock()
	client, err := s.display.Handle().InsertClient(conn, protocol.ClientTrust{})
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("insert client: %w", err)
	}
	s.clients[client.ID()] = client
	hooks := slices.Clone(s.onNewClient)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(client.ID())
	}
	return client, nil
}

// removeGlobal erases a global from the registry. Dispatch loop only; the
// marshalling layer does not tolerate registry mutation from other
// goroutines.
func (s *State) removeGlobal(id protocol.GlobalID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.display.Handle().RemoveGlobal(id)
	delete(s.globals, id)
}

// dispatch drives one round of client request dispatch and flushes
// outbound events, all inside one bounded critical section.
func (s *State) dispatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.display.Dispatch(); err != nil {
		return fmt.Errorf("dispatch clients: %w", err)
	}
	if err := s.display.Flush(); err != nil {
		return fmt.Errorf("flush clients: %w", err)
	}
	return nil
}

// flush writes pending outbound events without dispatching.
func (s *State) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.display.Flush(); err != nil {
		return fmt.Errorf("flush clients: %w", err)
	}
	return nil
}
