package wayland

import (
	"io"
	"net"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/veilwm/veil/internal/host"
	"github.com/veilwm/veil/internal/protocol"
)

func quietLogger() *log.Logger {
	l := log.New(io.Discard)
	l.SetLevel(log.FatalLevel)
	return l
}

func newTestState(t *testing.T) (*State, *protocol.Loopback) {
	t.Helper()
	display, err := protocol.NewLoopback()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = display.Close() })
	return newState(display, host.Output{Name: "test-0"}), display
}

func TestStateInsertClientNotifiesExactlyOnce(t *testing.T) {
	s, _ := newTestState(t)

	var first, second []protocol.ClientID
	s.OnNewClient(func(id protocol.ClientID) { first = append(first, id) })
	s.OnNewClient(func(id protocol.ClientID) { second = append(second, id) })

	const accepts = 3
	for i := 0; i < accepts; i++ {
		server, client := net.Pipe()
		defer client.Close()
		defer server.Close()

		c, err := s.insertClient(server)
		if err != nil {
			t.Fatalf("insertClient error: %v", err)
		}
		if c == nil {
			t.Fatal("insertClient returned nil client")
		}
	}

	if len(first) != accepts || len(second) != accepts {
		t.Fatalf("hooks fired %d/%d times, want %d each", len(first), len(second), accepts)
	}
	seen := make(map[protocol.ClientID]bool)
	for _, id := range first {
		if seen[id] {
			t.Errorf("client %d notified twice", id)
		}
		seen[id] = true
	}
	if got := len(s.Clients()); got != accepts {
		t.Errorf("Clients() has %d entries, want %d", got, accepts)
	}
}

func TestStateRemoveClient(t *testing.T) {
	s, _ := newTestState(t)

	server, client := net.Pipe()
	defer client.Close()
	defer server.Close()

	c, err := s.insertClient(server)
	if err != nil {
		t.Fatalf("insertClient error: %v", err)
	}
	if got := len(s.Clients()); got != 1 {
		t.Fatalf("Clients() has %d entries, want 1", got)
	}

	s.RemoveClient(c.ID())
	if got := len(s.Clients()); got != 0 {
		t.Errorf("Clients() has %d entries after removal, want 0", got)
	}
	// Removing an already-gone client is a no-op.
	s.RemoveClient(c.ID())
}

func TestStateGlobalLifecycle(t *testing.T) {
	s, display := newTestState(t)

	s.AnnounceGlobal(7, "wl_compositor", 6)
	s.AnnounceGlobal(9, "xdg_wm_base", 5)

	globals := s.Globals()
	if len(globals) != 2 {
		t.Fatalf("Globals() has %d entries, want 2", len(globals))
	}
	if globals[7].Interface != "wl_compositor" {
		t.Errorf("global 7 interface = %q", globals[7].Interface)
	}

	s.removeGlobal(7)

	if _, ok := s.Globals()[7]; ok {
		t.Error("global 7 still announced after removal")
	}
	removed := display.RemovedGlobals()
	if len(removed) != 1 || removed[0] != 7 {
		t.Errorf("display removals = %v, want [7]", removed)
	}
}

func TestStateOutput(t *testing.T) {
	s, _ := newTestState(t)

	if got := s.Output().Name; got != "test-0" {
		t.Errorf("initial output = %q", got)
	}

	s.SetOutput(host.Output{Name: "hmd", Width: 2880, Height: 1700, Refresh: 90000, Scale: 1})
	out := s.Output()
	if out.Name != "hmd" || out.Width != 2880 {
		t.Errorf("output after SetOutput = %+v", out)
	}
}
