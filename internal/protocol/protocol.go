// Package protocol is the boundary to the Wayland wire-marshalling library.
// Framing, request decoding, and event encoding are that library's job; veil
// drives it (dispatch, flush, client insertion, global removal) but never
// touches the wire format itself.
package protocol

import "net"

// GlobalID names a protocol capability published to all current and future
// clients. IDs are minted by the marshalling layer when a global is created
// and stay opaque to veil.
type GlobalID uint32

// ClientID identifies one accepted client connection. Collaborator
// subsystems key their per-client state by this identity.
type ClientID uint64

// ClientTrust is the opaque trust marker attached to a connection at accept
// time. Veil attaches no payload; it exists so the marshalling layer has a
// place to hang per-connection security state.
type ClientTrust struct{}

// Client is one connected protocol client as seen by the marshalling layer.
type Client interface {
	ID() ClientID
}

// Handle mutates the display's object registry. Global removal must only
// happen from the goroutine driving Dispatch; the marshalling layer is not
// safe against registry mutation from anywhere else.
type Handle interface {
	// InsertClient registers an accepted transport connection as a protocol
	// client and returns its identity.
	InsertClient(conn net.Conn, trust ClientTrust) (Client, error)
	// RemoveGlobal erases a published global from the registry.
	RemoveGlobal(id GlobalID)
}

// Display is the protocol engine for one running server.
type Display interface {
	Handle() Handle
	// OnClientGone registers the callback invoked when a client's
	// transport disconnects. Register before inserting clients; the
	// callback may fire from the marshalling layer's own goroutines and
	// must not block.
	OnClientGone(fn func(ClientID))
	// PollFD returns the descriptor that becomes readable when client
	// requests are pending dispatch.
	PollFD() int
	// Dispatch decodes and runs one round of pending client requests.
	Dispatch() error
	// Flush writes pending outbound events to all clients.
	Flush() error
	Close() error
}
