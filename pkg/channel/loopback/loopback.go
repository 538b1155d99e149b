// Package loopback provides an in-process channel pair for tests and the
// single-machine demo: whatever one end sends, the other end's handlers
// receive.
package loopback

import (
	"sync"

	"tableflip.dev/tally/pkg/channel"
)

// End is one side of a loopback pair.
type End struct {
	id   string
	peer *End

	mu        sync.Mutex
	handlers  map[string]channel.Handler
	connected bool
}

// Pair returns two connected ends with the given peer ids.
func Pair(aID, bID string) (*End, *End) {
	a := &End{id: aID, handlers: make(map[string]channel.Handler), connected: true}
	b := &End{id: bID, handlers: make(map[string]channel.Handler), connected: true}
	a.peer = b
	b.peer = a
	return a, b
}

// SetConnected toggles reachability of this end's peer, simulating the
// wrist device drifting out of range.
func (e *End) SetConnected(connected bool) {
	e.mu.Lock()
	e.connected = connected
	e.mu.Unlock()
}

func (e *End) SendToPeer(peerID, topic string, payload []byte) error {
	e.mu.Lock()
	connected := e.connected
	e.mu.Unlock()
	if !connected || e.peer == nil || e.peer.id != peerID {
		return channel.ErrNotConnected
	}
	e.peer.deliver(e.id, topic, payload)
	return nil
}

func (e *End) ConnectedPeers() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.connected || e.peer == nil {
		return nil
	}
	return []string{e.peer.id}
}

func (e *End) Handle(topic string, h channel.Handler) {
	e.mu.Lock()
	e.handlers[topic] = h
	e.mu.Unlock()
}

// deliver invokes the registered handler synchronously in the sender's
// goroutine; messages without a handler are dropped.
func (e *End) deliver(fromID, topic string, payload []byte) {
	e.mu.Lock()
	h := e.handlers[topic]
	e.mu.Unlock()
	if h == nil {
		return
	}
	cp := append([]byte{}, payload...)
	h(fromID, cp)
}
