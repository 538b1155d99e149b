// Package channel abstracts the device-to-device messaging layer: byte
// payloads pushed to a named peer by topic, with arriving messages raised to
// registered handlers. Delivery is at-most-once and fire-and-forget.
package channel

import "errors"

// ErrNotConnected is returned by SendToPeer when the named peer is not
// reachable.
var ErrNotConnected = errors.New("channel: peer not connected")

// Handler receives an inbound message for a topic.
type Handler func(peerID string, payload []byte)

// Channel is the messaging collaborator consumed by the sync handler and
// the companion client.
type Channel interface {
	// SendToPeer pushes payload to the named peer under the topic. It may
	// fail when the peer is unreachable; there is no retry.
	SendToPeer(peerID, topic string, payload []byte) error

	// ConnectedPeers lists the ids of currently reachable peers.
	ConnectedPeers() []string

	// Handle registers the handler for a topic, replacing any previous one.
	Handle(topic string, h Handler)
}
