package loopback

import (
	"errors"
	"testing"

	"tableflip.dev/tally/pkg/channel"
)

func TestPairDelivers(t *testing.T) {
	a, b := Pair("phone", "watch")

	var gotPeer string
	var gotPayload []byte
	b.Handle("snapshot", func(peerID string, payload []byte) {
		gotPeer = peerID
		gotPayload = payload
	})

	if err := a.SendToPeer("watch", "snapshot", []byte("hello")); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotPeer != "phone" || string(gotPayload) != "hello" {
		t.Fatalf("unexpected delivery: peer=%q payload=%q", gotPeer, gotPayload)
	}
}

func TestPayloadIsCopied(t *testing.T) {
	a, b := Pair("phone", "watch")

	var got []byte
	b.Handle("snapshot", func(_ string, payload []byte) { got = payload })

	src := []byte("abc")
	if err := a.SendToPeer("watch", "snapshot", src); err != nil {
		t.Fatalf("send: %v", err)
	}
	src[0] = 'z'
	if string(got) != "abc" {
		t.Fatalf("payload aliased sender's buffer: %q", got)
	}
}

func TestUnknownPeerRejected(t *testing.T) {
	a, _ := Pair("phone", "watch")
	if err := a.SendToPeer("stranger", "snapshot", nil); !errors.Is(err, channel.ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestDisconnectGatesSendsAndPeers(t *testing.T) {
	a, _ := Pair("phone", "watch")

	if peers := a.ConnectedPeers(); len(peers) != 1 || peers[0] != "watch" {
		t.Fatalf("expected [watch], got %v", peers)
	}

	a.SetConnected(false)
	if peers := a.ConnectedPeers(); len(peers) != 0 {
		t.Fatalf("expected no peers while disconnected, got %v", peers)
	}
	if err := a.SendToPeer("watch", "snapshot", nil); !errors.Is(err, channel.ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}

	a.SetConnected(true)
	if err := a.SendToPeer("watch", "snapshot", nil); err != nil {
		t.Fatalf("send after reconnect: %v", err)
	}
}

func TestMissingHandlerDropsMessage(t *testing.T) {
	a, _ := Pair("phone", "watch")
	if err := a.SendToPeer("watch", "nobody-listens", []byte("x")); err != nil {
		t.Fatalf("send without handler should not error: %v", err)
	}
}
