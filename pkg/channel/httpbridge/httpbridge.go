// Package httpbridge carries channel messages between two tally processes
// over HTTP: each process posts payloads to the other's /channel/{topic}
// endpoint and probes reachability with /channel/ping.
package httpbridge

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"tableflip.dev/tally/pkg/channel"
)

const maxPayload = 1 << 20 // 1MB

// Bridge implements channel.Channel over HTTP. Peers is a static map of
// peer id to base URL; connectedness is probed per call, mirroring the
// intermittent reachability of a paired device.
type Bridge struct {
	selfID string
	client *http.Client

	mu       sync.Mutex
	peers    map[string]string
	handlers map[string]channel.Handler
}

// New returns a bridge identifying itself as selfID to its peers.
func New(selfID string, peers map[string]string) *Bridge {
	cp := make(map[string]string, len(peers))
	for id, base := range peers {
		cp[id] = base
	}
	return &Bridge{
		selfID:   selfID,
		client:   &http.Client{Timeout: 5 * time.Second},
		peers:    cp,
		handlers: make(map[string]channel.Handler),
	}
}

// Router returns the HTTP routes this end serves.
func (b *Bridge) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/channel/ping", b.handlePing).Methods(http.MethodGet)
	r.HandleFunc("/channel/{topic}", b.handleMessage).Methods(http.MethodPost)
	return r
}

func (b *Bridge) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (b *Bridge) handleMessage(w http.ResponseWriter, r *http.Request) {
	topic := mux.Vars(r)["topic"]
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayload))
	if err != nil {
		http.Error(w, "read payload", http.StatusBadRequest)
		return
	}
	peerID := r.Header.Get("X-Tally-Peer")

	b.mu.Lock()
	h := b.handlers[topic]
	b.mu.Unlock()

	if h != nil {
		h(peerID, payload)
	}
	w.WriteHeader(http.StatusAccepted)
}

func (b *Bridge) SendToPeer(peerID, topic string, payload []byte) error {
	b.mu.Lock()
	base, ok := b.peers[peerID]
	b.mu.Unlock()
	if !ok {
		return channel.ErrNotConnected
	}

	req, err := http.NewRequest(http.MethodPost, base+"/channel/"+topic, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("httpbridge: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tally-Peer", b.selfID)

	resp, err := b.client.Do(req)
	if err != nil {
		return channel.ErrNotConnected
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("httpbridge: peer %s rejected %s: %s", peerID, topic, resp.Status)
	}
	return nil
}

// ConnectedPeers pings each configured peer and lists those that answer.
func (b *Bridge) ConnectedPeers() []string {
	b.mu.Lock()
	peers := make(map[string]string, len(b.peers))
	for id, base := range b.peers {
		peers[id] = base
	}
	b.mu.Unlock()

	var connected []string
	for id, base := range peers {
		resp, err := b.client.Get(base + "/channel/ping")
		if err != nil {
			continue
		}
		_ = resp.Body.Close()
		if resp.StatusCode < http.StatusBadRequest {
			connected = append(connected, id)
		}
	}
	return connected
}

func (b *Bridge) Handle(topic string, h channel.Handler) {
	b.mu.Lock()
	b.handlers[topic] = h
	b.mu.Unlock()
}
