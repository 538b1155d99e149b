package companion

import (
	"testing"
	"time"

	"tableflip.dev/tally/pkg/channel"
	"tableflip.dev/tally/pkg/wire"
)

type sentMsg struct {
	peerID  string
	topic   string
	payload []byte
}

type fakeChannel struct {
	peers    []string
	sendErr  error
	sent     []sentMsg
	handlers map[string]channel.Handler
}

func newFakeChannel(peers ...string) *fakeChannel {
	return &fakeChannel{peers: peers, handlers: make(map[string]channel.Handler)}
}

func (f *fakeChannel) SendToPeer(peerID, topic string, payload []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMsg{peerID: peerID, topic: topic, payload: payload})
	return nil
}

func (f *fakeChannel) ConnectedPeers() []string { return f.peers }

func (f *fakeChannel) Handle(topic string, h channel.Handler) { f.handlers[topic] = h }

func (f *fakeChannel) reply(t *testing.T, snap wire.Snapshot) {
	t.Helper()
	payload, err := wire.MarshalSnapshot(snap)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	f.handlers[wire.TopicSnapshot]("phone", payload)
}

// timerLog captures scheduled timeouts so tests fire them by hand.
type timerLog struct {
	fns []func()
}

func (tl *timerLog) after(_ time.Duration, f func()) { tl.fns = append(tl.fns, f) }

func (tl *timerLog) fire(i int) { tl.fns[i]() }

func newTestClient(ch channel.Channel) (*Client, *timerLog) {
	tl := &timerLog{}
	c := New(ch, WithScheduler(tl.after))
	c.Register()
	return c, tl
}

func TestRefreshWithNoPeersFailsImmediately(t *testing.T) {
	ch := newFakeChannel() // zero peers
	c, tl := newTestClient(ch)

	c.Refresh()

	v := c.View()
	if v.Status != StatusNotConnected || v.Loading {
		t.Fatalf("expected immediate not-connected, got %+v", v)
	}
	if len(tl.fns) != 0 {
		t.Fatal("a timeout was scheduled despite no send")
	}
}

func TestRefreshSyncCycle(t *testing.T) {
	ch := newFakeChannel("phone")
	c, _ := newTestClient(ch)

	c.Refresh()
	if v := c.View(); v.Status != StatusLoading || !v.Loading {
		t.Fatalf("expected loading after send, got %+v", v)
	}
	if len(ch.sent) != 1 || ch.sent[0].topic != wire.TopicRequestSnapshot {
		t.Fatalf("unexpected sends: %+v", ch.sent)
	}

	ch.reply(t, wire.Snapshot{LastResetAt: 9, Tasks: []wire.SnapshotTask{
		{ID: "a", Name: "A", Count: 1, Events: []int64{1000}},
	}})

	v := c.View()
	if v.Status != StatusSynced || v.Loading {
		t.Fatalf("expected synced, got %+v", v)
	}
	if len(v.Tasks) != 1 || v.Tasks[0].Name != "A" || v.LastResetAt != 9 {
		t.Fatalf("snapshot not applied: %+v", v)
	}
	if v.LastSynced.IsZero() {
		t.Fatal("lastSynced not stamped")
	}
}

func TestStaleTimeoutDoesNotAlterNewerRequest(t *testing.T) {
	ch := newFakeChannel("phone")
	c, tl := newTestClient(ch)

	c.Refresh() // request 1, schedules timer 0
	c.Refresh() // request 2, schedules timer 1
	ch.reply(t, wire.Snapshot{})

	tl.fire(0) // stale timer for request 1

	if v := c.View(); v.Status != StatusSynced {
		t.Fatalf("stale timeout altered state: %+v", v)
	}
}

func TestCurrentTimeoutTransitionsToNoResponse(t *testing.T) {
	ch := newFakeChannel("phone")
	c, tl := newTestClient(ch)

	c.Refresh()
	tl.fire(0)

	v := c.View()
	if v.Status != StatusNoResponse || v.Loading {
		t.Fatalf("expected no-response, got %+v", v)
	}
}

func TestTimeoutAfterReplyIsIgnored(t *testing.T) {
	ch := newFakeChannel("phone")
	c, tl := newTestClient(ch)

	c.Refresh()
	ch.reply(t, wire.Snapshot{})
	tl.fire(0)

	if v := c.View(); v.Status != StatusSynced {
		t.Fatalf("timeout after reply altered state: %+v", v)
	}
}

func TestParseFailureKeepsLastKnownGood(t *testing.T) {
	ch := newFakeChannel("phone")
	c, _ := newTestClient(ch)

	c.Refresh()
	ch.reply(t, wire.Snapshot{Tasks: []wire.SnapshotTask{{ID: "a", Name: "A"}}})

	c.Refresh()
	ch.handlers[wire.TopicSnapshot]("phone", []byte("{broken"))

	v := c.View()
	if v.Status != StatusSyncFailed || v.Loading {
		t.Fatalf("expected sync-failed, got %+v", v)
	}
	if len(v.Tasks) != 1 || v.Tasks[0].Name != "A" {
		t.Fatalf("last-known-good task list lost: %+v", v.Tasks)
	}
}

func TestLogTaskSetsPendingMarker(t *testing.T) {
	ch := newFakeChannel("phone")
	c, _ := newTestClient(ch)

	c.LogTask("a")

	v := c.View()
	if v.Marker.Phase != MarkerPending || v.Marker.TaskID != "a" || v.Marker.Timestamp <= 0 {
		t.Fatalf("marker not pending: %+v", v.Marker)
	}
	if !c.CanUndo("a") {
		t.Fatal("undo affordance not offered for the logged task")
	}
	if c.CanUndo("b") {
		t.Fatal("undo affordance offered for a different task")
	}

	req := wire.DecodeMutation(ch.sent[0].payload)
	if ch.sent[0].topic != wire.TopicLogTask || req.TaskID != "a" || req.Timestamp != v.Marker.Timestamp {
		t.Fatalf("log request mismatch: %+v %+v", ch.sent[0], req)
	}
}

func TestMarkerClearedWhenSnapshotConfirmsAbsence(t *testing.T) {
	ch := newFakeChannel("phone")
	c, _ := newTestClient(ch)

	c.LogTask("a")
	marker := c.View().Marker

	// Snapshot still contains the pair: marker stays pending.
	ch.reply(t, wire.Snapshot{Tasks: []wire.SnapshotTask{
		{ID: "a", Count: 1, Events: []int64{marker.Timestamp}},
	}})
	if v := c.View(); v.Marker.Phase != MarkerPending {
		t.Fatalf("marker cleared while event still present: %+v", v.Marker)
	}

	// Snapshot without the pair confirms it is gone.
	ch.reply(t, wire.Snapshot{Tasks: []wire.SnapshotTask{
		{ID: "a", Count: 0, Events: []int64{}},
	}})
	if v := c.View(); v.Marker.Phase != MarkerConfirmedGone {
		t.Fatalf("marker not cleared: %+v", v.Marker)
	}
	if c.CanUndo("a") {
		t.Fatal("undo affordance survived confirmation")
	}
}

func TestUndoLastSendsMarkerPair(t *testing.T) {
	ch := newFakeChannel("phone")
	c, _ := newTestClient(ch)

	c.LogTask("a")
	marker := c.View().Marker
	c.UndoLast()

	last := ch.sent[len(ch.sent)-1]
	req := wire.DecodeMutation(last.payload)
	if last.topic != wire.TopicUndoWatchLog || req.TaskID != "a" || req.Timestamp != marker.Timestamp {
		t.Fatalf("undo request mismatch: %+v %+v", last, req)
	}
}

func TestUndoLastWithoutPendingMarkerIsNoOp(t *testing.T) {
	ch := newFakeChannel("phone")
	c, _ := newTestClient(ch)

	c.UndoLast()

	if len(ch.sent) != 0 {
		t.Fatalf("undo without marker sent a request: %+v", ch.sent)
	}
}

func TestSendFailureReportsNotConnected(t *testing.T) {
	ch := newFakeChannel("phone")
	ch.sendErr = channel.ErrNotConnected
	c, tl := newTestClient(ch)

	c.Refresh()

	v := c.View()
	if v.Status != StatusNotConnected || v.Loading {
		t.Fatalf("expected not-connected after send failure, got %+v", v)
	}
	if len(tl.fns) != 0 {
		t.Fatal("a timeout was scheduled for a failed send")
	}
}

func TestRecentEventsCapped(t *testing.T) {
	events := make([]int64, 0, 15)
	for i := 15; i > 0; i-- {
		events = append(events, int64(i*100))
	}
	tk := wire.SnapshotTask{Events: events}

	recent := RecentEvents(tk, DisplayEventCap)
	if len(recent) != DisplayEventCap {
		t.Fatalf("expected %d events, got %d", DisplayEventCap, len(recent))
	}
	if recent[0] != 1500 {
		t.Fatalf("expected most recent first, got %v", recent[0])
	}
}
