package stream

import "testing"

type fakeConn struct {
	received []event
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.received = append(c.received, v.(event))
	return nil
}

func TestHubBroadcastFiltersByScheme(t *testing.T) {
	hub := NewHub()
	all := &fakeConn{}
	mf1 := &fakeConn{}
	hub.Register(all, "")
	hub.Register(mf1, "MF001")

	hub.Broadcast("MF002", event{Type: "nav_update"})
	if len(all.received) != 1 {
		t.Fatalf("unfiltered conn got %d events, want 1", len(all.received))
	}
	if len(mf1.received) != 0 {
		t.Fatalf("MF001 subscriber got event for MF002")
	}

	hub.Broadcast("MF001", event{Type: "anomaly"})
	if len(mf1.received) != 1 || mf1.received[0].Type != "anomaly" {
		t.Fatalf("MF001 subscriber events %+v, want its anomaly", mf1.received)
	}
}

func TestHubBroadcastSchemelessEventsReachEveryone(t *testing.T) {
	hub := NewHub()
	mf1 := &fakeConn{}
	hub.Register(mf1, "MF001")

	hub.Broadcast("", event{Type: "market_summary"})
	if len(mf1.received) != 1 {
		t.Fatalf("filtered subscriber missed market summary")
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.Register(conn, "")
	if hub.Count() != 1 {
		t.Fatalf("count %d, want 1", hub.Count())
	}

	hub.Unregister(conn)
	if hub.Count() != 0 {
		t.Fatalf("count %d after unregister, want 0", hub.Count())
	}
	hub.Broadcast("MF001", event{Type: "nav_update"})
	if len(conn.received) != 0 {
		t.Fatalf("unregistered conn still received events")
	}
}
