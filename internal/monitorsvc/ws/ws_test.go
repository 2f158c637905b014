package ws

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/seiwa-edu/tagging-services/internal/comm"
)

func watchMessage(t *testing.T, deviceId string) *comm.WSMessage {
	t.Helper()

	data, err := json.Marshal(map[string]string{"device_id": deviceId})
	if err != nil {
		t.Fatal(err)
	}
	return &comm.WSMessage{Type: "watch", Data: data}
}

func TestGetSocketsDeviceFilter(t *testing.T) {
	s := NewWs()

	// connections are tracked by id only; a nil *websocket.Conn is fine
	// for routing tests
	s.StoreConnection("sock-all", nil)
	s.StoreConnection("sock-entrance", nil)
	s.StoreConnection("sock-gym", nil)

	s.SocketMessage("sock-entrance", watchMessage(t, "dev-entrance-01"))
	s.SocketMessage("sock-gym", watchMessage(t, "dev-gym-01"))

	got := s.GetSockets("dev-entrance-01")
	sort.Strings(got)
	want := []string{"sock-all", "sock-entrance"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("GetSockets(dev-entrance-01) = %v, want %v", got, want)
	}

	// an empty device id addresses everyone
	if got := s.GetSockets(""); len(got) != 3 {
		t.Errorf("GetSockets(\"\") returned %d sockets, want 3", len(got))
	}
}

func TestWatchResetClearsFilter(t *testing.T) {
	s := NewWs()
	s.StoreConnection("sock-1", nil)

	s.SocketMessage("sock-1", watchMessage(t, "dev-gym-01"))
	if got := s.GetSockets("dev-entrance-01"); len(got) != 0 {
		t.Fatalf("filtered socket still receives other devices: %v", got)
	}

	s.SocketMessage("sock-1", watchMessage(t, ""))
	if got := s.GetSockets("dev-entrance-01"); len(got) != 1 {
		t.Errorf("reset socket does not receive events: %v", got)
	}
}

func TestDisconnectRemovesSocket(t *testing.T) {
	s := NewWs()
	s.StoreConnection("sock-1", nil)
	s.SocketMessage("sock-1", watchMessage(t, "dev-gym-01"))

	s.HandleDisconnect("sock-1")

	if _, ok := s.GetConnection("sock-1"); ok {
		t.Error("connection still present after disconnect")
	}
	if got := s.GetSockets("dev-gym-01"); len(got) != 0 {
		t.Errorf("disconnected socket still routed: %v", got)
	}
}
