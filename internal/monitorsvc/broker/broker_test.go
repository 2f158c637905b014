package broker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"

	"github.com/seiwa-edu/tagging-services/internal/comm"
)

// routedBroker records which sockets a message is routed to. Lookups
// report no live connection, so nothing is actually written.
func routedBroker() (*Broker, *[]string) {
	var routed []string

	getConnection := func(socketId string) (*websocket.Conn, bool) {
		routed = append(routed, socketId)
		return nil, false
	}
	getSockets := func(deviceId string) []string {
		switch deviceId {
		case "":
			return []string{"sock-all", "sock-entrance", "sock-gym"}
		case "dev-entrance-01":
			return []string{"sock-all", "sock-entrance"}
		default:
			return []string{"sock-all"}
		}
	}

	return NewBroker(nil, getConnection, getSockets), &routed
}

func envelope(t *testing.T, msgType string, payload interface{}) *nats.Msg {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := json.Marshal(&comm.WSMessage{Type: msgType, Data: data})
	if err != nil {
		t.Fatal(err)
	}
	return &nats.Msg{Data: raw}
}

func TestTagEventRoutedToWatchingSockets(t *testing.T) {
	b, routed := routedBroker()

	b.handleMessages(envelope(t, "tag-event", comm.TagEvent{
		UID:      "FE-0012AB34",
		DeviceID: "dev-entrance-01",
	}))

	if len(*routed) != 2 || (*routed)[0] != "sock-all" || (*routed)[1] != "sock-entrance" {
		t.Errorf("routed = %v, want [sock-all sock-entrance]", *routed)
	}
}

func TestHeartbeatBroadcastToAllSockets(t *testing.T) {
	b, routed := routedBroker()

	b.handleMessages(envelope(t, "heartbeat", comm.ServiceHeartbeat{
		ID:        "instance-1",
		Timestamp: time.Now(),
	}))

	if len(*routed) != 3 {
		t.Errorf("heartbeat routed to %d sockets, want all 3: %v", len(*routed), *routed)
	}
}

func TestNotifyBroadcastToAllSockets(t *testing.T) {
	b, routed := routedBroker()

	b.handleMessages(envelope(t, "notify", comm.NotifyMessage{
		UserID:  "student_001",
		Message: "checked in",
	}))

	if len(*routed) != 3 {
		t.Errorf("notify routed to %d sockets, want all 3: %v", len(*routed), *routed)
	}
}

func TestUnknownMessageTypeIgnored(t *testing.T) {
	b, routed := routedBroker()

	b.handleMessages(envelope(t, "teleport", map[string]string{}))

	if len(*routed) != 0 {
		t.Errorf("unknown message was routed: %v", *routed)
	}
}
