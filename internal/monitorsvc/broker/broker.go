package broker

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/seiwa-edu/tagging-services/internal/comm"
)

type Broker struct {
	Conn          *nats.Conn
	GetConnection func(string) (*websocket.Conn, bool)
	GetSockets    func(string) []string
}

func NewBroker(conn *nats.Conn, fncGetConnection func(string) (*websocket.Conn, bool), fncGetSockets func(string) []string) *Broker {
	return &Broker{
		Conn:          conn,
		GetConnection: fncGetConnection,
		GetSockets:    fncGetSockets,
	}
}

// consume events from the tagging service
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}

// handleMessages receives events from the tagging service
func (b *Broker) handleMessages(msgNats *nats.Msg) {
	message := &comm.WSMessage{}
	err := json.Unmarshal(msgNats.Data, &message)
	if err != nil {
		log.Errorf("Error %s", err)
	}

	switch message.Type {
	case "tag-event":
		b.fanOutTagEvent(message)
	case "notify", "heartbeat":
		b.broadcast(message)
	default:
		log.Error("Unknown message")
		return
	}
}

// fanOutTagEvent routes a tag event to the dashboard clients watching
// its device.
func (b *Broker) fanOutTagEvent(m *comm.WSMessage) {
	ev := &comm.TagEvent{}
	if err := json.Unmarshal(m.Data, ev); err != nil {
		log.Errorf("Error %s", err)
		return
	}

	for _, socketId := range b.GetSockets(ev.DeviceID) {
		b.sendMessage(socketId, m)
	}
}

// broadcast sends a message to every connected dashboard client.
func (b *Broker) broadcast(m *comm.WSMessage) {
	for _, socketId := range b.GetSockets("") {
		b.sendMessage(socketId, m)
	}
}

// send socket message to the dashboard client
func (b *Broker) sendMessage(socketId string, m *comm.WSMessage) {
	if conn, ok := b.GetConnection(socketId); ok {
		if err := conn.WriteJSON(m); err != nil {
			log.Println(err)
		}
	}
}
