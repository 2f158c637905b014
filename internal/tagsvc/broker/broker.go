package broker

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/seiwa-edu/tagging-services/internal/comm"
)

const topic = "tagging.events"

// Broker publishes engine events for the monitor service and carries
// notification actions out over NATS. It satisfies both the dispatcher's
// EventPublisher and the executor's Notifier seams.
type Broker struct {
	Conn *nats.Conn
}

func NewBroker(nc *nats.Conn) *Broker {
	return &Broker{Conn: nc}
}

func (b *Broker) PublishTagEvent(ev comm.TagEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Errorf("error [PublishTagEvent] unable to marshal event for uid %s: %v", ev.UID, err)
		return
	}

	msg := &comm.WSMessage{
		Type: "tag-event",
		Data: data,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	b.Publish(topic, payload)
}

// Notify carries a notification action out to the delivery gateway.
func (b *Broker) Notify(userID, message string) error {
	n := comm.NotifyMessage{
		UserID:    userID,
		Message:   message,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(n)
	if err != nil {
		log.Errorf("error [Notify] unable to marshal notification for %s: %v", userID, err)
		return err
	}

	msg := &comm.WSMessage{
		Type: "notify",
		Data: data,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error %s", err)
		return err
	}

	return b.Publish(topic, payload)
}

// PublishHeartbeat announces this instance on the event topic so the
// monitor service can surface engine liveness.
func (b *Broker) PublishHeartbeat(instanceId string) error {
	hb := comm.ServiceHeartbeat{
		ID:        instanceId,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(hb)
	if err != nil {
		log.Errorf("error [PublishHeartbeat] unable to marshal heartbeat: %v", err)
		return err
	}

	msg := &comm.WSMessage{
		Type: "heartbeat",
		Data: data,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error %s", err)
		return err
	}

	return b.Publish(topic, payload)
}

func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}
