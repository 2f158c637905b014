package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/seiwa-edu/tagging-services/internal/comm"
)

type Ws struct {
	connMap   sync.Map // to keep track of socket connection with socketId
	filterMap sync.Map // to keep track of a device filter with socketId
}

func NewWs() *Ws {
	return &Ws{}
}

// handle socket message from dashboard clients
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case "watch":
		s.handleWatch(socketId, message)
	case "ping":

	default:
		log.Warnf("unknown event received: %s", message.Type)
	}
}

// handleWatch pins a client to a single device feed. An empty device_id
// resets the client to the full feed.
func (s *Ws) handleWatch(socketId string, msg *comm.WSMessage) {

	var payload struct {
		DeviceId string `json:"device_id"`
	}

	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Errorf("Error: invalid_watch_data Malformed watch payload %s", err)
		return
	}

	if payload.DeviceId == "" {
		s.filterMap.Delete(socketId)
		log.Infof("socket %s watching all devices", socketId)
		return
	}

	s.filterMap.Store(socketId, payload.DeviceId)
	log.Infof("socket %s watching device %s", socketId, payload.DeviceId)
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, conn)
}

func (s *Ws) GetConnection(socketId string) (*websocket.Conn, bool) {
	conn, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return conn.(*websocket.Conn), true
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
	s.filterMap.Delete(socketId)
}

// GetSockets returns the socket ids that should receive an event from
// the given device. Clients with no filter receive everything, and an
// empty device id addresses every client.
func (s *Ws) GetSockets(deviceId string) []string {
	var sockets []string

	s.connMap.Range(func(key, value interface{}) bool {
		socketId := key.(string)
		filter, ok := s.filterMap.Load(socketId)
		if deviceId == "" || !ok || filter.(string) == deviceId {
			sockets = append(sockets, socketId)
		}
		return true // continue iterating
	})

	return sockets
}
