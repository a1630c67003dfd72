package handler

import (
	"context"
	"strconv"
	"sync"
	"ticket_manager/database"
	"ticket_manager/helper"

	"github.com/gofiber/contrib/websocket"
)

var (
	wsClients = make(map[uint]map[*websocket.Conn]bool)
	wsMu      sync.Mutex
)

// AvailabilityWebsocket streams per-event ticket availability. Each client
// gets the current snapshot on connect, then live updates relayed from redis.
func AvailabilityWebsocket(c *websocket.Conn) {
	id64, _ := strconv.ParseUint(c.Params("id"), 10, 64)
	eventID := uint(id64)

	defer func() {
		wsMu.Lock()
		if wsClients[eventID] != nil {
			delete(wsClients[eventID], c)
		}
		wsMu.Unlock()
		c.Close()
	}()

	wsMu.Lock()
	if wsClients[eventID] == nil {
		wsClients[eventID] = make(map[*websocket.Conn]bool)
	}
	wsClients[eventID][c] = true
	wsMu.Unlock()

	if snapshot, err := helper.AvailabilitySnapshot(eventID); err == nil {
		c.WriteJSON(snapshot)
	}

	if database.Redis == nil {
		// No broker configured, nothing further to relay.
		return
	}

	pubsub := database.Redis.Subscribe(context.Background(), helper.EventChannel(eventID))
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		payload := []byte(msg.Payload)

		wsMu.Lock()
		for conn := range wsClients[eventID] {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				conn.Close()
				delete(wsClients[eventID], conn)
			}
		}
		wsMu.Unlock()
	}
}
