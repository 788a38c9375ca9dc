package websocket

import (
	"encoding/json"

	"morning-pulse-be/internal/constant"
	"morning-pulse-be/internal/dto"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the connection, greets it and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn) {
	client := &Client{Hub: hub, Conn: c, ID: uuid.New(), Send: make(chan []byte, 256)}
	hub.register <- client

	hello, _ := json.Marshal(dto.FeedMessage{Kind: constant.FeedKindHello})
	client.Send <- hello

	go client.writePump()
	client.readPump()
}
