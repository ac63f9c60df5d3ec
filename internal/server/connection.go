package server

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/zizul/sailboat/hex"
	"github.com/zizul/sailboat/internal/network"
	"github.com/zizul/sailboat/path"
	"github.com/zizul/sailboat/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection represents a WebSocket connection to a client. Each
// connection owns its own search coordinator, so one slow voyage never
// stalls another client's requests.
type Connection struct {
	// WebSocket connection
	ws *websocket.Conn

	// Server reference
	server *Server

	// Client information (validated on upgrade)
	client *models.Client

	// This connection's search coordinator
	coordinator *path.Coordinator

	// Buffered channel for outbound messages
	send chan []byte

	sendMu sync.Mutex
	closed bool
}

// NewConnection creates a new connection
func NewConnection(ws *websocket.Conn, server *Server, client *models.Client) *Connection {
	return &Connection{
		ws:          ws,
		server:      server,
		client:      client,
		coordinator: path.NewCoordinator(server.newStrategy(), server.Index()),
		send:        make(chan []byte, 256),
	}
}

// Handle manages the connection lifecycle
func (c *Connection) Handle() {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.sendMessage(network.MsgTypeWelcome, network.WelcomePayload{
		ClientID:  c.client.ID,
		Username:  c.client.Username,
		ChartName: c.server.ChartName(),
		TileCount: c.server.Index().Len(),
	})

	// Start read and write pumps
	go c.writePump()
	c.readPump() // Blocking
}

// Close tears the connection down, cancelling any in-flight search.
// Idempotent.
func (c *Connection) Close() {
	c.sendMu.Lock()
	if c.closed {
		c.sendMu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.sendMu.Unlock()

	c.coordinator.Close()
	c.server.unregister(c)
	c.ws.Close()
	log.Printf("Client %s disconnected", c.client.Username)
}

// readPump pumps messages from the WebSocket connection to the server
func (c *Connection) readPump() {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			log.Printf("Failed to parse client message: %v", err)
			c.SendError("invalid_message", "Failed to parse message")
			continue
		}

		c.client.Touch()
		c.handleMessage(&clientMsg)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.server.ctx.Done():
			// Server shutting down
			return
		}
	}
}

// handleMessage routes messages to appropriate handlers
func (c *Connection) handleMessage(msg *network.ClientMessage) {
	switch msg.Type {
	case network.MsgTypeFindPath:
		var payload network.FindPathPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.SendError("invalid_payload", "Failed to parse find_path payload")
			return
		}
		c.handleFindPath(&payload)

	case network.MsgTypeCancelPath:
		c.coordinator.CancelCurrent()

	case network.MsgTypePing:
		c.sendMessage(network.MsgTypePong, nil)

	default:
		log.Printf("Unknown message type from %s: %s", c.client.Username, msg.Type)
		c.SendError("unknown_type", "Unknown message type: "+msg.Type)
	}
}

// handleFindPath issues the search and delivers the result when it
// resolves. The coordinator supersedes any voyage still in flight.
func (c *Connection) handleFindPath(payload *network.FindPathPayload) {
	voyage := &models.Voyage{
		ID:        uuid.NewString(),
		RequestID: payload.RequestID,
		StartQ:    payload.Start.Q,
		StartR:    payload.Start.R,
		GoalQ:     payload.Goal.Q,
		GoalR:     payload.Goal.R,
		StartedAt: time.Now(),
	}

	start := hex.Axial{Q: payload.Start.Q, R: payload.Start.R}
	goal := hex.Axial{Q: payload.Goal.Q, R: payload.Goal.R}
	results := c.coordinator.FindPathAsync(c.server.ctx, start, goal)

	go func() {
		res := <-results
		voyage.EndedAt = time.Now()
		voyage.Status = voyageStatus(res)
		voyage.Steps = res.Path.Steps()
		c.sendPathResult(voyage, res.Path)
	}()
}

func voyageStatus(res path.Result) string {
	switch {
	case errors.Is(res.Err, path.ErrStartBlocked):
		return network.StatusUnreachableStart
	case errors.Is(res.Err, path.ErrGoalBlocked):
		return network.StatusUnreachableGoal
	case res.Err != nil:
		return network.StatusFailed
	case res.Path == nil:
		return network.StatusNoPath
	default:
		return network.StatusFound
	}
}

func (c *Connection) sendPathResult(voyage *models.Voyage, p path.Path) {
	payload := network.PathResultPayload{
		RequestID: voyage.RequestID,
		VoyageID:  voyage.ID,
		Status:    voyage.Status,
		Steps:     voyage.Steps,
	}
	if voyage.Status == network.StatusFound {
		payload.Path = make([]network.Coord, len(p))
		for i, coord := range p {
			payload.Path[i] = network.Coord{Q: coord.Q, R: coord.R}
		}
	}
	c.sendMessage(network.MsgTypePathResult, payload)
}

// SendError sends an error message to the client
func (c *Connection) SendError(code, message string) {
	c.sendMessage(network.MsgTypeError, network.ErrorPayload{
		Code:    code,
		Message: message,
	})
}

// sendMessage marshals and queues a message for delivery. Messages to a
// closed or saturated connection are dropped.
func (c *Connection) sendMessage(msgType string, payload interface{}) {
	data, err := json.Marshal(network.ServerMessage{
		Type:    msgType,
		Payload: payload,
	})
	if err != nil {
		log.Printf("Failed to marshal %s message: %v", msgType, err)
		return
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("Send buffer full for %s, dropping %s", c.client.Username, msgType)
	}
}
