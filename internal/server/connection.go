package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gravitas-games/robotplanner/internal/ctxlog"
	"github.com/gravitas-games/robotplanner/internal/network"
	"github.com/gravitas-games/robotplanner/internal/planner"
	"github.com/gravitas-games/robotplanner/internal/render"
	"github.com/gravitas-games/robotplanner/pkg/astar"
	"github.com/gravitas-games/robotplanner/pkg/grid"
	"github.com/gravitas-games/robotplanner/pkg/models"
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

// Connection represents a WebSocket connection to a client
type Connection struct {
	ws     *websocket.Conn
	server *Server
	client *models.Client
	logger *slog.Logger

	// Buffered channel for outbound messages
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// NewConnection creates a new connection
func NewConnection(ws *websocket.Conn, server *Server, client *models.Client) *Connection {
	return &Connection{
		ws:     ws,
		server: server,
		client: client,
		logger: server.logger.With("user", client.Username, "remote", client.RemoteAddr),
		send:   make(chan []byte, 256),
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

	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection to the planner
func (c *Connection) readPump() {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket read error", "error", err)
			}
			return
		}

		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			c.logger.Debug("Failed to parse client message", "error", err)
			c.SendError(network.ErrCodeInvalidMessage, "Failed to parse message")
			continue
		}

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
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn("WebSocket write error", "error", err)
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.server.ctx.Done():
			return
		}
	}
}

// handleMessage routes messages to appropriate handlers
func (c *Connection) handleMessage(msg *network.ClientMessage) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case network.MsgTypeRoute:
		c.handleRoute(msg.Payload)

	case network.MsgTypeMaps:
		c.handleMaps()

	case network.MsgTypePing:
		c.handlePing()

	default:
		c.SendError(network.ErrCodeUnknownType, "Unknown message type: "+msg.Type)
	}
}

func (c *Connection) handleRoute(payload json.RawMessage) {
	var req network.RoutePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		c.SendError(network.ErrCodeInvalidMessage, "Invalid route payload")
		return
	}
	start, ok := toCell(req.Start)
	if !ok {
		c.SendError(network.ErrCodeInvalidRequest, "start must be an [x, y] pair")
		return
	}
	end, ok := toCell(req.End)
	if !ok {
		c.SendError(network.ErrCodeInvalidRequest, "end must be an [x, y] pair")
		return
	}

	ctx := ctxlog.WithLogger(c.server.ctx, c.logger)
	res, err := c.server.planner.Plan(ctx, planner.Request{Map: req.Map, Start: start, End: end})
	if err != nil {
		c.SendError(errorCode(err), planner.Message(err))
		return
	}

	result := network.RouteResultPayload{
		Map:        res.Map,
		Start:      fromCell(res.Start),
		End:        fromCell(res.End),
		Path:       make([][2]int, len(res.Path)),
		Directions: res.Directions,
		Steps:      res.Path.Steps(),
		Cached:     res.Cached,
	}
	for i, cell := range res.Path {
		result.Path[i] = fromCell(cell)
	}

	if req.Render {
		m, _ := c.server.planner.Maps().Get(res.Map)
		glyphs := c.server.config.Render.Glyphs()
		glyphs.Legend = false

		var sb strings.Builder
		if err := render.ASCII(&sb, m.Grid, res.Path, glyphs); err != nil {
			c.logger.Error("Failed to render route", "error", err)
			c.SendError(network.ErrCodeInternal, "Failed to render route")
			return
		}
		result.ASCII = sb.String()
	}

	c.SendMessage(&network.ServerMessage{Type: network.MsgTypeRouteResult, Payload: result})
}

func (c *Connection) handleMaps() {
	maps := c.server.planner.Maps()
	list := network.MapListPayload{Maps: []network.MapInfo{}}
	for _, name := range maps.Names() {
		m, _ := maps.Get(name)
		list.Maps = append(list.Maps, network.MapInfo{
			Name:   m.Name,
			Width:  m.Grid.Width(),
			Height: m.Grid.Height(),
		})
	}
	c.SendMessage(&network.ServerMessage{Type: network.MsgTypeMapList, Payload: list})
}

func (c *Connection) handlePing() {
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypePong,
		Payload: network.PongPayload{Timestamp: time.Now().Unix()},
	})
}

// errorCode maps planner errors onto protocol error codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, planner.ErrUnknownMap):
		return network.ErrCodeUnknownMap
	case errors.Is(err, astar.ErrNoPath):
		return network.ErrCodeNoPath
	case errors.Is(err, planner.ErrStartOutside), errors.Is(err, planner.ErrEndOutside),
		errors.Is(err, planner.ErrStartOnWall), errors.Is(err, planner.ErrEndOnWall):
		return network.ErrCodeInvalidRequest
	default:
		return network.ErrCodeInternal
	}
}

func toCell(xy []int) (grid.Cell, bool) {
	if len(xy) != 2 {
		return grid.Cell{}, false
	}
	return grid.Cell{X: xy[0], Y: xy[1]}, true
}

func fromCell(c grid.Cell) [2]int {
	return [2]int{c.X, c.Y}
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("Failed to marshal message", "type", msg.Type, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("Send buffer full, dropping message", "type", msg.Type)
	}
}

// SendError sends an error message to the client
func (c *Connection) SendError(code, message string) {
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeError,
		Payload: network.ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}

// Close closes the connection. It is safe to call more than once.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	c.ws.Close()
}
