package network

import "encoding/json"

// Message types - Client → Server
const (
	MsgTypeRoute = "route"
	MsgTypeMaps  = "maps"
	MsgTypePing  = "ping"
)

// Message types - Server → Client
const (
	MsgTypeRouteResult = "route_result"
	MsgTypeMapList     = "map_list"
	MsgTypeError       = "error"
	MsgTypePong        = "pong"
)

// Error codes carried by ErrorPayload
const (
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeUnknownType    = "unknown_message_type"
	ErrCodeUnknownMap     = "unknown_map"
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeNoPath         = "no_path"
	ErrCodeInternal       = "internal_error"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Client Message Payloads ---

// RoutePayload asks for a route between two cells of a named map.
// Coordinates are [x, y] pairs.
type RoutePayload struct {
	Map    string `json:"map"`
	Start  []int  `json:"start"`
	End    []int  `json:"end"`
	Render bool   `json:"render"`
}

// --- Server Message Payloads ---

// RouteResultPayload is the answer to a route request
type RouteResultPayload struct {
	Map        string   `json:"map"`
	Start      [2]int   `json:"start"`
	End        [2]int   `json:"end"`
	Path       [][2]int `json:"path"`
	Directions string   `json:"directions"`
	Steps      int      `json:"steps"`
	Cached     bool     `json:"cached"`
	ASCII      string   `json:"ascii,omitempty"`
}

// MapInfo describes one loaded map
type MapInfo struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MapListPayload lists the maps a client can route on
type MapListPayload struct {
	Maps []MapInfo `json:"maps"`
}

// PongPayload answers a ping
type PongPayload struct {
	Timestamp int64 `json:"timestamp"` // Unix timestamp
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
