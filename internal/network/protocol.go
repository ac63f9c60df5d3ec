package network

import "encoding/json"

// Message types - Client → Server
const (
	MsgTypeFindPath   = "find_path"
	MsgTypeCancelPath = "cancel_path"
	MsgTypePing       = "ping"
)

// Message types - Server → Client
const (
	MsgTypeWelcome    = "welcome"
	MsgTypePathResult = "path_result"
	MsgTypeError      = "error"
	MsgTypePong       = "pong"
)

// Voyage statuses reported in path results
const (
	StatusFound            = "found"
	StatusNoPath           = "no_path"
	StatusUnreachableStart = "unreachable_start"
	StatusUnreachableGoal  = "unreachable_goal"
	StatusFailed           = "failed"
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

// Coord is an axial coordinate on the wire
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// --- Client Message Payloads ---

// FindPathPayload asks the server to route a boat between two cells.
// RequestID is echoed back so the client can match results to requests.
type FindPathPayload struct {
	RequestID string `json:"request_id"`
	Start     Coord  `json:"start"`
	Goal      Coord  `json:"goal"`
}

// CancelPathPayload cancels the in-flight search, if any
type CancelPathPayload struct {
	RequestID string `json:"request_id,omitempty"`
}

// --- Server Message Payloads ---

// WelcomePayload is sent to client after successful connection
type WelcomePayload struct {
	ClientID  string `json:"client_id"`
	Username  string `json:"username"`
	ChartName string `json:"chart_name"`
	TileCount int    `json:"tile_count"`
}

// PathResultPayload carries the outcome of one routed voyage.
// Path is present only when Status is "found".
type PathResultPayload struct {
	RequestID string  `json:"request_id"`
	VoyageID  string  `json:"voyage_id"`
	Status    string  `json:"status"`
	Path      []Coord `json:"path,omitempty"`
	Steps     int     `json:"steps"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
