// Package realtime is the chat channel: a WebSocket endpoint, per-connection
// sessions and a hub that fans messages out to joined connections.
package realtime

import (
	"encoding/json"
)

// Events understood or emitted on the socket.
const (
	EventJoin        = "join"
	EventSendMessage = "sendMessage"
	EventConnected   = "connected"
	EventNewMessage  = "newMessage"
)

// GroupGeneral is the only chat group.
const GroupGeneral = "general"

// Frame is the JSON envelope of every socket message.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// sendMessageData is the payload of a sendMessage event.
type sendMessageData struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

type connectedData struct {
	Message string `json:"message"`
}

func encodeFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}
