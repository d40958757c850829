package structs

import "time"

// Message is the envelope for everything the progress socket sends
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Message types that are not progression events
const (
	MessageConnected = "connected"
	MessagePong      = "pong"
)

// ClientMessage is what a client may send over the progress socket
type ClientMessage struct {
	Type string `json:"type"`
}
