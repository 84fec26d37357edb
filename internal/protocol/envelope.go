package protocol

import "encoding/json"

// Envelope is the uniform shape of every message delivered to a client
type Envelope struct {
	Event   string `json:"event"`
	OK      bool   `json:"ok"`
	Result  any    `json:"result,omitempty"`
	IsError bool   `json:"isError,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK builds a success envelope for the given event
func OK(event string, result any) Envelope {
	return Envelope{
		Event:  event,
		OK:     true,
		Result: result,
	}
}

// Error builds an error envelope for the given event
func Error(event, message string) Envelope {
	return Envelope{
		Event:   event,
		IsError: true,
		Error:   message,
	}
}

// Request is an inbound frame from a client: an event name plus an
// event-specific payload
type Request struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}
