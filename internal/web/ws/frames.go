package ws

import (
	"github.com/mcoot/wordrush/internal/api/apierr"
)

// Request frame types
const (
	FrameJoin   = "join"
	FrameStart  = "start"
	FrameSubmit = "submit"
	FrameState  = "state"
)

// FrameAck is the type of every reply frame
const FrameAck = "ack"

// Inbound is a client request
type Inbound struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Word      string `json:"word,omitempty"`
}

// Ack answers exactly one Inbound frame
type Ack struct {
	Type      string           `json:"type"`
	Request   string           `json:"request"`
	RequestID string           `json:"request_id,omitempty"`
	OK        bool             `json:"ok"`
	Error     *apierr.APIError `json:"error,omitempty"`
	Data      any              `json:"data,omitempty"`
}

func okAck(in Inbound, data any) Ack {
	return Ack{Type: FrameAck, Request: in.Type, RequestID: in.RequestID, OK: true, Data: data}
}

func errAck(in Inbound, err error) Ack {
	_, apiErr := apierr.FromError(err)
	return Ack{Type: FrameAck, Request: in.Type, RequestID: in.RequestID, Error: &apiErr}
}
