package archive

import "context"

// HeaderSessionID is the optional inbound header carrying the session
// identifier under which submissions accumulate.
const HeaderSessionID = "session-id"

// InboundMessage is the neutral inbound envelope delivered by the transport.
type InboundMessage struct {
	// ID is the transport-assigned identifier of the inbound message.
	ID string
	// Type is the declared message type (see types.go for the vocabulary).
	Type string
	// Headers carries optional out-of-band metadata such as the session id.
	Headers map[string]string
	// HasPayload reports whether Payload carries a document.
	HasPayload bool
	// Payload is the raw serialized document, if any.
	Payload []byte
}

// SessionID returns the session identifier header, if present and non-empty.
func (m InboundMessage) SessionID() (string, bool) {
	if len(m.Headers) == 0 {
		return "", false
	}
	sessionID, exists := m.Headers[HeaderSessionID]
	if !exists || sessionID == "" {
		return "", false
	}

	return sessionID, true
}

// ReplyMessage is an outbound reply envelope handed back to the transport.
type ReplyMessage struct {
	// Type is the reply message type.
	Type string
	// Payload is the serialized reply document; nil for payload-free replies.
	Payload []byte
	// Filename names the payload attachment on the wire.
	Filename string
}

// SentReceipt confirms a reply accepted by the transport, consumed for logging.
type SentReceipt struct {
	// MessageID is the transport-assigned outbound message identifier.
	MessageID string
	// MessageType echoes the reply type.
	MessageType string
}

// Responder is the per-message transport boundary.
//
// Exactly one of Ack or Nack must be called once per inbound message, and Ack
// must precede any Reply call.
type Responder interface {
	// Ack permanently removes the inbound message from its source queue.
	Ack() error
	// Nack rejects and discards an unrecognized message without retry.
	Nack() error
	// Reply sends one reply envelope and returns the sent confirmation.
	Reply(ctx context.Context, reply ReplyMessage) (SentReceipt, error)
}
