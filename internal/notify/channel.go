// Package notify delivers builder access transitions to the authorization
// service and posts user-facing toasts.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Authorization service message types.
const (
	MsgRequestBuilder = "requestBuilderByToken"
	MsgRevokeBuilder  = "revokeBuilderByToken"
)

// Channel sends a typed message to the authorization service.
type Channel interface {
	Send(ctx context.Context, msgType string, payload any) error
}

// BuilderRequest is the payload of a MsgRequestBuilder message.
type BuilderRequest struct {
	WalletAddress string  `json:"walletAddress"`
	TokenBalance  float64 `json:"tokenBalance"`
}

// Envelope is the wire form shared by the HTTP and Redis channels.
type Envelope struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	SentAt  time.Time       `json:"sent_at"`
}

// newEnvelope wraps payload. A nil payload is omitted from the wire form.
func newEnvelope(msgType string, payload any, now time.Time) (*Envelope, error) {
	env := &Envelope{
		ID:     uuid.NewString(),
		Type:   msgType,
		SentAt: now.UTC(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Payload = raw
	}
	return env, nil
}

// NopChannel drops every message. It stands in when no transport is configured.
type NopChannel struct{}

// Send discards the message.
func (NopChannel) Send(context.Context, string, any) error {
	return nil
}
