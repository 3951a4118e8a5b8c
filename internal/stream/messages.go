package stream

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/deliver"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/subject"
)

// ResponseVersion tags the layout of Response.
const ResponseVersion = "1"

// ClientMessage is a subscribe or unsubscribe request.
type ClientMessage struct {
	DeliverPolicy      *deliver.Policy   `json:"deliverPolicy,omitempty"`
	DeliverPolicySnake *deliver.Policy   `json:"deliver_policy,omitempty"`
	Subscribe          []subject.Payload `json:"subscribe,omitempty"`
	Unsubscribe        []subject.Payload `json:"unsubscribe,omitempty"`
}

// DecodeClientMessage parses a request and checks it asks for exactly one action.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var m ClientMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return ClientMessage{}, fmt.Errorf("%w: %w", subject.ErrInvalidRequest, err)
	}
	switch {
	case len(m.Subscribe) > 0 && len(m.Unsubscribe) > 0:
		return ClientMessage{}, fmt.Errorf("subscribe and unsubscribe in one message: %w", subject.ErrInvalidRequest)
	case len(m.Subscribe) == 0 && len(m.Unsubscribe) == 0:
		return ClientMessage{}, fmt.Errorf("nothing to subscribe or unsubscribe: %w", subject.ErrInvalidRequest)
	}
	return m, nil
}

// Policy returns the requested deliver policy, New when absent.
func (m ClientMessage) Policy() deliver.Policy {
	switch {
	case m.DeliverPolicy != nil:
		return *m.DeliverPolicy
	case m.DeliverPolicySnake != nil:
		return *m.DeliverPolicySnake
	}
	return deliver.NewPolicy()
}

// ServerMessage carries exactly one of its fields.
type ServerMessage struct {
	Subscribed   *Subscription `json:"subscribed,omitempty"`
	Unsubscribed *Subscription `json:"unsubscribed,omitempty"`
	Error        string        `json:"error,omitempty"`
	Response     *Response     `json:"response,omitempty"`
}

// Pointer locates a record in the chain.
type Pointer struct {
	BlockHeight uint64  `json:"blockHeight"`
	TxIndex     *uint32 `json:"txIndex,omitempty"`
	SubIndex    *uint32 `json:"subIndex,omitempty"`
}

// Response is one delivered record.
type Response struct {
	Version        string  `json:"version"`
	SubscriptionID string  `json:"subscriptionId,omitempty"`
	Type           string  `json:"type"`
	Subject        string  `json:"subject"`
	Pointer        Pointer `json:"pointer"`
	Payload        any     `json:"payload"`
	PropagationMs  int64   `json:"propagationMs,omitempty"`
}

// Subscribed acknowledges a subscription.
func Subscribed(sub Subscription) ServerMessage {
	return ServerMessage{Subscribed: &sub}
}

// Unsubscribed acknowledges an unsubscription.
func Unsubscribed(sub Subscription) ServerMessage {
	return ServerMessage{Unsubscribed: &sub}
}

// ErrorMessage reports err to the client.
func ErrorMessage(err error) ServerMessage {
	return ServerMessage{Error: err.Error()}
}

// ResponseMessage renders a successfully decoded item.
func ResponseMessage(subscriptionID string, it Item, now time.Time) ServerMessage {
	resp := RecordResponse(it)
	resp.SubscriptionID = subscriptionID
	if p := it.Packet; !p.PublishedAt.IsZero() {
		resp.PropagationMs = now.Sub(p.PublishedAt).Milliseconds()
	}
	return ServerMessage{Response: &resp}
}

// RecordResponse renders a decoded item outside any subscription.
func RecordResponse(it Item) Response {
	p := it.Packet
	return Response{
		Version: ResponseVersion,
		Type:    p.Entity.String(),
		Subject: p.Path(),
		Pointer: Pointer{
			BlockHeight: p.Order.BlockHeight,
			TxIndex:     p.Order.TxIndex,
			SubIndex:    p.Order.SubIndex,
		},
		Payload: it.Value.Payload(),
	}
}
