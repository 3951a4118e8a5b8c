package stream

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/deliver"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/subject"
)

// Subscription is the caller-visible handle of one subscribed subject.
type Subscription struct {
	ID      string          `json:"id"`
	Policy  deliver.Policy  `json:"deliverPolicy"`
	Payload subject.Payload `json:"payload"`

	subject *subject.Subject
}

// NewSubscription derives the subscription id from the caller identity and the subject,
// so subscribing twice with the same parameters yields the same id.
func NewSubscription(callerID string, policy deliver.Policy, subj *subject.Subject) Subscription {
	return Subscription{
		ID:      subscriptionID(callerID, subj),
		Policy:  policy,
		Payload: subj.Payload(),
		subject: subj,
	}
}

// Subject returns the subscribed subject.
func (s Subscription) Subject() *subject.Subject {
	return s.subject
}

func subscriptionID(callerID string, subj *subject.Subject) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(callerID+"|"+subj.Key()))
}
