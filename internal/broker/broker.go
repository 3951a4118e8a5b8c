// Package broker defines the publish/subscribe contract used for live records.
package broker

import (
	"context"
	"errors"
)

// ErrClosed is reported when a subscription ends because the broker went away.
var ErrClosed = errors.New("broker closed")

// Message is one delivery on a concrete subject.
type Message struct {
	Subject string
	Data    []byte
}

type (
	// Subscription delivers messages matching a wildcard pattern.
	// Done is closed when the subscription ends; Err tells why when it was not unsubscribed.
	Subscription interface {
		Messages() <-chan Message
		Done() <-chan struct{}
		Err() error
		Unsubscribe() error
	}

	// Publisher sends a payload on a concrete subject.
	Publisher interface {
		Publish(ctx context.Context, subject string, data []byte) error
	}

	// Subscriber opens subscriptions on wildcard patterns.
	Subscriber interface {
		Subscribe(ctx context.Context, pattern string) (Subscription, error)
	}
)
