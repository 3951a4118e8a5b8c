package stream

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/access"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/broker"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/deliver"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/record"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/subject"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Store interface {
		FindRange(ctx context.Context, r record.Range) ([]record.Packet, error)
		MaxBlockHeight(ctx context.Context, namespace string) (uint64, bool, error)
	}
	Broker interface {
		Subscribe(ctx context.Context, pattern string) (broker.Subscription, error)
	}
	Gate interface {
		Authorize(cred access.Credential, policy deliver.Policy, subj *subject.Subject) error
		CheckLookback(cred access.Credential, policy deliver.Policy, nowHeight uint64) error
		Acquire(cred access.Credential) (func(), error)
	}
	Metrics interface {
		ObserveSubscribe(policy string, err error, started time.Time)
		ObservePage(err error, rows int, started time.Time)
		IncEmitted(phase string)
		IncDropped(reason string)
		IncDecodeErrors()
		AddBuffered(delta int)
		ActiveStreams(delta int)
	}
)
