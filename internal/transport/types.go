package transport

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/access"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/deliver"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/record"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/stream"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/subject"
)

//go:generate mockgen -source=types.go -destination=mocks_test.go -package=transport

type (
	Subscriber interface {
		Subscribe(ctx context.Context, cred access.Credential, policy deliver.Policy, subj *subject.Subject) (*stream.Stream, error)
	}
	Authenticator interface {
		Lookup(key string) (access.Credential, error)
	}
	Pinger interface {
		Ping(ctx context.Context) error
	}
	WebSocketMetrics interface {
		ObserveUpgrade(err error)
		Sessions(delta int)
		IncInbound(kind string)
		IncOutbound(kind string)
	}
	RecordReader interface {
		FindRange(ctx context.Context, rng record.Range) ([]record.Packet, error)
		MaxBlockHeight(ctx context.Context, namespace string) (uint64, bool, error)
	}
	QueryGate interface {
		AuthorizeQuery(cred access.Credential, subj *subject.Subject) error
		CheckLookback(cred access.Credential, policy deliver.Policy, nowHeight uint64) error
	}
	QueryMetrics interface {
		ObserveQuery(subject string, err error, rows int, started time.Time)
	}
)
