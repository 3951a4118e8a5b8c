package record

import (
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/subject"
	"github.com/vmihailenco/msgpack/v5"
)

// Envelope is the broker wire form of a packet.
type Envelope struct {
	SubjectID   string  `msgpack:"sid"`
	Path        string  `msgpack:"path"`
	Namespace   string  `msgpack:"ns,omitempty"`
	BlockHeight uint64  `msgpack:"h"`
	TxIndex     *uint32 `msgpack:"tx,omitempty"`
	SubIndex    *uint32 `msgpack:"sub,omitempty"`
	Value       []byte  `msgpack:"v"`
	PublishedAt int64   `msgpack:"ts"`
}

// MarshalEnvelope encodes the packet for publishing.
func MarshalEnvelope(p Packet) ([]byte, error) {
	path, err := p.Subject.Parse()
	if err != nil {
		return nil, fmt.Errorf("envelope subject: %w", err)
	}
	publishedAt := p.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now()
	}
	data, err := msgpack.Marshal(&Envelope{
		SubjectID:   p.Subject.ID(),
		Path:        path,
		Namespace:   p.Namespace,
		BlockHeight: p.Order.BlockHeight,
		TxIndex:     p.Order.TxIndex,
		SubIndex:    p.Order.SubIndex,
		Value:       p.Value,
		PublishedAt: publishedAt.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return data, nil
}

// UnmarshalEnvelope restores a packet, resolving its template through the registry.
func UnmarshalEnvelope(registry *subject.Registry, data []byte) (Packet, error) {
	var env Envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return Packet{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	tmpl, err := registry.Lookup(env.SubjectID)
	if err != nil {
		return Packet{}, err
	}
	subj, err := tmpl.FromPath(env.Path)
	if err != nil {
		return Packet{}, err
	}
	p, err := NewPacket(subj, env.Value, Order{BlockHeight: env.BlockHeight, TxIndex: env.TxIndex, SubIndex: env.SubIndex})
	if err != nil {
		return Packet{}, err
	}
	p.Namespace = env.Namespace
	p.PublishedAt = time.UnixMilli(env.PublishedAt)
	return p, nil
}
