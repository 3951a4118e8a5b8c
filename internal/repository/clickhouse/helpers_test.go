package clickhouse

import (
	"strconv"
	"testing"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/record"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/subject"
)

func bind(t *testing.T, tmpl *subject.Template, kv ...string) *subject.Subject {
	t.Helper()

	s := tmpl.New()
	for i := 0; i+1 < len(kv); i += 2 {
		var err error
		if s, err = s.With(kv[i], kv[i+1]); err != nil {
			t.Fatalf("With(%s) error = %v", kv[i], err)
		}
	}
	return s
}

func blockPacket(t *testing.T, namespace string, height uint64, producer string) record.Packet {
	t.Helper()

	subj, err := subject.Blocks.New().With("producer", producer)
	if err != nil {
		t.Fatalf("With() error = %v", err)
	}
	if subj, err = subj.WithUint("height", height); err != nil {
		t.Fatalf("WithUint() error = %v", err)
	}
	p, err := record.NewPacket(subj, []byte(`{"height":1}`), record.BlockOrder(height))
	if err != nil {
		t.Fatalf("NewPacket() error = %v", err)
	}
	p = p.WithNamespace(namespace)
	p.PublishedAt = time.UnixMilli(1_700_000_000_000)
	return p
}

func coinInputPacket(t *testing.T, namespace string, height uint64, tx, index uint32, txID string) record.Packet {
	t.Helper()

	subj := bind(t, subject.InputsCoin,
		"block_height", uintString(height),
		"tx_id", txID,
		"tx_index", uintString(uint64(tx)),
		"input_index", uintString(uint64(index)),
		"prev_tx_id", "prev"+txID,
		"prev_index", "3",
	)
	p, err := record.NewPacket(subj, []byte(`{}`), record.NestedOrder(height, tx, index))
	if err != nil {
		t.Fatalf("NewPacket() error = %v", err)
	}
	p = p.WithNamespace(namespace)
	p.PublishedAt = time.UnixMilli(1_700_000_000_000)
	return p
}

func uintString(v uint64) string {
	return strconv.FormatUint(v, 10)
}
