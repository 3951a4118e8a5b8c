// Package record routes subject-addressed records to their entity kind, table and decoder.
package record

import (
	"fmt"
	"strings"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/subject"
)

// Entity is the closed set of record kinds.
type Entity uint8

const (
	Block Entity = iota + 1
	Transaction
	Input
	Output
	Receipt
	Utxo
	Log
)

var plurals = map[Entity]string{
	Block:       "blocks",
	Transaction: "transactions",
	Input:       "inputs",
	Output:      "outputs",
	Receipt:     "receipts",
	Utxo:        "utxos",
	Log:         "logs",
}

// Entities lists every entity in declaration order.
func Entities() []Entity {
	return []Entity{Block, Transaction, Input, Output, Receipt, Utxo, Log}
}

// FromSubjectID resolves the entity addressed by a template identifier such as "inputs_coin".
func FromSubjectID(id string) (Entity, error) {
	prefix := strings.ToLower(id)
	if i := strings.Index(prefix, "_"); i >= 0 {
		prefix = prefix[:i]
	}
	for _, e := range Entities() {
		if plurals[e] == prefix {
			return e, nil
		}
	}
	return 0, fmt.Errorf("route %q: %w", id, subject.ErrUnknownSubject)
}

// ParseEntity is the inverse of Entity.String.
func ParseEntity(name string) (Entity, error) {
	for _, e := range Entities() {
		if e.String() == name {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown entity %q", name)
}

func (e Entity) String() string {
	p, ok := plurals[e]
	if !ok {
		return fmt.Sprintf("entity(%d)", uint8(e))
	}
	return strings.TrimSuffix(p, "s")
}

// TableName is the ClickHouse table storing the entity.
func (e Entity) TableName() string {
	return "stream_" + plurals[e]
}

// Namespace is the broker subject prefix of the entity.
func (e Entity) Namespace() string {
	return plurals[e]
}

// Nested reports whether records of the entity belong to a transaction.
func (e Entity) Nested() bool {
	return e != Block
}

// Indexed reports whether records of the entity carry a position inside their transaction.
func (e Entity) Indexed() bool {
	return e.Nested() && e != Transaction
}
