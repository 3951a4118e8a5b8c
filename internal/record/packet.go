package record

import (
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/subject"
)

var ErrInvalidOrder = errors.New("invalid record order")

// Order positions a record inside the chain.
type Order struct {
	BlockHeight uint64
	TxIndex     *uint32
	SubIndex    *uint32
}

// BlockOrder positions a block.
func BlockOrder(height uint64) Order {
	return Order{BlockHeight: height}
}

// TxOrder positions a transaction.
func TxOrder(height uint64, tx uint32) Order {
	return Order{BlockHeight: height, TxIndex: &tx}
}

// NestedOrder positions a record nested under a transaction.
func NestedOrder(height uint64, tx, sub uint32) Order {
	return Order{BlockHeight: height, TxIndex: &tx, SubIndex: &sub}
}

// Compare returns -1, 0 or 1 ordering by height, transaction index then sub index.
// An absent index sorts before any present one.
func (o Order) Compare(other Order) int {
	switch {
	case o.BlockHeight < other.BlockHeight:
		return -1
	case o.BlockHeight > other.BlockHeight:
		return 1
	}
	if c := compareIndex(o.TxIndex, other.TxIndex); c != 0 {
		return c
	}
	return compareIndex(o.SubIndex, other.SubIndex)
}

// Tx returns the transaction index or zero.
func (o Order) Tx() uint32 {
	if o.TxIndex == nil {
		return 0
	}
	return *o.TxIndex
}

// Sub returns the sub index or zero.
func (o Order) Sub() uint32 {
	if o.SubIndex == nil {
		return 0
	}
	return *o.SubIndex
}

func (o Order) String() string {
	return fmt.Sprintf("%d/%d/%d", o.BlockHeight, o.Tx(), o.Sub())
}

func compareIndex(a, b *uint32) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

// OrderFor rebuilds an order from stored columns, keeping only the indices the entity carries.
func OrderFor(e Entity, height uint64, tx, sub uint32) Order {
	switch {
	case e.Indexed():
		return NestedOrder(height, tx, sub)
	case e.Nested():
		return TxOrder(height, tx)
	default:
		return BlockOrder(height)
	}
}

// Packet is a fully addressed, encoded record ready to be stored and published.
type Packet struct {
	Entity      Entity
	Subject     *subject.Subject
	Value       []byte
	Namespace   string
	Order       Order
	PublishedAt time.Time
}

// NewPacket validates the subject is concrete and that order matches the entity.
func NewPacket(subj *subject.Subject, value []byte, order Order) (Packet, error) {
	entity, err := FromSubjectID(subj.ID())
	if err != nil {
		return Packet{}, err
	}
	if _, err = subj.Parse(); err != nil {
		return Packet{}, fmt.Errorf("packet subject: %w", err)
	}
	if (order.TxIndex != nil) != entity.Nested() || (order.SubIndex != nil) != entity.Indexed() {
		return Packet{}, fmt.Errorf("%s at %s: %w", entity, order, ErrInvalidOrder)
	}
	return Packet{Entity: entity, Subject: subj, Value: value, Order: order}, nil
}

// WithNamespace returns a copy scoped to the namespace.
func (p Packet) WithNamespace(namespace string) Packet {
	p.Namespace = namespace
	return p
}

// Path is the concrete broker subject, namespace first when set.
func (p Packet) Path() string {
	path, _ := p.Subject.Parse()
	return Namespaced(p.Namespace, path)
}

// Namespaced prefixes a path or pattern with the namespace.
func Namespaced(namespace, path string) string {
	if namespace == "" {
		return path
	}
	return namespace + "." + path
}

// Range is one page request against the store.
type Range struct {
	Subject    *subject.Subject
	Namespace  string
	FromHeight uint64
	After      *Order
	Limit      int
}
