package record

import (
	"fmt"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/model"
)

// Decoder restores a value from its encoded bytes.
type Decoder interface {
	Decode(data []byte, v any) error
}

// Value holds exactly one decoded entity, selected by Entity.
type Value struct {
	Entity      Entity
	Block       *model.Block
	Transaction *model.Transaction
	Input       *model.Input
	Output      *model.Output
	Receipt     *model.Receipt
	Utxo        *model.Utxo
	Log         *model.Log
}

// Payload returns the decoded entity.
func (v Value) Payload() any {
	switch v.Entity {
	case Block:
		return v.Block
	case Transaction:
		return v.Transaction
	case Input:
		return v.Input
	case Output:
		return v.Output
	case Receipt:
		return v.Receipt
	case Utxo:
		return v.Utxo
	case Log:
		return v.Log
	}
	return nil
}

// Decode runs the decoder of the entity over data.
func Decode(e Entity, dec Decoder, data []byte) (Value, error) {
	v := Value{Entity: e}
	var target any
	switch e {
	case Block:
		v.Block = &model.Block{}
		target = v.Block
	case Transaction:
		v.Transaction = &model.Transaction{}
		target = v.Transaction
	case Input:
		v.Input = &model.Input{}
		target = v.Input
	case Output:
		v.Output = &model.Output{}
		target = v.Output
	case Receipt:
		v.Receipt = &model.Receipt{}
		target = v.Receipt
	case Utxo:
		v.Utxo = &model.Utxo{}
		target = v.Utxo
	case Log:
		v.Log = &model.Log{}
		target = v.Log
	default:
		return Value{}, fmt.Errorf("decode %s: unknown entity", e)
	}
	if err := dec.Decode(data, target); err != nil {
		return Value{}, fmt.Errorf("decode %s: %w", e, err)
	}
	return v, nil
}

// Decode decodes the packet value.
func (p Packet) Decode(dec Decoder) (Value, error) {
	return Decode(p.Entity, dec, p.Value)
}
