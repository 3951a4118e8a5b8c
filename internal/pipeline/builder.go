package pipeline

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/chain"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/codec"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/model"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/record"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/subject"
)

// ErrUnsupportedVariant is returned for an input, output or receipt type without a template.
var ErrUnsupportedVariant = errors.New("unsupported entity variant")

// Builder expands a decoded block into addressed packets.
type Builder struct {
	codec codec.Codec
}

// NewBuilder constructs a Builder encoding values with c.
func NewBuilder(c codec.Codec) (*Builder, error) {
	if c == nil {
		return nil, errors.New("codec is nil")
	}
	return &Builder{codec: c}, nil
}

// Build returns the block packet followed by every transaction and its nested records in chain order.
func (b *Builder) Build(block *chain.Block) ([]record.Packet, error) {
	if block == nil {
		return nil, errors.New("block is nil")
	}

	h := block.Height()
	packets := make([]record.Packet, 0, block.Entities())

	p, err := b.packet(block.Header, record.BlockOrder(h), bind(subject.Blocks).
		str("producer", block.Header.Producer).
		uint("height", h))
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", h, err)
	}
	packets = append(packets, p)

	for _, tx := range block.Transactions {
		txPackets, err := b.transaction(h, tx)
		if err != nil {
			return nil, fmt.Errorf("block %d tx %s: %w", h, tx.Tx.ID, err)
		}
		packets = append(packets, txPackets...)
	}
	return packets, nil
}

func (b *Builder) transaction(h uint64, tx chain.Transaction) ([]record.Packet, error) {
	t := tx.Tx
	packets := make([]record.Packet, 0, 1+len(tx.Inputs)+len(tx.Outputs)+len(tx.Receipts)+len(tx.Utxos)+len(tx.Logs))

	p, err := b.packet(t, record.TxOrder(h, t.Index), bind(subject.Transactions).
		uint("block_height", h).
		uint("tx_index", uint64(t.Index)).
		str("tx_id", t.ID).
		str("tx_status", string(t.Status)).
		str("tx_type", string(t.Type)))
	if err != nil {
		return nil, err
	}
	packets = append(packets, p)

	nested := func(tmpl *subject.Template) *binder {
		return bind(tmpl).
			uint("block_height", h).
			str("tx_id", t.ID).
			uint("tx_index", uint64(t.Index))
	}

	for _, in := range tx.Inputs {
		var sb *binder
		switch in.Type {
		case model.InputCoin:
			sb = nested(subject.InputsCoin).
				uint("input_index", uint64(in.Index)).
				str("prev_tx_id", in.PrevTxID).
				uint("prev_index", uint64(in.PrevIndex))
		case model.InputCoinbase:
			sb = nested(subject.InputsCoinbase).uint("input_index", uint64(in.Index))
		case model.InputContract:
			sb = nested(subject.InputsContract).
				uint("input_index", uint64(in.Index)).
				str("contract", in.ContractID)
		default:
			return nil, fmt.Errorf("input %d type %q: %w", in.Index, in.Type, ErrUnsupportedVariant)
		}
		if p, err = b.packet(in, record.NestedOrder(h, t.Index, in.Index), sb); err != nil {
			return nil, fmt.Errorf("input %d: %w", in.Index, err)
		}
		packets = append(packets, p)
	}

	for _, out := range tx.Outputs {
		var sb *binder
		switch out.Type {
		case model.OutputCoin:
			sb = nested(subject.OutputsCoin).
				uint("output_index", uint64(out.Index)).
				str("to", out.To).
				str("asset", out.AssetID)
		case model.OutputContract:
			sb = nested(subject.OutputsContract).
				uint("output_index", uint64(out.Index)).
				str("contract", out.ContractID)
		case model.OutputData:
			sb = nested(subject.OutputsData).uint("output_index", uint64(out.Index))
		default:
			return nil, fmt.Errorf("output %d type %q: %w", out.Index, out.Type, ErrUnsupportedVariant)
		}
		if p, err = b.packet(out, record.NestedOrder(h, t.Index, out.Index), sb); err != nil {
			return nil, fmt.Errorf("output %d: %w", out.Index, err)
		}
		packets = append(packets, p)
	}

	for _, r := range tx.Receipts {
		var sb *binder
		switch r.Type {
		case model.ReceiptCall, model.ReceiptTransfer:
			tmpl := subject.ReceiptsCall
			if r.Type == model.ReceiptTransfer {
				tmpl = subject.ReceiptsTransfer
			}
			sb = nested(tmpl).
				uint("receipt_index", uint64(r.Index)).
				str("from", r.From).
				str("to", r.To).
				str("asset", r.AssetID)
		case model.ReceiptReturn:
			sb = nested(subject.ReceiptsReturn).
				uint("receipt_index", uint64(r.Index)).
				str("contract", r.ContractID)
		case model.ReceiptScriptResult:
			sb = nested(subject.ReceiptsScriptResult).uint("receipt_index", uint64(r.Index))
		default:
			return nil, fmt.Errorf("receipt %d type %q: %w", r.Index, r.Type, ErrUnsupportedVariant)
		}
		if p, err = b.packet(r, record.NestedOrder(h, t.Index, r.Index), sb); err != nil {
			return nil, fmt.Errorf("receipt %d: %w", r.Index, err)
		}
		packets = append(packets, p)
	}

	for _, u := range tx.Utxos {
		sb := nested(subject.Utxos).
			uint("output_index", uint64(u.OutputIndex)).
			str("utxo_id", u.ID)
		if p, err = b.packet(u, record.NestedOrder(h, t.Index, u.OutputIndex), sb); err != nil {
			return nil, fmt.Errorf("utxo %s: %w", u.ID, err)
		}
		packets = append(packets, p)
	}

	for _, l := range tx.Logs {
		sb := nested(subject.Logs).
			uint("log_index", uint64(l.Index)).
			str("contract", l.ContractID)
		if p, err = b.packet(l, record.NestedOrder(h, t.Index, l.Index), sb); err != nil {
			return nil, fmt.Errorf("log %d: %w", l.Index, err)
		}
		packets = append(packets, p)
	}

	return packets, nil
}

func (b *Builder) packet(value any, order record.Order, sb *binder) (record.Packet, error) {
	if sb.err != nil {
		return record.Packet{}, sb.err
	}
	data, err := b.codec.Encode(value)
	if err != nil {
		return record.Packet{}, fmt.Errorf("encode %s: %w", sb.subj.ID(), err)
	}
	return record.NewPacket(sb.subj, data, order)
}

// binder binds fields in sequence and keeps the first error.
type binder struct {
	subj *subject.Subject
	err  error
}

func bind(tmpl *subject.Template) *binder {
	return &binder{subj: tmpl.New()}
}

func (b *binder) str(name, value string) *binder {
	if b.err == nil {
		b.subj, b.err = b.subj.With(name, value)
	}
	return b
}

func (b *binder) uint(name string, value uint64) *binder {
	if b.err == nil {
		b.subj, b.err = b.subj.WithUint(name, value)
	}
	return b
}
