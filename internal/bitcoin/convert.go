// Package bitcoin decodes Bitcoin node blocks into chain blocks.
package bitcoin

import (
	"fmt"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/chain"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/model"
	"github.com/goodnatureofminers/blockstream7000-backend/pkg/safe"
)

const (
	// AssetBTC is the asset of every Bitcoin coin output.
	AssetBTC = "btc"
	// UnknownAddress stands in for outputs whose script has no address.
	UnknownAddress = "unknown"

	nullDataScript = "nulldata"
)

// BtcToSatoshis converts BTC amount to satoshis with overflow checks.
func BtcToSatoshis(value float64) (uint64, error) {
	amt, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}
	if amt < 0 {
		return 0, fmt.Errorf("negative amount: %d", amt)
	}
	return safe.Uint64(int64(amt))
}

// ParseBits parses a bits string into a 32-bit value.
func ParseBits(value string) (uint32, error) {
	parsed, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(parsed), nil
}

type converter struct {
	decoder *ScriptDecoder
	network model.Network
}

// Block converts a verbose block. The producer is the first address paid by the coinbase.
func (c *converter) Block(src btcjson.GetBlockVerboseTxResult) (*chain.Block, error) {
	header, err := c.header(src)
	if err != nil {
		return nil, err
	}

	txs := make([]chain.Transaction, 0, len(src.Tx))
	for i, raw := range src.Tx {
		index, err := safe.Uint32(i)
		if err != nil {
			return nil, fmt.Errorf("block %d tx index overflow: %w", header.Height, err)
		}
		tx, err := c.transaction(raw, header.Height, index)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	header.Producer = producer(txs)
	return &chain.Block{Header: header, Transactions: txs}, nil
}

func (c *converter) header(src btcjson.GetBlockVerboseTxResult) (model.Block, error) {
	bits, err := ParseBits(src.Bits)
	if err != nil {
		return model.Block{}, fmt.Errorf("block %d bits parse: %w", src.Height, err)
	}
	height, err := safe.Uint64(src.Height)
	if err != nil {
		return model.Block{}, fmt.Errorf("block height %d: %w", src.Height, err)
	}
	version, err := safe.Uint32(src.Version)
	if err != nil {
		return model.Block{}, fmt.Errorf("block %d version overflow: %w", src.Height, err)
	}
	size, err := safe.Uint32(src.Size)
	if err != nil {
		return model.Block{}, fmt.Errorf("block %d size overflow: %w", src.Height, err)
	}
	txCount, err := safe.Uint32(len(src.Tx))
	if err != nil {
		return model.Block{}, fmt.Errorf("block %d tx count overflow: %w", src.Height, err)
	}

	return model.Block{
		Network:    c.network,
		Height:     height,
		Hash:       src.Hash,
		PrevHash:   src.PreviousHash,
		Timestamp:  time.Unix(src.Time, 0).UTC(),
		Version:    version,
		MerkleRoot: src.MerkleRoot,
		Bits:       bits,
		Nonce:      src.Nonce,
		Difficulty: src.Difficulty,
		Size:       size,
		TxCount:    txCount,
	}, nil
}

func (c *converter) transaction(raw btcjson.TxRawResult, height uint64, index uint32) (chain.Transaction, error) {
	size, err := safe.Uint32(raw.Size)
	if err != nil {
		return chain.Transaction{}, fmt.Errorf("tx %s size: %w", raw.Txid, err)
	}
	vsize, err := safe.Uint32(raw.Vsize)
	if err != nil {
		return chain.Transaction{}, fmt.Errorf("tx %s vsize: %w", raw.Txid, err)
	}
	version, err := safe.Uint32(raw.Version)
	if err != nil {
		return chain.Transaction{}, fmt.Errorf("tx %s version: %w", raw.Txid, err)
	}
	inputCount, err := safe.Uint32(len(raw.Vin))
	if err != nil {
		return chain.Transaction{}, fmt.Errorf("tx %s vin count: %w", raw.Txid, err)
	}
	outputCount, err := safe.Uint32(len(raw.Vout))
	if err != nil {
		return chain.Transaction{}, fmt.Errorf("tx %s vout count: %w", raw.Txid, err)
	}

	txType := model.TxScript
	if len(raw.Vin) > 0 && raw.Vin[0].IsCoinBase() {
		txType = model.TxCoinbase
	}

	tx := chain.Transaction{
		Tx: model.Transaction{
			ID:          raw.Txid,
			BlockHeight: height,
			Index:       index,
			Status:      model.TxSuccess,
			Type:        txType,
			Size:        size,
			VSize:       vsize,
			Version:     version,
			LockTime:    raw.LockTime,
			InputCount:  inputCount,
			OutputCount: outputCount,
		},
	}

	if tx.Inputs, err = c.inputs(raw); err != nil {
		return chain.Transaction{}, err
	}
	if tx.Outputs, tx.Utxos, err = c.outputs(raw); err != nil {
		return chain.Transaction{}, err
	}
	return tx, nil
}

func (c *converter) inputs(raw btcjson.TxRawResult) ([]model.Input, error) {
	inputs := make([]model.Input, 0, len(raw.Vin))
	for idx, vin := range raw.Vin {
		index, err := safe.Uint32(idx)
		if err != nil {
			return nil, fmt.Errorf("tx %s input index overflow: %w", raw.Txid, err)
		}

		input := model.Input{
			TxID:     raw.Txid,
			Index:    index,
			Sequence: vin.Sequence,
			Witness:  append([]string(nil), vin.Witness...),
		}
		if vin.IsCoinBase() {
			input.Type = model.InputCoinbase
			input.Coinbase = vin.Coinbase
		} else {
			input.Type = model.InputCoin
			input.PrevTxID = vin.Txid
			input.PrevIndex = vin.Vout
			if vin.ScriptSig != nil {
				input.ScriptSigHex = vin.ScriptSig.Hex
				input.ScriptSigAsm = vin.ScriptSig.Asm
			}
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

func (c *converter) outputs(raw btcjson.TxRawResult) ([]model.Output, []model.Utxo, error) {
	outputs := make([]model.Output, 0, len(raw.Vout))
	utxos := make([]model.Utxo, 0, len(raw.Vout))
	for idx, vout := range raw.Vout {
		if vout.Value < 0 {
			return nil, nil, fmt.Errorf("tx %s output %d negative value: %f", raw.Txid, idx, vout.Value)
		}
		index, err := safe.Uint32(idx)
		if err != nil {
			return nil, nil, fmt.Errorf("tx %s output index overflow: %w", raw.Txid, err)
		}
		amount, err := BtcToSatoshis(vout.Value)
		if err != nil {
			return nil, nil, fmt.Errorf("tx %s output %d value: %w", raw.Txid, idx, err)
		}

		dest, err := c.decoder.Destination(vout.ScriptPubKey)
		if err != nil {
			return nil, nil, fmt.Errorf("tx %s output %d: %w", raw.Txid, idx, err)
		}

		out := model.Output{
			Type:       dest.Type,
			TxID:       raw.Txid,
			Index:      index,
			Amount:     amount,
			ScriptType: vout.ScriptPubKey.Type,
			ScriptHex:  vout.ScriptPubKey.Hex,
			ScriptAsm:  vout.ScriptPubKey.Asm,
		}
		if dest.Type == model.OutputData {
			out.Data = dest.Data
			outputs = append(outputs, out)
			continue
		}
		out.To = dest.To
		out.AssetID = AssetBTC
		out.Addresses = dest.Addresses
		outputs = append(outputs, out)

		utxos = append(utxos, model.Utxo{
			ID:          UtxoID(raw.Txid, index),
			TxID:        raw.Txid,
			OutputIndex: index,
			Address:     dest.To,
			Amount:      amount,
		})
	}
	return outputs, utxos, nil
}

// UtxoID names an output as txid:index.
func UtxoID(txID string, index uint32) string {
	return txID + ":" + strconv.FormatUint(uint64(index), 10)
}

func producer(txs []chain.Transaction) string {
	if len(txs) == 0 || txs[0].Tx.Type != model.TxCoinbase {
		return UnknownAddress
	}
	for _, out := range txs[0].Outputs {
		if out.Type == model.OutputCoin && out.To != UnknownAddress {
			return out.To
		}
	}
	return UnknownAddress
}
