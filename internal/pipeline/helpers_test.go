package pipeline

import (
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/chain"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/model"
)

// sampleBlock has a coinbase transaction and a contract call, expanding to 13 packets.
func sampleBlock(height uint64) *chain.Block {
	return &chain.Block{
		Header: model.Block{
			Network:   model.Regtest,
			Height:    height,
			Hash:      "hash",
			Producer:  "miner",
			Timestamp: time.Unix(1_700_000_000, 0).UTC(),
			TxCount:   2,
		},
		Transactions: []chain.Transaction{
			{
				Tx: model.Transaction{ID: "cb", BlockHeight: height, Index: 0, Status: model.TxSuccess, Type: model.TxCoinbase},
				Inputs: []model.Input{
					{Type: model.InputCoinbase, TxID: "cb", Index: 0, Coinbase: "03abcd"},
				},
				Outputs: []model.Output{
					{Type: model.OutputCoin, TxID: "cb", Index: 0, To: "miner", AssetID: "btc", Amount: 50},
				},
				Utxos: []model.Utxo{
					{ID: "cb:0", TxID: "cb", OutputIndex: 0, Address: "miner", Amount: 50},
				},
			},
			{
				Tx: model.Transaction{ID: "t1", BlockHeight: height, Index: 1, Status: model.TxSuccess, Type: model.TxScript},
				Inputs: []model.Input{
					{Type: model.InputCoin, TxID: "t1", Index: 0, PrevTxID: "p0", PrevIndex: 2},
					{Type: model.InputContract, TxID: "t1", Index: 1, ContractID: "c1"},
				},
				Outputs: []model.Output{
					{Type: model.OutputContract, TxID: "t1", Index: 0, ContractID: "c1"},
					{Type: model.OutputData, TxID: "t1", Index: 1, Data: "00ff"},
				},
				Receipts: []model.Receipt{
					{Type: model.ReceiptCall, TxID: "t1", Index: 0, From: "c0", To: "c1", AssetID: "eth"},
					{Type: model.ReceiptScriptResult, TxID: "t1", Index: 1, Result: "success"},
				},
				Logs: []model.Log{
					{TxID: "t1", Index: 0, ContractID: "c1", Data: "beef"},
				},
			},
		},
	}
}
