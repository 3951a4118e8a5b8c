// Package chain defines the decoded block payload handed from a chain source to the ingestion pipeline.
package chain

import (
	"context"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/model"
)

// Source provides decoded blocks of one network.
type Source interface {
	LatestHeight(ctx context.Context) (uint64, error)
	FetchBlock(ctx context.Context, height uint64) (*Block, error)
}

// Block is a decoded block with everything nested under it, in chain order.
type Block struct {
	Header       model.Block
	Transactions []Transaction
}

// Transaction carries a transaction and the entities it produced.
type Transaction struct {
	Tx       model.Transaction
	Inputs   []model.Input
	Outputs  []model.Output
	Receipts []model.Receipt
	Utxos    []model.Utxo
	Logs     []model.Log
}

// Height returns the block height.
func (b *Block) Height() uint64 {
	return b.Header.Height
}

// Entities counts the records the block expands to.
func (b *Block) Entities() int {
	n := 1
	for _, tx := range b.Transactions {
		n += 1 + len(tx.Inputs) + len(tx.Outputs) + len(tx.Receipts) + len(tx.Utxos) + len(tx.Logs)
	}
	return n
}
