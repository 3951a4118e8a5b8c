package model

// Utxo is an unspent output created by a transaction.
type Utxo struct {
	ID          string `json:"id"`
	TxID        string `json:"txId"`
	OutputIndex uint32 `json:"outputIndex"`
	Address     string `json:"address,omitempty"`
	Amount      uint64 `json:"amount"`
}
