package model

// TxStatus is the execution outcome of a transaction.
type TxStatus string

var (
	TxSuccess TxStatus = "success"
	TxFailure TxStatus = "failure"
)

// TxType classifies a transaction.
type TxType string

var (
	TxCoinbase TxType = "coinbase"
	TxScript   TxType = "script"
)

// Transaction describes a transaction inside its block.
type Transaction struct {
	ID          string   `json:"id"`
	BlockHeight uint64   `json:"blockHeight"`
	Index       uint32   `json:"index"`
	Status      TxStatus `json:"status"`
	Type        TxType   `json:"type"`
	Size        uint32   `json:"size"`
	VSize       uint32   `json:"vsize"`
	Version     uint32   `json:"version"`
	LockTime    uint32   `json:"lockTime"`
	InputCount  uint32   `json:"inputCount"`
	OutputCount uint32   `json:"outputCount"`
}
