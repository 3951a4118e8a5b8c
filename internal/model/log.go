package model

// Log is a message emitted during transaction execution.
type Log struct {
	TxID       string `json:"txId"`
	Index      uint32 `json:"index"`
	ContractID string `json:"contractId"`
	Data       string `json:"data"`
}
