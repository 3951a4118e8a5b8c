package model

// ReceiptType selects the receipt template.
type ReceiptType string

var (
	ReceiptCall         ReceiptType = "call"
	ReceiptTransfer     ReceiptType = "transfer"
	ReceiptReturn       ReceiptType = "return"
	ReceiptScriptResult ReceiptType = "script_result"
)

// Receipt records an execution event of a transaction.
type Receipt struct {
	Type       ReceiptType `json:"type"`
	TxID       string      `json:"txId"`
	Index      uint32      `json:"index"`
	From       string      `json:"from,omitempty"`
	To         string      `json:"to,omitempty"`
	AssetID    string      `json:"assetId,omitempty"`
	Amount     uint64      `json:"amount"`
	ContractID string      `json:"contractId,omitempty"`
	Result     string      `json:"result,omitempty"`
	GasUsed    uint64      `json:"gasUsed"`
}
