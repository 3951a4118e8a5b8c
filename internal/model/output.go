package model

// OutputType selects the output template.
type OutputType string

var (
	OutputCoin     OutputType = "coin"
	OutputContract OutputType = "contract"
	OutputData     OutputType = "data"
)

// Output is a value or data carrier created by a transaction.
type Output struct {
	Type       OutputType `json:"type"`
	TxID       string     `json:"txId"`
	Index      uint32     `json:"index"`
	To         string     `json:"to,omitempty"`
	AssetID    string     `json:"assetId,omitempty"`
	Amount     uint64     `json:"amount"`
	ContractID string     `json:"contractId,omitempty"`
	ScriptType string     `json:"scriptType,omitempty"`
	ScriptHex  string     `json:"scriptHex,omitempty"`
	ScriptAsm  string     `json:"scriptAsm,omitempty"`
	Addresses  []string   `json:"addresses,omitempty"`
	Data       string     `json:"data,omitempty"`
}
