package model

// InputType selects the input template.
type InputType string

var (
	InputCoin     InputType = "coin"
	InputCoinbase InputType = "coinbase"
	InputContract InputType = "contract"
)

// Input spends a previous output, mints new coins or references a contract.
type Input struct {
	Type         InputType `json:"type"`
	TxID         string    `json:"txId"`
	Index        uint32    `json:"index"`
	PrevTxID     string    `json:"prevTxId,omitempty"`
	PrevIndex    uint32    `json:"prevIndex"`
	Sequence     uint32    `json:"sequence"`
	Coinbase     string    `json:"coinbase,omitempty"`
	ContractID   string    `json:"contractId,omitempty"`
	ScriptSigHex string    `json:"scriptSigHex,omitempty"`
	ScriptSigAsm string    `json:"scriptSigAsm,omitempty"`
	Witness      []string  `json:"witness,omitempty"`
}
