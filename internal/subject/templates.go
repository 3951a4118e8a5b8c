package subject

var (
	blockHeight = Field{Name: "block_height", Kind: Uint}
	txID        = Field{Name: "tx_id"}
	txIndex     = Field{Name: "tx_index", Kind: Uint}
	contract    = Field{Name: "contract", Column: "contract_id"}
	asset       = Field{Name: "asset", Column: "asset_id"}
)

// Block templates.
var (
	Blocks = MustTemplate("blocks", "blocks", nil,
		Field{Name: "producer", Column: "producer_address"},
		Field{Name: "height", Column: "block_height", Kind: Uint},
	)
)

// Transaction templates.
var (
	Transactions = MustTemplate("transactions", "transactions", nil,
		blockHeight,
		txIndex,
		txID,
		Field{Name: "tx_status"},
		Field{Name: "tx_type"},
	)
)

// Input templates share stream_inputs and differ by input_type.
var (
	inputIndex = Field{Name: "input_index", Kind: Uint}

	InputsCoin = MustTemplate("inputs_coin", "inputs.coin", &Condition{Column: "input_type", Value: "coin"},
		blockHeight, txID, txIndex, inputIndex,
		Field{Name: "prev_tx_id"},
		Field{Name: "prev_index", Column: "prev_output_index", Kind: Uint},
	)
	InputsCoinbase = MustTemplate("inputs_coinbase", "inputs.coinbase", &Condition{Column: "input_type", Value: "coinbase"},
		blockHeight, txID, txIndex, inputIndex,
	)
	InputsContract = MustTemplate("inputs_contract", "inputs.contract", &Condition{Column: "input_type", Value: "contract"},
		blockHeight, txID, txIndex, inputIndex, contract,
	)
)

// Output templates share stream_outputs and differ by output_type.
var (
	outputIndex = Field{Name: "output_index", Kind: Uint}

	OutputsCoin = MustTemplate("outputs_coin", "outputs.coin", &Condition{Column: "output_type", Value: "coin"},
		blockHeight, txID, txIndex, outputIndex,
		Field{Name: "to", Column: "to_address"},
		asset,
	)
	OutputsContract = MustTemplate("outputs_contract", "outputs.contract", &Condition{Column: "output_type", Value: "contract"},
		blockHeight, txID, txIndex, outputIndex, contract,
	)
	OutputsData = MustTemplate("outputs_data", "outputs.data", &Condition{Column: "output_type", Value: "data"},
		blockHeight, txID, txIndex, outputIndex,
	)
)

// Receipt templates share stream_receipts and differ by receipt_type.
var (
	receiptIndex = Field{Name: "receipt_index", Kind: Uint}
	receiptFrom  = Field{Name: "from", Column: "from_contract_id"}
	receiptTo    = Field{Name: "to", Column: "to_contract_id"}

	ReceiptsCall = MustTemplate("receipts_call", "receipts.call", &Condition{Column: "receipt_type", Value: "call"},
		blockHeight, txID, txIndex, receiptIndex, receiptFrom, receiptTo, asset,
	)
	ReceiptsTransfer = MustTemplate("receipts_transfer", "receipts.transfer", &Condition{Column: "receipt_type", Value: "transfer"},
		blockHeight, txID, txIndex, receiptIndex, receiptFrom, receiptTo, asset,
	)
	ReceiptsReturn = MustTemplate("receipts_return", "receipts.return", &Condition{Column: "receipt_type", Value: "return"},
		blockHeight, txID, txIndex, receiptIndex, contract,
	)
	ReceiptsScriptResult = MustTemplate("receipts_script_result", "receipts.script_result", &Condition{Column: "receipt_type", Value: "script_result"},
		blockHeight, txID, txIndex, receiptIndex,
	)
)

var (
	Utxos = MustTemplate("utxos", "utxos", nil,
		blockHeight, txID, txIndex, outputIndex,
		Field{Name: "utxo_id"},
	)
	Logs = MustTemplate("logs", "logs", nil,
		blockHeight, txID, txIndex,
		Field{Name: "log_index", Kind: Uint},
		contract,
	)
)

// All lists the built-in templates in registration order.
func All() []*Template {
	return []*Template{
		Blocks,
		Transactions,
		InputsCoin, InputsCoinbase, InputsContract,
		OutputsCoin, OutputsContract, OutputsData,
		ReceiptsCall, ReceiptsTransfer, ReceiptsReturn, ReceiptsScriptResult,
		Utxos,
		Logs,
	}
}
