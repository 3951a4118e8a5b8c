// Package model defines the decoded chain entities carried by stream records.
package model

// Network names the chain a record was decoded from.
type Network string

var (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
	Signet  Network = "signet"
)
