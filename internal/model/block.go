package model

import "time"

// Block is the header-level view of a chain block.
type Block struct {
	Network    Network   `json:"network"`
	Height     uint64    `json:"height"`
	Hash       string    `json:"hash"`
	PrevHash   string    `json:"prevHash,omitempty"`
	Producer   string    `json:"producer"`
	Timestamp  time.Time `json:"timestamp"`
	Version    uint32    `json:"version"`
	MerkleRoot string    `json:"merkleRoot"`
	Bits       uint32    `json:"bits"`
	Nonce      uint32    `json:"nonce"`
	Difficulty float64   `json:"difficulty"`
	Size       uint32    `json:"size"`
	TxCount    uint32    `json:"txCount"`
}
