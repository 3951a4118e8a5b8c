package bitcoin

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/model"
)

var networkParams = map[string]*chaincfg.Params{
	"main":     &chaincfg.MainNetParams,
	"mainnet":  &chaincfg.MainNetParams,
	"bitcoin":  &chaincfg.MainNetParams,
	"testnet":  &chaincfg.TestNet3Params,
	"testnet3": &chaincfg.TestNet3Params,
	"regtest":  &chaincfg.RegressionNetParams,
	"signet":   &chaincfg.SigNetParams,
}

// ChainParams maps a network name to btcd chain parameters.
func ChainParams(network model.Network) (*chaincfg.Params, error) {
	params, ok := networkParams[strings.ToLower(string(network))]
	if !ok {
		return nil, fmt.Errorf("unsupported network %q", network)
	}
	return params, nil
}

// Destination is what an output script resolves to in the output model.
type Destination struct {
	Type      model.OutputType
	To        string
	Addresses []string
	Data      string
}

// ScriptDecoder resolves output scripts of one network.
type ScriptDecoder struct {
	params *chaincfg.Params
}

func NewScriptDecoder(network model.Network) (*ScriptDecoder, error) {
	params, err := ChainParams(network)
	if err != nil {
		return nil, err
	}
	return &ScriptDecoder{params: params}, nil
}

// Destination classifies a script as a data carrier or a coin output.
// Addresses reported by the node win over the ones parsed from the script.
func (d *ScriptDecoder) Destination(script btcjson.ScriptPubKeyResult) (Destination, error) {
	if script.Type == nullDataScript {
		return Destination{Type: model.OutputData, Data: script.Hex}, nil
	}

	dest := Destination{Type: model.OutputCoin, To: UnknownAddress}
	switch {
	case len(script.Addresses) > 0:
		dest.Addresses = append([]string(nil), script.Addresses...)
	case script.Address != "":
		dest.Addresses = []string{script.Address}
	case script.Hex != "":
		raw, err := hex.DecodeString(script.Hex)
		if err != nil {
			return Destination{}, fmt.Errorf("decode script hex: %w", err)
		}
		class, addrs, _, err := txscript.ExtractPkScriptAddrs(raw, d.params)
		if err != nil {
			return Destination{}, fmt.Errorf("extract script addresses: %w", err)
		}
		if class == txscript.NullDataTy {
			return Destination{Type: model.OutputData, Data: script.Hex}, nil
		}
		for _, a := range addrs {
			dest.Addresses = append(dest.Addresses, a.EncodeAddress())
		}
	}

	if len(dest.Addresses) > 0 {
		dest.To = dest.Addresses[0]
	}
	return dest, nil
}
