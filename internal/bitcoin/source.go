package bitcoin

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/chain"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/model"
	"github.com/goodnatureofminers/blockstream7000-backend/pkg/safe"
)

// Source implements chain.Source over a Bitcoin node.
type Source struct {
	rpc       RPC
	converter *converter
}

// NewSource creates a Source decoding blocks of the given network.
func NewSource(rpc RPC, network model.Network) (*Source, error) {
	if rpc == nil {
		return nil, errors.New("bitcoin rpc is required")
	}
	decoder, err := NewScriptDecoder(network)
	if err != nil {
		return nil, err
	}
	return &Source{
		rpc:       rpc,
		converter: &converter{decoder: decoder, network: network},
	}, nil
}

// LatestHeight returns the latest block height available from the node.
func (s *Source) LatestHeight(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count, err := s.rpc.GetBlockCount()
	if err != nil {
		return 0, fmt.Errorf("get block count: %w", err)
	}
	height, err := safe.Uint64(count)
	if err != nil {
		return 0, fmt.Errorf("block count: %w", err)
	}
	return height, nil
}

// FetchBlock retrieves and decodes the block at the given height.
func (s *Source) FetchBlock(ctx context.Context, height uint64) (*chain.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rpcHeight, err := safe.Int64(height)
	if err != nil {
		return nil, fmt.Errorf("block height %d exceeds rpc limit: %w", height, err)
	}

	hash, err := s.rpc.GetBlockHash(rpcHeight)
	if err != nil {
		return nil, fmt.Errorf("get block hash at height %d: %w", height, err)
	}
	src, err := s.rpc.GetBlockVerboseTx(hash)
	if err != nil {
		return nil, fmt.Errorf("get block %s: %w", hash, err)
	}
	if src.Height != rpcHeight {
		return nil, fmt.Errorf("block %s is at height %d, want %d", hash, src.Height, height)
	}

	return s.converter.Block(*src)
}

var _ chain.Source = (*Source)(nil)
