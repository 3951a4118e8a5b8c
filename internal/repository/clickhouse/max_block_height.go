package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/record"
)

const maxBlockHeightQuery = `
SELECT max(block_height) AS max_height, count() AS blocks
FROM stream_blocks
WHERE namespace = ?`

// MaxBlockHeight returns the highest block stored for the namespace; ok is false when there is none.
func (r *Repository) MaxBlockHeight(ctx context.Context, namespace string) (height uint64, ok bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("max_block_height", record.Block.TableName(), err, start)
	}()

	rows, err := r.conn.Query(ctx, maxBlockHeightQuery, namespace)
	if err != nil {
		return 0, false, fmt.Errorf("query max block height: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		return 0, false, fmt.Errorf("max block height not found")
	}

	var count uint64
	if err = rows.Scan(&height, &count); err != nil {
		return 0, false, fmt.Errorf("scan max block height: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, false, fmt.Errorf("iterate max block height: %w", err)
	}

	return height, count > 0, nil
}
