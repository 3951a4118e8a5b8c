package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/record"
)

// insertOrder writes nested entities before blocks, so a stored block row
// means every record of that block is stored too.
var insertOrder = []record.Entity{
	record.Transaction,
	record.Input,
	record.Output,
	record.Receipt,
	record.Utxo,
	record.Log,
	record.Block,
}

// InsertPackets stores packets, one batch per entity table.
func (r *Repository) InsertPackets(ctx context.Context, packets []record.Packet) error {
	if len(packets) == 0 {
		return nil
	}

	grouped := make(map[record.Entity][]record.Packet)
	for _, p := range packets {
		grouped[p.Entity] = append(grouped[p.Entity], p)
	}

	for _, e := range insertOrder {
		batch := grouped[e]
		if len(batch) == 0 {
			continue
		}
		if err := r.insertTable(ctx, e, batch); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) insertTable(ctx context.Context, e record.Entity, packets []record.Packet) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("insert_packets", e.TableName(), err, start)
	}()

	t, err := r.table(e)
	if err != nil {
		return err
	}

	batch, err := r.conn.PrepareBatch(ctx, t.insertQuery())
	if err != nil {
		return fmt.Errorf("prepare %s batch: %w", t.name, err)
	}
	defer func() {
		if err != nil {
			_ = batch.Abort()
		}
	}()

	for _, p := range packets {
		row, rowErr := t.row(p)
		if rowErr != nil {
			err = fmt.Errorf("build %s row for %s: %w", t.name, p.Order, rowErr)
			return err
		}
		if err = batch.Append(row...); err != nil {
			return fmt.Errorf("append %s row: %w", t.name, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert %s: %w", t.name, err)
	}
	return nil
}
