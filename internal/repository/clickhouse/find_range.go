package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/record"
)

// FindRange returns one page of packets matching the range, ascending by
// (block_height, tx_index, sub_index). Pages are keyed by the After cursor, not offsets.
func (r *Repository) FindRange(ctx context.Context, rng record.Range) (packets []record.Packet, err error) {
	start := time.Now()
	table := ""
	defer func() {
		r.metrics.Observe("find_range", table, err, start)
	}()

	entity, err := record.FromSubjectID(rng.Subject.ID())
	if err != nil {
		return nil, err
	}
	t, err := r.table(entity)
	if err != nil {
		return nil, err
	}
	table = t.name

	query, args, err := rangeQuery(t, rng)
	if err != nil {
		return nil, fmt.Errorf("build range query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s range: %w", t.name, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	tmpl := rng.Subject.Template()
	for rows.Next() {
		var (
			path        string
			height      uint64
			tx, sub     uint32
			value       string
			publishedAt time.Time
		)
		if err = rows.Scan(&path, &height, &tx, &sub, &value, &publishedAt); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", t.name, err)
		}

		subj, pathErr := tmpl.FromPath(path)
		if pathErr != nil {
			err = fmt.Errorf("stored subject %q: %w", path, pathErr)
			return nil, err
		}
		p, packetErr := record.NewPacket(subj, []byte(value), record.OrderFor(entity, height, tx, sub))
		if packetErr != nil {
			err = fmt.Errorf("stored packet %q: %w", path, packetErr)
			return nil, err
		}
		p.Namespace = rng.Namespace
		p.PublishedAt = publishedAt
		packets = append(packets, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", t.name, err)
	}

	return packets, nil
}

func rangeQuery(t *table, rng record.Range) (string, []any, error) {
	ds := goqu.From(t.name).
		Select(selectColumns...).
		Where(
			goqu.C("namespace").Eq(rng.Namespace),
			goqu.C("block_height").Gte(rng.FromHeight),
		)

	if d := rng.Subject.Template().Discriminator; d != nil {
		ds = ds.Where(goqu.C(d.Column).Eq(d.Value))
	}
	for _, c := range rng.Subject.Conditions() {
		ds = ds.Where(goqu.C(c.Column).Eq(c.Value))
	}
	if a := rng.After; a != nil {
		ds = ds.Where(goqu.L("(block_height, tx_index, sub_index) > (?, ?, ?)", a.BlockHeight, a.Tx(), a.Sub()))
	}

	ds = ds.Order(
		goqu.C("block_height").Asc(),
		goqu.C("tx_index").Asc(),
		goqu.C("sub_index").Asc(),
	)
	if rng.Limit > 0 {
		ds = ds.Limit(uint(rng.Limit))
	}

	return ds.Prepared(true).ToSQL()
}
