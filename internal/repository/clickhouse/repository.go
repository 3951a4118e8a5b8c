// Package clickhouse stores record packets in per-entity ClickHouse tables.
package clickhouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/record"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/subject"
)

type Repository struct {
	conn    Conn
	metrics Metrics
	tables  map[record.Entity]*table
}

func NewRepository(dsn string, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}
	if metrics == nil {
		return nil, errors.New("clickhouse metrics is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	return newRepository(conn, metrics)
}

func newRepository(conn Conn, metrics Metrics) (*Repository, error) {
	tables, err := buildTables(subject.All())
	if err != nil {
		return nil, err
	}
	return &Repository{conn: conn, metrics: metrics, tables: tables}, nil
}

// Ping checks the connection.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping clickhouse: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	return r.conn.Close()
}

func (r *Repository) table(e record.Entity) (*table, error) {
	t, ok := r.tables[e]
	if !ok {
		return nil, fmt.Errorf("no table for entity %s", e)
	}
	return t, nil
}
