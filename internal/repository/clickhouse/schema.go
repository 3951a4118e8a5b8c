package clickhouse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/record"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/subject"
)

// Columns every stream table starts with.
var baseColumns = []string{
	"namespace",
	"subject_id",
	"subject",
	"block_height",
	"tx_index",
	"sub_index",
	"value",
	"published_at",
}

// Columns a FindRange page reads back.
var selectColumns = []any{"subject", "block_height", "tx_index", "sub_index", "value", "published_at"}

type column struct {
	name string
	kind subject.Kind
}

// table is the layout of one entity table, derived from the templates routed to it.
type table struct {
	entity  record.Entity
	name    string
	variant string
	columns []column
}

func buildTables(templates []*subject.Template) (map[record.Entity]*table, error) {
	base := make(map[string]bool, len(baseColumns))
	for _, c := range baseColumns {
		base[c] = true
	}

	tables := make(map[record.Entity]*table)
	for _, tmpl := range templates {
		entity, err := record.FromSubjectID(tmpl.ID)
		if err != nil {
			return nil, err
		}
		t, ok := tables[entity]
		if !ok {
			t = &table{entity: entity, name: entity.TableName()}
			tables[entity] = t
		}

		if d := tmpl.Discriminator; d != nil {
			if t.variant != "" && t.variant != d.Column {
				return nil, fmt.Errorf("table %s: templates disagree on variant column %s vs %s", t.name, t.variant, d.Column)
			}
			t.variant = d.Column
		}

		for _, f := range tmpl.Fields {
			name := f.SQLColumn()
			if base[name] {
				continue
			}
			if existing, found := t.column(name); found {
				if existing.kind != f.Kind {
					return nil, fmt.Errorf("table %s: column %s has conflicting kinds", t.name, name)
				}
				continue
			}
			t.columns = append(t.columns, column{name: name, kind: f.Kind})
		}
	}
	return tables, nil
}

func (t *table) column(name string) (column, bool) {
	for _, c := range t.columns {
		if c.name == name {
			return c, true
		}
	}
	return column{}, false
}

func (t *table) columnNames() []string {
	names := append([]string(nil), baseColumns...)
	if t.variant != "" {
		names = append(names, t.variant)
	}
	for _, c := range t.columns {
		names = append(names, c.name)
	}
	return names
}

func (t *table) insertQuery() string {
	return fmt.Sprintf("INSERT INTO %s (\n\t%s\n) VALUES", t.name, strings.Join(t.columnNames(), ",\n\t"))
}

// row lays the packet out in columnNames order. Columns the packet's template
// does not carry are stored as empty values.
func (t *table) row(p record.Packet) ([]any, error) {
	path, err := p.Subject.Parse()
	if err != nil {
		return nil, err
	}

	publishedAt := p.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now()
	}

	row := []any{
		p.Namespace,
		p.Subject.ID(),
		path,
		p.Order.BlockHeight,
		p.Order.Tx(),
		p.Order.Sub(),
		string(p.Value),
		publishedAt.UTC(),
	}

	tmpl := p.Subject.Template()
	if t.variant != "" {
		var variant string
		if d := tmpl.Discriminator; d != nil {
			variant = fmt.Sprint(d.Value)
		}
		row = append(row, variant)
	}

	values := make(map[string]string, len(tmpl.Fields))
	for _, f := range tmpl.Fields {
		if v, ok := p.Subject.Value(f.Name); ok {
			values[f.SQLColumn()] = v
		}
	}

	for _, c := range t.columns {
		v := values[c.name]
		if c.kind != subject.Uint {
			row = append(row, v)
			continue
		}
		var n uint64
		if v != "" {
			if n, err = strconv.ParseUint(v, 10, 64); err != nil {
				return nil, fmt.Errorf("column %s: %w", c.name, err)
			}
		}
		row = append(row, n)
	}
	return row, nil
}
