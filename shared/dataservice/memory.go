package dataservice

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/Velocidex/ordereddict"
	"github.com/dracory/gestor/shared/tables"
)

// Memory is an in-process Service. Tables must exist before use; ids are
// assigned from a per-table counter.
type Memory struct {
	mu     sync.Mutex
	tables map[string]*memoryTable
}

type memoryTable struct {
	nextID int64
	rows   []*ordereddict.Dict
}

// NewMemory returns a store with one empty table per registered name.
func NewMemory(names ...string) *Memory {
	if len(names) == 0 {
		names = tables.Default.Names()
	}
	m := &Memory{tables: map[string]*memoryTable{}}
	for _, n := range names {
		m.tables[n] = &memoryTable{nextID: 1}
	}
	return m
}

// NewDemoMemory returns a store of the registered tables filled with a few
// related sample rows.
func NewDemoMemory() *Memory {
	m := NewMemory()
	m.Seed(tables.Clientes,
		Row("id", 1, "nombre", "Ana Torres", "email", "ana@example.com", "telefono", "555-0101"),
		Row("id", 2, "nombre", "Luis Pardo", "email", "luis@example.com", "telefono", "555-0102"),
	)
	m.Seed(tables.Productos,
		Row("id", 1, "nombre", "Silla", "precio", 20),
		Row("id", 2, "nombre", "Mesa", "precio", 100),
		Row("id", 3, "nombre", "Lampara", "precio", 35),
	)
	m.Seed(tables.Pedidos,
		Row("id", 1, "cliente_id", 1, "fecha", "2024-05-02"),
		Row("id", 2, "cliente_id", 2, "fecha", "2024-05-03"),
	)
	m.Seed(tables.Detalles,
		Row("id", 1, "pedido_id", 1, "producto_id", 1, "cantidad", 4),
		Row("id", 2, "pedido_id", 1, "producto_id", 2, "cantidad", 1),
		Row("id", 3, "pedido_id", 2, "producto_id", 3, "cantidad", 2),
	)
	return m
}

// Seed appends rows to table without touching their ids.
func (m *Memory) Seed(table string, rows ...*ordereddict.Dict) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[table]
	if !ok {
		t = &memoryTable{nextID: 1}
		m.tables[table] = t
	}
	for _, r := range rows {
		if v, ok := r.Get(KeyColumn); ok {
			if id, err := strconv.ParseInt(fmt.Sprint(v), 10, 64); err == nil && id >= t.nextID {
				t.nextID = id + 1
			}
		}
		t.rows = append(t.rows, copyDict(r))
	}
}

func (m *Memory) table(name string) (*memoryTable, error) {
	t, ok := m.tables[name]
	if !ok {
		return nil, &Error{
			Status:  http.StatusNotFound,
			Code:    "42P01",
			Message: fmt.Sprintf("relation %q does not exist", name),
		}
	}
	return t, nil
}

// FetchAll returns copies of all rows of table.
func (m *Memory) FetchAll(_ context.Context, table string) ([]*ordereddict.Dict, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.table(table)
	if err != nil {
		return nil, err
	}
	out := make([]*ordereddict.Dict, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, copyDict(r))
	}
	return out, nil
}

// InsertOne stores record with a fresh id placed first.
func (m *Memory) InsertOne(_ context.Context, table string, record *ordereddict.Dict) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if err := checkRecord(record); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.table(table)
	if err != nil {
		return err
	}
	row := ordereddict.NewDict().Set(KeyColumn, t.nextID)
	for _, k := range record.Keys() {
		if k == KeyColumn {
			continue
		}
		v, _ := record.Get(k)
		row.Set(k, v)
	}
	t.nextID++
	t.rows = append(t.rows, row)
	return nil
}

// DeleteByKey removes the rows whose id prints as id.
func (m *Memory) DeleteByKey(_ context.Context, table string, id string) error {
	if err := checkTable(table); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.table(table)
	if err != nil {
		return err
	}
	kept := t.rows[:0]
	for _, r := range t.rows {
		if v, ok := r.Get(KeyColumn); ok && fmt.Sprint(v) == id {
			continue
		}
		kept = append(kept, r)
	}
	t.rows = kept
	return nil
}

func copyDict(d *ordereddict.Dict) *ordereddict.Dict {
	out := ordereddict.NewDict()
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		out.Set(k, v)
	}
	return out
}
