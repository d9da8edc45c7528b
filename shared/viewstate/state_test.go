package viewstate

import (
	"testing"

	"github.com/Velocidex/ordereddict"
	"github.com/dracory/gestor/shared/tables"
	"github.com/stretchr/testify/assert"
)

func row(kv ...interface{}) *ordereddict.Dict {
	d := ordereddict.NewDict()
	for i := 0; i+1 < len(kv); i += 2 {
		d.Set(kv[i].(string), kv[i+1])
	}
	return d
}

func TestNewState(t *testing.T) {
	s := NewState(tables.Default)
	assert.Equal(t, "clientes", s.Table)
	assert.Empty(t, s.Rows)
	assert.Empty(t, s.Columns)
	assert.Empty(t, s.Draft)
}

func TestWithRows_ColumnsFromFirstRow(t *testing.T) {
	s := NewState(tables.Default).WithRows([]*ordereddict.Dict{
		row("id", 1, "nombre", "Ana"),
		row("id", 2, "nombre", "Luis"),
	})
	assert.Equal(t, []string{"id", "nombre"}, s.Columns)
	assert.Len(t, s.Rows, 2)
}

func TestWithRows_EmptyResultKeepsColumns(t *testing.T) {
	s := NewState(tables.Default).WithRows([]*ordereddict.Dict{row("id", 1, "nombre", "Ana")})

	s = s.WithRows([]*ordereddict.Dict{})
	assert.Empty(t, s.Rows)
	assert.Equal(t, []string{"id", "nombre"}, s.Columns)

	s = s.WithRows(nil)
	assert.NotNil(t, s.Rows)
	assert.Equal(t, []string{"id", "nombre"}, s.Columns)
}

func TestWithTable_KeepsDraft(t *testing.T) {
	s := NewState(tables.Default).WithDraftField("nombre", "Ana").WithTable("pedidos")
	assert.Equal(t, "pedidos", s.Table)
	assert.Equal(t, map[string]string{"nombre": "Ana"}, s.Draft)
}

func TestWithDraftField_DoesNotAlias(t *testing.T) {
	a := NewState(tables.Default).WithDraftField("nombre", "Ana")
	b := a.WithDraftField("email", "ana@example.com")

	assert.Equal(t, map[string]string{"nombre": "Ana"}, a.Draft)
	assert.Equal(t, map[string]string{"nombre": "Ana", "email": "ana@example.com"}, b.Draft)
}

func TestWithDraftField_IgnoresKeyColumn(t *testing.T) {
	s := NewState(tables.Default).WithDraftField("nombre", "Ana").WithDraftField("id", "99")
	assert.Equal(t, map[string]string{"nombre": "Ana"}, s.Draft)
}

func TestWithoutDraft(t *testing.T) {
	s := NewState(tables.Default).WithDraftField("nombre", "Ana").WithoutDraft()
	assert.NotNil(t, s.Draft)
	assert.Empty(t, s.Draft)
}

func TestFormColumns_SkipsID(t *testing.T) {
	s := NewState(tables.Default).WithRows([]*ordereddict.Dict{row("id", 5, "nombre", "Mesa", "precio", 100)})
	assert.Equal(t, []string{"nombre", "precio"}, s.FormColumns())
	assert.Equal(t, []string{"id", "nombre", "precio"}, s.Columns)
}

func TestFilterDraft(t *testing.T) {
	got := FilterDraft(map[string]string{"nombre": "Ana", "email": ""}, []string{"id", "nombre", "email"})
	assert.Equal(t, []string{"nombre"}, got.Keys())
	v, _ := got.Get("nombre")
	assert.Equal(t, "Ana", v)
}

func TestFilterDraft_Order(t *testing.T) {
	draft := map[string]string{"zeta": "z", "precio": "10", "alfa": "a", "nombre": "Silla"}
	got := FilterDraft(draft, []string{"id", "nombre", "precio"})
	assert.Equal(t, []string{"nombre", "precio", "alfa", "zeta"}, got.Keys())
}

func TestFilterDraft_DropsKeyColumn(t *testing.T) {
	draft := map[string]string{"id": "99", "nombre": "Ana"}

	assert.Equal(t, []string{"nombre"}, FilterDraft(draft, []string{"id", "nombre"}).Keys())
	assert.Equal(t, []string{"nombre"}, FilterDraft(draft, nil).Keys())
}

func TestFilterDraft_AllEmpty(t *testing.T) {
	got := FilterDraft(map[string]string{"nombre": "", "email": ""}, []string{"nombre", "email"})
	assert.Equal(t, 0, got.Len())
}

func TestClone(t *testing.T) {
	s := NewState(tables.Default).WithRows([]*ordereddict.Dict{row("id", 1)}).WithDraftField("a", "b")
	c := s.Clone()
	c.Columns[0] = "x"
	c.Draft["a"] = "changed"

	assert.Equal(t, "id", s.Columns[0])
	assert.Equal(t, "b", s.Draft["a"])
}
