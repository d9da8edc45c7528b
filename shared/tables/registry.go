// Package tables holds the fixed list of tables the UI can work with.
package tables

import "slices"

const (
	Clientes  = "clientes"
	Productos = "productos"
	Pedidos   = "pedidos"
	Detalles  = "detalles"
)

// Registry is an immutable, ordered list of selectable table names.
type Registry struct {
	names []string
}

// Default is the registry used by the application.
var Default = Registry{names: []string{Clientes, Productos, Pedidos, Detalles}}

// Names returns a copy of the table names in display order.
func (r Registry) Names() []string {
	return slices.Clone(r.names)
}

// First returns the initial selection.
func (r Registry) First() string {
	if len(r.names) == 0 {
		return ""
	}
	return r.names[0]
}

// Contains reports whether name is a registered table.
func (r Registry) Contains(name string) bool {
	return slices.Contains(r.names, name)
}
