// Package viewstate holds the selected table, its rows and columns and the
// draft record, and orchestrates calls to the data service.
//
// State is a plain value. The With* functions return updated copies and do
// no I/O, so every transition can be tested without a server or a browser.
package viewstate

import (
	"maps"
	"slices"
	"sort"

	"github.com/Velocidex/ordereddict"
	"github.com/dracory/gestor/shared/dataservice"
	"github.com/dracory/gestor/shared/tables"
)

// State is a snapshot of what the UI shows.
type State struct {
	Table   string
	Rows    []*ordereddict.Dict
	Columns []string
	Draft   map[string]string
}

// NewState starts on the registry's first table with nothing loaded.
func NewState(registry tables.Registry) State {
	return State{
		Table:   registry.First(),
		Rows:    []*ordereddict.Dict{},
		Columns: []string{},
		Draft:   map[string]string{},
	}
}

// WithTable replaces the selection. Rows, columns and draft are kept until
// the next fetch.
func (s State) WithTable(name string) State {
	s.Table = name
	return s
}

// WithRows stores a fetch result. The column list is taken from the first
// row; an empty result leaves the previous column list in place.
func (s State) WithRows(rows []*ordereddict.Dict) State {
	if rows == nil {
		rows = []*ordereddict.Dict{}
	}
	s.Rows = rows
	if len(rows) > 0 {
		s.Columns = rows[0].Keys()
	}
	return s
}

// WithDraftField sets draft[column] = value. The key column is never part
// of a draft; setting it leaves s unchanged.
func (s State) WithDraftField(column, value string) State {
	if column == dataservice.KeyColumn {
		return s
	}
	draft := maps.Clone(s.Draft)
	if draft == nil {
		draft = map[string]string{}
	}
	draft[column] = value
	s.Draft = draft
	return s
}

// WithoutDraft clears the draft record.
func (s State) WithoutDraft() State {
	s.Draft = map[string]string{}
	return s
}

// FormColumns lists the columns the insertion form offers.
func (s State) FormColumns() []string {
	return slices.DeleteFunc(slices.Clone(s.Columns), func(c string) bool {
		return c == dataservice.KeyColumn
	})
}

// Clone returns a copy that shares no slices or maps with s. Rows are
// treated as read-only and are not deep-copied.
func (s State) Clone() State {
	s.Rows = slices.Clone(s.Rows)
	s.Columns = slices.Clone(s.Columns)
	s.Draft = maps.Clone(s.Draft)
	return s
}

// FilterDraft returns the draft entries whose value is not empty, in column
// order first and then remaining keys sorted. The key column is dropped.
func FilterDraft(draft map[string]string, columns []string) *ordereddict.Dict {
	out := ordereddict.NewDict()
	seen := map[string]bool{dataservice.KeyColumn: true}
	for _, c := range columns {
		if seen[c] {
			continue
		}
		seen[c] = true
		if v, ok := draft[c]; ok && v != "" {
			out.Set(c, v)
		}
	}

	rest := make([]string, 0, len(draft))
	for k, v := range draft {
		if !seen[k] && v != "" {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		out.Set(k, draft[k])
	}
	return out
}
